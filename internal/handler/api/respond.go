// Package api contains the JSON HTTP handlers for the /api/v1 surface.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/middleware"
)

// validate checks request DTOs against their struct tags.
var validate = validator.New(validator.WithRequiredStructEnabled())

// envelope is the uniform response shape: exactly one of Data or Error is
// set. Warning carries non-fatal information alongside Data.
type envelope struct {
	Data    any            `json:"data,omitempty"`
	Error   *errorBody     `json:"error,omitempty"`
	Warning *warningBody   `json:"warning,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type warningBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respond writes a success envelope.
func respond(w http.ResponseWriter, status int, data any) {
	respondEnvelope(w, status, envelope{Data: data})
}

// respondWithWarning writes a success envelope carrying a warning, used when
// an operation succeeded but a follow-up step only partially applied.
func respondWithWarning(w http.ResponseWriter, status int, data any, warnErr error) {
	respondEnvelope(w, status, envelope{
		Data: data,
		Warning: &warningBody{
			Code:    domain.ErrorCode(warnErr),
			Message: domain.ErrorMessage(warnErr),
		},
	})
}

func respondEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// respondError maps a domain error to an HTTP status and writes the error
// envelope. Internal errors are logged with the request id and masked.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	status := statusForCode(code)

	attrs := []any{
		"error", err.Error(),
		"code", code,
		"op", domain.ErrorOp(err),
		"path", r.URL.Path,
		"method", r.Method,
	}
	if reqID := middleware.GetRequestID(r.Context()); reqID != "" {
		attrs = append(attrs, "request_id", reqID)
	}

	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	respondEnvelope(w, status, envelope{
		Error: &errorBody{
			Code:    code,
			Message: domain.ErrorMessage(err),
		},
	})
}

func statusForCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// decode reads the request body into dst and validates struct tags.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("api.decode", "request body must not be empty")
		}
		return domain.Invalid("api.decode", fmt.Sprintf("malformed request body: %v", err))
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.Invalid("api.decode",
				fmt.Sprintf("field %s failed validation on %s", verrs[0].Field(), verrs[0].Tag()))
		}
		return domain.Invalid("api.decode", "request validation failed")
	}

	return nil
}
