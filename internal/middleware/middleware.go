// Package middleware provides HTTP middleware for authentication, request
// identification, metrics, and rate limiting.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/njord/internal/domain"
)

// contextKey is a private type for context keys defined in this package.
type contextKey string

// These helpers mirror the handler response patterns but are self-contained
// to avoid a circular import between middleware and handler.

func respondWithError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorCodeToHTTPStatus(code))
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": domain.ErrorMessage(err),
		},
	})
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondWithError(w, domain.Unauthorized("", message))
}

func respondForbidden(w http.ResponseWriter, message string) {
	respondWithError(w, domain.Forbidden("", message))
}

func rateLimitError() error {
	return &domain.Error{Code: domain.ERATELIMIT, Message: "Too many requests"}
}

// errorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
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
