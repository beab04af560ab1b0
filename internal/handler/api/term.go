package api

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/njord/internal/service"
)

// TermHandler serves one taxonomy's CRUD endpoints. The same handler type
// backs categories, brands, colors, and blog categories.
type TermHandler struct {
	terms  service.TermService
	logger *slog.Logger
}

// NewTermHandler creates a new TermHandler.
func NewTermHandler(terms service.TermService, logger *slog.Logger) *TermHandler {
	return &TermHandler{terms: terms, logger: logger}
}

type termRequest struct {
	Title string `json:"title" validate:"required"`
}

// Create handles POST /api/v1/{taxonomy} (admin).
func (h *TermHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req termRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	term, err := h.terms.Create(r.Context(), req.Title)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, term)
}

// Get handles GET /api/v1/{taxonomy}/{id}.
func (h *TermHandler) Get(w http.ResponseWriter, r *http.Request) {
	term, err := h.terms.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, term)
}

// List handles GET /api/v1/{taxonomy}.
func (h *TermHandler) List(w http.ResponseWriter, r *http.Request) {
	terms, err := h.terms.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, terms)
}

// Update handles PUT /api/v1/{taxonomy}/{id} (admin).
func (h *TermHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req termRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	term, err := h.terms.Update(r.Context(), r.PathValue("id"), req.Title)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, term)
}

// Delete handles DELETE /api/v1/{taxonomy}/{id} (admin).
func (h *TermHandler) Delete(w http.ResponseWriter, r *http.Request) {
	term, err := h.terms.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, term)
}
