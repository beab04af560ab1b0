package api

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/service"
)

// EnquiryHandler serves the contact-form endpoints.
type EnquiryHandler struct {
	enquiries service.EnquiryService
	logger    *slog.Logger
}

// NewEnquiryHandler creates a new EnquiryHandler.
func NewEnquiryHandler(enquiries service.EnquiryService, logger *slog.Logger) *EnquiryHandler {
	return &EnquiryHandler{enquiries: enquiries, logger: logger}
}

type enquiryRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Mobile  string `json:"mobile" validate:"required"`
	Comment string `json:"comment" validate:"required"`
	Status  string `json:"status"`
}

// Create handles POST /api/v1/enquiry.
func (h *EnquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req enquiryRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	enquiry, err := h.enquiries.Create(r.Context(), &domain.Enquiry{
		Name:    req.Name,
		Email:   req.Email,
		Mobile:  req.Mobile,
		Comment: req.Comment,
		Status:  req.Status,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, enquiry)
}

// Get handles GET /api/v1/enquiry/{id} (admin).
func (h *EnquiryHandler) Get(w http.ResponseWriter, r *http.Request) {
	enquiry, err := h.enquiries.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, enquiry)
}

// List handles GET /api/v1/enquiry (admin).
func (h *EnquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	enquiries, err := h.enquiries.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, enquiries)
}

// Update handles PUT /api/v1/enquiry/{id} (admin).
func (h *EnquiryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req enquiryRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	enquiry, err := h.enquiries.Update(r.Context(), &domain.Enquiry{
		ID:      r.PathValue("id"),
		Name:    req.Name,
		Email:   req.Email,
		Mobile:  req.Mobile,
		Comment: req.Comment,
		Status:  req.Status,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, enquiry)
}

// Delete handles DELETE /api/v1/enquiry/{id} (admin).
func (h *EnquiryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	enquiry, err := h.enquiries.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, enquiry)
}
