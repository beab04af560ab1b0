package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/service"
)

// CouponHandler serves the admin coupon CRUD endpoints.
type CouponHandler struct {
	coupons service.CouponService
	logger  *slog.Logger
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(coupons service.CouponService, logger *slog.Logger) *CouponHandler {
	return &CouponHandler{coupons: coupons, logger: logger}
}

type couponRequest struct {
	Name     string          `json:"name" validate:"required"`
	Expiry   time.Time       `json:"expiry" validate:"required"`
	Discount decimal.Decimal `json:"discount" validate:"required"`
}

// Create handles POST /api/v1/coupon (admin).
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	coupon, err := h.coupons.Create(r.Context(), &domain.Coupon{
		Name:     req.Name,
		Expiry:   req.Expiry,
		Discount: req.Discount,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, coupon)
}

// Get handles GET /api/v1/coupon/{id} (admin).
func (h *CouponHandler) Get(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.coupons.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, coupon)
}

// List handles GET /api/v1/coupon (admin).
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, coupons)
}

// Update handles PUT /api/v1/coupon/{id} (admin).
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	coupon, err := h.coupons.Update(r.Context(), &domain.Coupon{
		ID:       r.PathValue("id"),
		Name:     req.Name,
		Expiry:   req.Expiry,
		Discount: req.Discount,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, coupon)
}

// Delete handles DELETE /api/v1/coupon/{id} (admin).
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.coupons.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, coupon)
}
