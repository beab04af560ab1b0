package api

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/middleware"
	"github.com/dukerupert/njord/internal/service"
)

// CartHandler serves the cart and checkout endpoints. All routes operate on
// the authenticated user's own cart.
type CartHandler struct {
	pricing service.PricingService
	orders  service.OrderService
	logger  *slog.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(pricing service.PricingService, orders service.OrderService, logger *slog.Logger) *CartHandler {
	return &CartHandler{pricing: pricing, orders: orders, logger: logger}
}

type buildCartRequest struct {
	Cart []domain.RequestedItem `json:"cart" validate:"required,min=1,dive"`
}

// BuildCart handles POST /api/v1/user/cart. Submitting a cart replaces any
// existing cart for the user.
func (h *CartHandler) BuildCart(w http.ResponseWriter, r *http.Request) {
	var req buildCartRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	cart, err := h.pricing.BuildCart(r.Context(), middleware.GetUserID(r.Context()), req.Cart)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, cart)
}

// GetCart handles GET /api/v1/user/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.pricing.GetCart(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusOK, cart)
}

// EmptyCart handles DELETE /api/v1/user/empty-cart.
func (h *CartHandler) EmptyCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.pricing.EmptyCart(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusOK, cart)
}

type applyCouponRequest struct {
	Coupon string `json:"coupon" validate:"required"`
}

// ApplyCoupon handles POST /api/v1/user/cart/applycoupon. The discounted
// total is returned and persisted on the cart.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	total, err := h.pricing.ApplyCoupon(r.Context(), middleware.GetUserID(r.Context()), req.Coupon)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"totalAfterDiscount": total})
}

type cashOrderRequest struct {
	COD           bool `json:"COD"`
	CouponApplied bool `json:"couponApplied"`
}

// CreateCashOrder handles POST /api/v1/user/cart/cash-order. A partially
// applied inventory batch does not fail the order; the response carries a
// warning instead.
func (h *CartHandler) CreateCashOrder(w http.ResponseWriter, r *http.Request) {
	var req cashOrderRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if !req.COD {
		respondError(w, r, h.logger, domain.Invalid("cart.cash_order", "Create cash order failed"))
		return
	}

	order, err := h.pricing.FinalizeOrder(r.Context(), middleware.GetUserID(r.Context()), req.CouponApplied)
	if err != nil {
		if domain.IsCode(err, domain.EPARTIAL) && order != nil {
			h.logger.Warn("inventory adjustment partially applied",
				"order_id", order.ID, "error", err.Error())
			respondWithWarning(w, http.StatusCreated, order, err)
			return
		}
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, order)
}

// GetOrders handles GET /api/v1/user/get-orders.
func (h *CartHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByOwner(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusOK, orders)
}

// GetOrdersByUser handles GET /api/v1/user/getorderbyuser/{id} (admin).
func (h *CartHandler) GetOrdersByUser(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByOwner(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusOK, orders)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus handles PUT /api/v1/user/order/update-order/{id} (admin).
func (h *CartHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), domain.OrderStatus(req.Status))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusOK, order)
}
