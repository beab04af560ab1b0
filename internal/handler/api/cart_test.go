package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/middleware"
)

type stubPricing struct {
	cart       *domain.Cart
	cartErr    error
	total      decimal.Decimal
	totalErr   error
	order      *domain.Order
	orderErr   error
	gotItems   []domain.RequestedItem
	gotCoupon  string
	gotOwnerID string
}

func (s *stubPricing) BuildCart(ctx context.Context, ownerID string, requested []domain.RequestedItem) (*domain.Cart, error) {
	s.gotOwnerID = ownerID
	s.gotItems = requested
	return s.cart, s.cartErr
}

func (s *stubPricing) ApplyCoupon(ctx context.Context, ownerID, couponName string) (decimal.Decimal, error) {
	s.gotOwnerID = ownerID
	s.gotCoupon = couponName
	return s.total, s.totalErr
}

func (s *stubPricing) FinalizeOrder(ctx context.Context, ownerID string, useDiscount bool) (*domain.Order, error) {
	s.gotOwnerID = ownerID
	return s.order, s.orderErr
}

func (s *stubPricing) GetCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	s.gotOwnerID = ownerID
	return s.cart, s.cartErr
}

func (s *stubPricing) EmptyCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	s.gotOwnerID = ownerID
	return s.cart, s.cartErr
}

type stubOrders struct {
	order  *domain.Order
	orders []domain.Order
	err    error
}

func (s *stubOrders) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrders) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *stubOrders) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("order.update_status", "unknown order status")
	}
	return s.order, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func asUser(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func TestBuildCart_Success(t *testing.T) {
	pricing := &stubPricing{cart: &domain.Cart{OrderBy: "user-1", CartTotal: decimal.NewFromInt(35)}}
	h := NewCartHandler(pricing, &stubOrders{}, testLogger())

	body := `{"cart":[{"_id":"prod-1","count":2},{"_id":"prod-2","count":3}]}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/user/cart", strings.NewReader(body)), "user-1")
	w := httptest.NewRecorder()

	h.BuildCart(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-1", pricing.gotOwnerID)
	require.Len(t, pricing.gotItems, 2)
	assert.Equal(t, "prod-1", pricing.gotItems[0].ProductID)
	assert.Equal(t, 2, pricing.gotItems[0].Count)
}

func TestBuildCart_EmptyBody(t *testing.T) {
	h := NewCartHandler(&stubPricing{}, &stubOrders{}, testLogger())

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/user/cart", strings.NewReader("")), "user-1")
	w := httptest.NewRecorder()

	h.BuildCart(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid")
}

func TestBuildCart_EmptyItemList(t *testing.T) {
	h := NewCartHandler(&stubPricing{}, &stubOrders{}, testLogger())

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/user/cart", strings.NewReader(`{"cart":[]}`)), "user-1")
	w := httptest.NewRecorder()

	h.BuildCart(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuildCart_UnknownProduct(t *testing.T) {
	pricing := &stubPricing{cartErr: domain.NotFound("product.find_price", "product", "missing")}
	h := NewCartHandler(pricing, &stubOrders{}, testLogger())

	body := `{"cart":[{"_id":"missing","count":1}]}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/user/cart", strings.NewReader(body)), "user-1")
	w := httptest.NewRecorder()

	h.BuildCart(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyCoupon_Success(t *testing.T) {
	pricing := &stubPricing{total: decimal.RequireFromString("66.99")}
	h := NewCartHandler(pricing, &stubOrders{}, testLogger())

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/user/cart/applycoupon", strings.NewReader(`{"coupon":"SUMMER33"}`)), "user-1")
	w := httptest.NewRecorder()

	h.ApplyCoupon(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SUMMER33", pricing.gotCoupon)

	var env struct {
		Data struct {
			TotalAfterDiscount json.Number `json:"totalAfterDiscount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, json.Number("66.99"), env.Data.TotalAfterDiscount)
}

func TestApplyCoupon_UnknownCoupon(t *testing.T) {
	pricing := &stubPricing{totalErr: domain.NotFound("coupon.find_by_name", "coupon", "NOPE")}
	h := NewCartHandler(pricing, &stubOrders{}, testLogger())

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/user/cart/applycoupon", strings.NewReader(`{"coupon":"NOPE"}`)), "user-1")
	w := httptest.NewRecorder()

	h.ApplyCoupon(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCashOrder_Success(t *testing.T) {
	pricing := &stubPricing{order: &domain.Order{ID: "order-1", OrderStatus: domain.OrderStatusCashOnDelivery}}
	h := NewCartHandler(pricing, &stubOrders{}, testLogger())

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/user/cart/cash-order", strings.NewReader(`{"COD":true,"couponApplied":false}`)), "user-1")
	w := httptest.NewRecorder()

	h.CreateCashOrder(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "order-1")
	assert.NotContains(t, w.Body.String(), "warning")
}

func TestCreateCashOrder_RequiresCOD(t *testing.T) {
	h := NewCartHandler(&stubPricing{}, &stubOrders{}, testLogger())

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/user/cart/cash-order", strings.NewReader(`{"COD":false}`)), "user-1")
	w := httptest.NewRecorder()

	h.CreateCashOrder(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCashOrder_PartialInventoryFailure(t *testing.T) {
	order := &domain.Order{ID: "order-1", OrderStatus: domain.OrderStatusCashOnDelivery}
	pricing := &stubPricing{
		order:    order,
		orderErr: domain.Partial(assert.AnError, "pricing.finalize_order", "inventory adjustment was not fully applied"),
	}
	h := NewCartHandler(pricing, &stubOrders{}, testLogger())

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/user/cart/cash-order", strings.NewReader(`{"COD":true}`)), "user-1")
	w := httptest.NewRecorder()

	h.CreateCashOrder(w, req)

	// The order stands; the partial failure surfaces as a warning.
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "order-1")
	assert.Contains(t, w.Body.String(), "partial_failure")
}

func TestUpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	h := NewCartHandler(&stubPricing{}, &stubOrders{}, testLogger())

	req := asUser(httptest.NewRequest(http.MethodPut, "/api/v1/user/order/update-order/order-1", strings.NewReader(`{"status":"Teleported"}`)), "admin-1")
	req.SetPathValue("id", "order-1")
	w := httptest.NewRecorder()

	h.UpdateOrderStatus(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus_Success(t *testing.T) {
	order := &domain.Order{ID: "order-1", OrderStatus: domain.OrderStatusDispatched}
	order.PaymentIntent.Status = "Dispatched"
	h := NewCartHandler(&stubPricing{}, &stubOrders{order: order}, testLogger())

	req := asUser(httptest.NewRequest(http.MethodPut, "/api/v1/user/order/update-order/order-1", strings.NewReader(`{"status":"Dispatched"}`)), "admin-1")
	req.SetPathValue("id", "order-1")
	w := httptest.NewRecorder()

	h.UpdateOrderStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dispatched")
}
