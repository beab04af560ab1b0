package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/njord/internal/domain"
)

// --- In-memory fakes ---

type fakeCatalog struct {
	prices      map[string]string
	adjustments [][]domain.InventoryAdjustment
	batchErr    error
}

func (f *fakeCatalog) FindPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	s, ok := f.prices[productID]
	if !ok {
		return decimal.Zero, domain.NotFound("product.find_price", "product", productID)
	}
	return decimal.RequireFromString(s), nil
}

func (f *fakeCatalog) BatchAdjustInventory(ctx context.Context, adjustments []domain.InventoryAdjustment) error {
	f.adjustments = append(f.adjustments, adjustments)
	return f.batchErr
}

type fakeCartStore struct {
	carts map[string]*domain.Cart
	// replaceCalls counts Replace invocations to prove replace-not-merge.
	replaceCalls int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]*domain.Cart)}
}

func (f *fakeCartStore) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart, ok := f.carts[ownerID]
	if !ok {
		return nil, domain.NotFound("cart.get", "cart", ownerID)
	}
	cp := *cart
	return &cp, nil
}

func (f *fakeCartStore) Replace(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	f.replaceCalls++
	cp := *cart
	cp.TotalAfterDiscount = nil
	f.carts[cart.OrderBy] = &cp
	return &cp, nil
}

func (f *fakeCartStore) SetTotalAfterDiscount(ctx context.Context, ownerID string, total decimal.Decimal) error {
	cart, ok := f.carts[ownerID]
	if !ok {
		return domain.NotFound("cart.set_total_after_discount", "cart", ownerID)
	}
	cart.TotalAfterDiscount = &total
	return nil
}

func (f *fakeCartStore) Delete(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart, ok := f.carts[ownerID]
	if !ok {
		return nil, domain.NotFound("cart.delete", "cart", ownerID)
	}
	delete(f.carts, ownerID)
	return cart, nil
}

type fakeCouponLookup struct {
	coupons map[string]string
}

func (f *fakeCouponLookup) FindByName(ctx context.Context, name string) (*domain.Coupon, error) {
	pct, ok := f.coupons[name]
	if !ok {
		return nil, domain.NotFound("coupon.find_by_name", "coupon", name)
	}
	return &domain.Coupon{Name: name, Discount: decimal.RequireFromString(pct)}, nil
}

type fakeOrderStore struct {
	orders []*domain.Order
}

func (f *fakeOrderStore) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	cp := *order
	cp.ID = "order-1"
	f.orders = append(f.orders, &cp)
	return &cp, nil
}

func (f *fakeOrderStore) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, domain.NotFound("order.get", "order", orderID)
}

func (f *fakeOrderStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.OrderBy == ownerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.ID == orderID {
			o.TransitionStatus(status)
			return o, nil
		}
	}
	return nil, domain.NotFound("order.update_status", "order", orderID)
}

// --- Test helpers ---

type fixture struct {
	catalog *fakeCatalog
	carts   *fakeCartStore
	coupons *fakeCouponLookup
	orders  *fakeOrderStore
	engine  PricingService
}

func newFixture() *fixture {
	f := &fixture{
		catalog: &fakeCatalog{prices: map[string]string{}},
		carts:   newFakeCartStore(),
		coupons: &fakeCouponLookup{coupons: map[string]string{}},
		orders:  &fakeOrderStore{},
	}
	clock := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	idGen := func() string { return "payment-id-1" }
	f.engine = NewPricingService(f.catalog, f.carts, f.coupons, f.orders, clock, idGen)
	return f
}

func eq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "got %s, want %s", got, want)
}

// --- BuildCart ---

func TestBuildCartSumsLineTotals(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "10"
	f.catalog.prices["p2"] = "5"

	cart, err := f.engine.BuildCart(context.Background(), "owner-1", []domain.RequestedItem{
		{ProductID: "p1", Count: 2},
		{ProductID: "p2", Count: 3, Color: "red"},
	})
	require.NoError(t, err)

	eq(t, "35", cart.CartTotal)
	require.Len(t, cart.Products, 2)
	eq(t, "10", cart.Products[0].Price)
	assert.Equal(t, 2, cart.Products[0].Count)
	assert.Equal(t, "red", cart.Products[1].Color)
	assert.Nil(t, cart.TotalAfterDiscount)
}

func TestBuildCartUnknownProduct(t *testing.T) {
	f := newFixture()

	_, err := f.engine.BuildCart(context.Background(), "owner-1", []domain.RequestedItem{
		{ProductID: "missing", Count: 1},
	})
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestBuildCartRejectsNonPositiveCount(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "10"

	_, err := f.engine.BuildCart(context.Background(), "owner-1", []domain.RequestedItem{
		{ProductID: "p1", Count: 0},
	})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestBuildCartReplacesExistingCart(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "10"
	f.catalog.prices["p2"] = "99"
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 1}})
	require.NoError(t, err)
	_, err = f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p2", Count: 1}})
	require.NoError(t, err)

	// Exactly one cart persisted, holding only the second snapshot.
	assert.Len(t, f.carts.carts, 1)
	cart, err := f.carts.Get(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, cart.Products, 1)
	assert.Equal(t, "p2", cart.Products[0].ProductID)
	eq(t, "99", cart.CartTotal)
}

func TestBuildCartSnapshotsPriceAtBuildTime(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "10"
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 1}})
	require.NoError(t, err)

	// A later catalog price change must not affect the stored snapshot.
	f.catalog.prices["p1"] = "999"
	cart, err := f.carts.Get(ctx, "owner-1")
	require.NoError(t, err)
	eq(t, "10", cart.Products[0].Price)
}

// --- ApplyCoupon ---

func TestApplyCouponComputesAndPersistsDiscount(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "100"
	f.coupons.coupons["SAVE20"] = "20"
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 1}})
	require.NoError(t, err)

	total, err := f.engine.ApplyCoupon(ctx, "owner-1", "SAVE20")
	require.NoError(t, err)
	eq(t, "80", total)

	cart, err := f.carts.Get(ctx, "owner-1")
	require.NoError(t, err)
	require.NotNil(t, cart.TotalAfterDiscount)
	eq(t, "80", *cart.TotalAfterDiscount)
}

func TestApplyCouponIsIdempotent(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "100"
	f.coupons.coupons["SAVE20"] = "20"
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 1}})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		total, err := f.engine.ApplyCoupon(ctx, "owner-1", "SAVE20")
		require.NoError(t, err)
		eq(t, "80", total)
	}
}

func TestApplyCouponRounding(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		want     string
	}{
		{"rounds at two decimals", "99.99", "33", "66.99"},
		{"half rounds up", "100", "12.5", "87.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.catalog.prices["p1"] = tt.price
			f.coupons.coupons["C"] = tt.discount
			ctx := context.Background()

			_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 1}})
			require.NoError(t, err)

			total, err := f.engine.ApplyCoupon(ctx, "owner-1", "C")
			require.NoError(t, err)
			eq(t, tt.want, total)
		})
	}
}

func TestApplyCouponUnknownCoupon(t *testing.T) {
	f := newFixture()

	_, err := f.engine.ApplyCoupon(context.Background(), "owner-1", "NOPE")
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestApplyCouponWithoutCart(t *testing.T) {
	f := newFixture()
	f.coupons.coupons["SAVE20"] = "20"

	_, err := f.engine.ApplyCoupon(context.Background(), "owner-1", "SAVE20")
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

// --- FinalizeOrder ---

func TestFinalizeOrderWithoutDiscountUsesCartTotal(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "50"
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 2}})
	require.NoError(t, err)

	order, err := f.engine.FinalizeOrder(ctx, "owner-1", false)
	require.NoError(t, err)

	eq(t, "100", order.PaymentIntent.Amount)
	assert.Equal(t, domain.PaymentMethodCOD, order.PaymentIntent.Method)
	assert.Equal(t, "payment-id-1", order.PaymentIntent.ID)
	assert.Equal(t, "usd", order.PaymentIntent.Currency)
	assert.Equal(t, domain.OrderStatusCashOnDelivery, order.OrderStatus)
	assert.Equal(t, string(domain.OrderStatusCashOnDelivery), order.PaymentIntent.Status)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), order.PaymentIntent.Created)
}

func TestFinalizeOrderWithDiscountUsesDiscountedTotal(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "100"
	f.coupons.coupons["SAVE20"] = "20"
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 1}})
	require.NoError(t, err)
	_, err = f.engine.ApplyCoupon(ctx, "owner-1", "SAVE20")
	require.NoError(t, err)

	order, err := f.engine.FinalizeOrder(ctx, "owner-1", true)
	require.NoError(t, err)
	eq(t, "80", order.PaymentIntent.Amount)
}

func TestFinalizeOrderUseDiscountWithoutCouponFallsBack(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "100"
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 1}})
	require.NoError(t, err)

	// useDiscount requested but no discount present on the cart.
	order, err := f.engine.FinalizeOrder(ctx, "owner-1", true)
	require.NoError(t, err)
	eq(t, "100", order.PaymentIntent.Amount)
}

func TestFinalizeOrderEmitsOneAdjustmentPerLineItem(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "10"
	f.catalog.prices["p2"] = "5"
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{
		{ProductID: "p1", Count: 2},
		{ProductID: "p2", Count: 3},
	})
	require.NoError(t, err)

	_, err = f.engine.FinalizeOrder(ctx, "owner-1", false)
	require.NoError(t, err)

	require.Len(t, f.catalog.adjustments, 1, "one batch issued")
	batch := f.catalog.adjustments[0]
	require.Len(t, batch, 2)
	assert.Equal(t, domain.InventoryAdjustment{ProductID: "p1", QuantityDelta: -2, SoldDelta: 2}, batch[0])
	assert.Equal(t, domain.InventoryAdjustment{ProductID: "p2", QuantityDelta: -3, SoldDelta: 3}, batch[1])
}

func TestFinalizeOrderWithoutCart(t *testing.T) {
	f := newFixture()

	order, err := f.engine.FinalizeOrder(context.Background(), "owner-1", false)
	require.Error(t, err)
	assert.Nil(t, order)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.Empty(t, f.orders.orders, "no order created")
}

func TestFinalizeOrderInventoryBatchFailureIsPartial(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "10"
	f.catalog.batchErr = errors.New("write conflict")
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 1}})
	require.NoError(t, err)

	order, err := f.engine.FinalizeOrder(ctx, "owner-1", false)
	require.Error(t, err)
	assert.Equal(t, domain.EPARTIAL, domain.ErrorCode(err))
	// The order was persisted before the batch ran and stands.
	require.NotNil(t, order)
	assert.Len(t, f.orders.orders, 1)
}

func TestFinalizeOrderLeavesCartInPlace(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "10"
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 1}})
	require.NoError(t, err)

	_, err = f.engine.FinalizeOrder(ctx, "owner-1", false)
	require.NoError(t, err)

	_, err = f.carts.Get(ctx, "owner-1")
	assert.NoError(t, err, "cart must not be emptied automatically")
}

// --- EmptyCart ---

func TestEmptyCartDeletesAndReturns(t *testing.T) {
	f := newFixture()
	f.catalog.prices["p1"] = "10"
	ctx := context.Background()

	_, err := f.engine.BuildCart(ctx, "owner-1", []domain.RequestedItem{{ProductID: "p1", Count: 1}})
	require.NoError(t, err)

	cart, err := f.engine.EmptyCart(ctx, "owner-1")
	require.NoError(t, err)
	eq(t, "10", cart.CartTotal)

	_, err = f.engine.EmptyCart(ctx, "owner-1")
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}
