package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/njord/internal/domain"
)

func newOrderStore(t *testing.T) (*OrderStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewOrderStore(mock), mock
}

func sampleStoredOrder() *domain.Order {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Order{
		ID: "order-1",
		Products: []domain.LineItem{
			{ProductID: "prod-1", Count: 2, Price: decimal.NewFromInt(10)},
		},
		PaymentIntent: domain.PaymentRecord{
			ID:       "payment-1",
			Method:   domain.PaymentMethodCOD,
			Amount:   decimal.NewFromInt(20),
			Status:   string(domain.OrderStatusCashOnDelivery),
			Created:  created,
			Currency: "usd",
		},
		OrderStatus: domain.OrderStatusCashOnDelivery,
		OrderBy:     "user-1",
	}
}

func TestOrderStore_Create_Success(t *testing.T) {
	store, mock := newOrderStore(t)
	defer mock.Close()

	order := sampleStoredOrder()
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(order.ID, order.OrderBy, pgxmock.AnyArg(), pgxmock.AnyArg(), order.OrderStatus).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	got, err := store.Create(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, now, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderStore_GetByID_Success(t *testing.T) {
	store, mock := newOrderStore(t)
	defer mock.Close()

	order := sampleStoredOrder()
	productsJSON, err := json.Marshal(order.Products)
	require.NoError(t, err)
	paymentJSON, err := json.Marshal(order.PaymentIntent)
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("order-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "orderby", "products", "payment_intent", "order_status", "created_at", "updated_at",
		}).AddRow("order-1", "user-1", productsJSON, paymentJSON, order.OrderStatus, now, now))

	got, err := store.GetByID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCashOnDelivery, got.OrderStatus)
	assert.Equal(t, "payment-1", got.PaymentIntent.ID)
	require.Len(t, got.Products, 1)
	assert.True(t, got.Products[0].Price.Equal(decimal.NewFromInt(10)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderStore_GetByID_NotFound(t *testing.T) {
	store, mock := newOrderStore(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderStore_UpdateStatus_RewritesPaymentStatus(t *testing.T) {
	store, mock := newOrderStore(t)
	defer mock.Close()

	order := sampleStoredOrder()
	order.TransitionStatus(domain.OrderStatusDispatched)
	productsJSON, err := json.Marshal(order.Products)
	require.NoError(t, err)
	paymentJSON, err := json.Marshal(order.PaymentIntent)
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE orders").
		WithArgs(domain.OrderStatusDispatched, pgxmock.AnyArg(), "order-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "orderby", "products", "payment_intent", "order_status", "created_at", "updated_at",
		}).AddRow("order-1", "user-1", productsJSON, paymentJSON, domain.OrderStatusDispatched, now, now))

	got, err := store.UpdateStatus(context.Background(), "order-1", domain.OrderStatusDispatched)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDispatched, got.OrderStatus)
	assert.Equal(t, "Dispatched", got.PaymentIntent.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderStore_UpdateStatus_NotFound(t *testing.T) {
	store, mock := newOrderStore(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE orders").
		WithArgs(domain.OrderStatusCancelled, pgxmock.AnyArg(), "missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.UpdateStatus(context.Background(), "missing", domain.OrderStatusCancelled)
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderStore_ListByOwner(t *testing.T) {
	store, mock := newOrderStore(t)
	defer mock.Close()

	order := sampleStoredOrder()
	productsJSON, err := json.Marshal(order.Products)
	require.NoError(t, err)
	paymentJSON, err := json.Marshal(order.PaymentIntent)
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "orderby", "products", "payment_intent", "order_status", "created_at", "updated_at",
		}).
			AddRow("order-2", "user-1", productsJSON, paymentJSON, order.OrderStatus, now, now).
			AddRow("order-1", "user-1", productsJSON, paymentJSON, order.OrderStatus, now.Add(-time.Hour), now))

	got, err := store.ListByOwner(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "order-2", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
