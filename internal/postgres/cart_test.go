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

func newCartStore(t *testing.T) (*CartStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewCartStore(mock), mock
}

func sampleCart() *domain.Cart {
	return &domain.Cart{
		Products: []domain.LineItem{
			{ProductID: "prod-1", Count: 2, Color: "black", Price: decimal.NewFromInt(10)},
			{ProductID: "prod-2", Count: 3, Price: decimal.NewFromInt(5)},
		},
		CartTotal: decimal.NewFromInt(35),
		OrderBy:   "user-1",
	}
}

func TestCartStore_Replace_UpsertsAndClearsDiscount(t *testing.T) {
	store, mock := newCartStore(t)
	defer mock.Close()

	cart := sampleCart()
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO carts").
		WithArgs(cart.OrderBy, pgxmock.AnyArg(), cart.CartTotal).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	stale := decimal.NewFromInt(30)
	cart.TotalAfterDiscount = &stale

	got, err := store.Replace(context.Background(), cart)
	require.NoError(t, err)
	assert.Nil(t, got.TotalAfterDiscount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartStore_Get_Success(t *testing.T) {
	store, mock := newCartStore(t)
	defer mock.Close()

	cart := sampleCart()
	productsJSON, err := json.Marshal(cart.Products)
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM carts").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"products", "cart_total", "total_after_discount", "orderby", "created_at", "updated_at",
		}).AddRow(productsJSON, cart.CartTotal, (*decimal.Decimal)(nil), "user-1", now, now))

	got, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, got.Products, 2)
	assert.True(t, got.CartTotal.Equal(decimal.NewFromInt(35)))
	assert.Nil(t, got.TotalAfterDiscount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartStore_Get_NotFound(t *testing.T) {
	store, mock := newCartStore(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM carts").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartStore_SetTotalAfterDiscount(t *testing.T) {
	store, mock := newCartStore(t)
	defer mock.Close()

	total := decimal.RequireFromString("66.99")

	mock.ExpectExec("UPDATE carts").
		WithArgs(total, pgxmock.AnyArg(), "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := store.SetTotalAfterDiscount(context.Background(), "user-1", total)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartStore_SetTotalAfterDiscount_NoCart(t *testing.T) {
	store, mock := newCartStore(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE carts").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.SetTotalAfterDiscount(context.Background(), "missing", decimal.NewFromInt(10))
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartStore_Delete_ReturnsRemovedCart(t *testing.T) {
	store, mock := newCartStore(t)
	defer mock.Close()

	cart := sampleCart()
	productsJSON, err := json.Marshal(cart.Products)
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery("DELETE FROM carts").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"products", "cart_total", "total_after_discount", "orderby", "created_at", "updated_at",
		}).AddRow(productsJSON, cart.CartTotal, (*decimal.Decimal)(nil), "user-1", now, now))

	got, err := store.Delete(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.OrderBy)
	assert.Len(t, got.Products, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartStore_Delete_NotFound(t *testing.T) {
	store, mock := newCartStore(t)
	defer mock.Close()

	mock.ExpectQuery("DELETE FROM carts").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
