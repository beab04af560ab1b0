package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/njord/internal/domain"
)

// CartStore implements domain.CartStore. Each owner has at most one row; the
// line items live in a single JSONB column so the stored document matches the
// response shape.
type CartStore struct {
	db DBTX
}

// NewCartStore creates a new PostgreSQL-backed cart store.
func NewCartStore(db DBTX) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	query := `
		SELECT products, cart_total, total_after_discount, orderby, created_at, updated_at
		FROM carts
		WHERE orderby = $1`

	var (
		cart         domain.Cart
		productsJSON []byte
	)

	err := s.db.QueryRow(ctx, query, ownerID).Scan(
		&productsJSON,
		&cart.CartTotal,
		&cart.TotalAfterDiscount,
		&cart.OrderBy,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("cart.get", "cart", ownerID)
		}
		return nil, fmt.Errorf("scan cart: %w", err)
	}

	if err := json.Unmarshal(productsJSON, &cart.Products); err != nil {
		return nil, fmt.Errorf("unmarshal cart products: %w", err)
	}

	return &cart, nil
}

// Replace upserts the owner's cart in one statement. An existing cart is
// overwritten wholesale and any previously applied discount is cleared.
func (s *CartStore) Replace(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	productsJSON, err := json.Marshal(cart.Products)
	if err != nil {
		return nil, fmt.Errorf("marshal cart products: %w", err)
	}

	query := `
		INSERT INTO carts (orderby, products, cart_total, total_after_discount, created_at, updated_at)
		VALUES ($1, $2, $3, NULL, now(), now())
		ON CONFLICT (orderby) DO UPDATE
		SET products = EXCLUDED.products,
		    cart_total = EXCLUDED.cart_total,
		    total_after_discount = NULL,
		    updated_at = now()
		RETURNING created_at, updated_at`

	err = s.db.QueryRow(ctx, query, cart.OrderBy, productsJSON, cart.CartTotal).
		Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert cart: %w", err)
	}

	cart.TotalAfterDiscount = nil
	return cart, nil
}

func (s *CartStore) SetTotalAfterDiscount(ctx context.Context, ownerID string, total decimal.Decimal) error {
	query := `
		UPDATE carts
		SET total_after_discount = $1, updated_at = $2
		WHERE orderby = $3`

	ct, err := s.db.Exec(ctx, query, total, time.Now().UTC(), ownerID)
	if err != nil {
		return fmt.Errorf("update cart discount: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFound("cart.set_total_after_discount", "cart", ownerID)
	}

	return nil
}

func (s *CartStore) Delete(ctx context.Context, ownerID string) (*domain.Cart, error) {
	query := `
		DELETE FROM carts
		WHERE orderby = $1
		RETURNING products, cart_total, total_after_discount, orderby, created_at, updated_at`

	var (
		cart         domain.Cart
		productsJSON []byte
	)

	err := s.db.QueryRow(ctx, query, ownerID).Scan(
		&productsJSON,
		&cart.CartTotal,
		&cart.TotalAfterDiscount,
		&cart.OrderBy,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("cart.delete", "cart", ownerID)
		}
		return nil, fmt.Errorf("delete cart: %w", err)
	}

	if err := json.Unmarshal(productsJSON, &cart.Products); err != nil {
		return nil, fmt.Errorf("unmarshal cart products: %w", err)
	}

	return &cart, nil
}
