package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/njord/internal/domain"
)

// CouponStore implements domain.CouponStore.
type CouponStore struct {
	db DBTX
}

// NewCouponStore creates a new PostgreSQL-backed coupon store.
func NewCouponStore(db DBTX) *CouponStore {
	return &CouponStore{db: db}
}

const couponColumns = `id, name, expiry, discount, created_at, updated_at`

func (s *CouponStore) Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query := `
		INSERT INTO coupons (id, name, expiry, discount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query, c.ID, c.Name, c.Expiry, c.Discount).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("coupon.create", "a coupon with this name already exists")
		}
		return nil, fmt.Errorf("insert coupon: %w", err)
	}

	return c, nil
}

func (s *CouponStore) GetByID(ctx context.Context, id string) (*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	c, err := scanCoupon(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("coupon.get", "coupon", id)
		}
		return nil, err
	}

	return c, nil
}

func (s *CouponStore) FindByName(ctx context.Context, name string) (*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE name = $1`

	c, err := scanCoupon(s.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("coupon.find_by_name", "coupon", name)
		}
		return nil, err
	}

	return c, nil
}

func (s *CouponStore) List(ctx context.Context) ([]domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := make([]domain.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}

	return coupons, nil
}

func (s *CouponStore) Update(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	query := `
		UPDATE coupons
		SET name = $1, expiry = $2, discount = $3, updated_at = $4
		WHERE id = $5
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query, c.Name, c.Expiry, c.Discount, time.Now().UTC(), c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("coupon.update", "coupon", c.ID)
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflict("coupon.update", "a coupon with this name already exists")
		}
		return nil, fmt.Errorf("update coupon: %w", err)
	}

	return c, nil
}

func (s *CouponStore) Delete(ctx context.Context, id string) (*domain.Coupon, error) {
	query := `DELETE FROM coupons WHERE id = $1 RETURNING ` + couponColumns

	c, err := scanCoupon(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("coupon.delete", "coupon", id)
		}
		return nil, err
	}

	return c, nil
}

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon

	err := row.Scan(&c.ID, &c.Name, &c.Expiry, &c.Discount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan coupon: %w", err)
	}

	return &c, nil
}
