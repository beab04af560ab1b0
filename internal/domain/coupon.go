package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Coupon is a named percentage discount. Read-only from the pricing
// engine's perspective; managed through the admin CRUD surface.
type Coupon struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Expiry    time.Time       `json:"expiry"`
	Discount  decimal.Decimal `json:"discount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CouponStore is the coupon persistence contract.
type CouponStore interface {
	Create(ctx context.Context, c *Coupon) (*Coupon, error)
	GetByID(ctx context.Context, id string) (*Coupon, error)
	FindByName(ctx context.Context, name string) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	Update(ctx context.Context, c *Coupon) (*Coupon, error)
	Delete(ctx context.Context, id string) (*Coupon, error)
}
