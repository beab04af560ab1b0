package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RequestedItem is a line item as submitted by the client: a product
// reference, a quantity, and an optional color variant. It carries no price.
type RequestedItem struct {
	ProductID string `json:"_id" validate:"required"`
	Count     int    `json:"count" validate:"required,gte=1"`
	Color     string `json:"color"`
}

// LineItem is a priced line item inside a cart or order snapshot. The unit
// price is resolved from the catalog when the cart is built and never
// refreshed afterwards; the type split from RequestedItem makes the
// snapshot-vs-live distinction explicit.
type LineItem struct {
	ProductID string          `json:"product"`
	Count     int             `json:"count"`
	Color     string          `json:"color,omitempty"`
	Price     decimal.Decimal `json:"price"`
}

// Total returns price multiplied by count for this line.
func (li LineItem) Total() decimal.Decimal {
	return LineTotal(li.Price, li.Count)
}

// Cart is a per-user snapshot of requested purchases with derived totals.
// At most one cart exists per owner; building a new cart replaces the old
// one wholesale.
type Cart struct {
	Products           []LineItem       `json:"products"`
	CartTotal          decimal.Decimal  `json:"cartTotal"`
	TotalAfterDiscount *decimal.Decimal `json:"totalAfterDiscount,omitempty"`
	OrderBy            string           `json:"orderby"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// CartStore is the persistence contract for carts, keyed by owner id.
// Implementations must guarantee at most one cart per owner.
type CartStore interface {
	// Get returns the owner's cart, or an ENOTFOUND error if absent.
	Get(ctx context.Context, ownerID string) (*Cart, error)

	// Replace atomically removes any existing cart for the owner and
	// persists the given cart in its place.
	Replace(ctx context.Context, cart *Cart) (*Cart, error)

	// SetTotalAfterDiscount persists the discounted total on the owner's
	// stored cart. Returns ENOTFOUND if the owner has no cart.
	SetTotalAfterDiscount(ctx context.Context, ownerID string, total decimal.Decimal) error

	// Delete removes and returns the owner's cart.
	// Returns ENOTFOUND if the owner has no cart.
	Delete(ctx context.Context, ownerID string) (*Cart, error)
}
