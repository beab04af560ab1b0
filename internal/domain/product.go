package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Rating is a single user review attached to a product.
type Rating struct {
	Star     int    `json:"star"`
	Comment  string `json:"comment,omitempty"`
	PostedBy string `json:"postedby"`
}

// Product is a catalog item. Quantity is the available stock; Sold is a
// cumulative counter incremented at order finalization.
type Product struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Quantity    int             `json:"quantity"`
	Sold        int             `json:"sold"`
	Images      []string        `json:"images"`
	Color       string          `json:"color"`
	Tags        string          `json:"tags,omitempty"`
	Ratings     []Rating        `json:"ratings"`
	TotalRating int             `json:"totalrating"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// InventoryAdjustment is one instruction in a batch stock update: decrement
// available quantity and increment the sold counter.
type InventoryAdjustment struct {
	ProductID     string
	QuantityDelta int
	SoldDelta     int
}

// ProductFilter narrows and orders a product listing.
type ProductFilter struct {
	Category string
	Brand    string
	Color    string
	PriceGTE *decimal.Decimal
	PriceLTE *decimal.Decimal
	SortBy   string // e.g. "price", "-createdAt"
	Fields   []string
	Page     int
	Limit    int
}

// ProductStore is the catalog persistence contract.
type ProductStore interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id string) (*Product, error)

	// FindPrice returns the current unit price for a product, or ENOTFOUND.
	FindPrice(ctx context.Context, id string) (decimal.Decimal, error)

	// BatchAdjustInventory applies all adjustments as one batch. If the
	// store reports a partial application the error carries EPARTIAL.
	BatchAdjustInventory(ctx context.Context, adjustments []InventoryAdjustment) error

	// SetRatings replaces a product's ratings and its rounded average.
	SetRatings(ctx context.Context, productID string, ratings []Rating, totalRating int) (*Product, error)
}
