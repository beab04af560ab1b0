package domain

import (
	"context"
	"time"
)

// Term is a named catalog taxonomy entry: a product category, brand, color,
// or blog category. All four share the same shape and CRUD surface.
type Term struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TermKind selects which taxonomy a TermStore operates on.
type TermKind string

const (
	TermCategory     TermKind = "category"
	TermBrand        TermKind = "brand"
	TermColor        TermKind = "color"
	TermBlogCategory TermKind = "blog_category"
)

// TermStore is the persistence contract for one taxonomy.
type TermStore interface {
	Kind() TermKind
	Create(ctx context.Context, t *Term) (*Term, error)
	GetByID(ctx context.Context, id string) (*Term, error)
	List(ctx context.Context) ([]Term, error)
	Update(ctx context.Context, t *Term) (*Term, error)
	Delete(ctx context.Context, id string) (*Term, error)
}
