package domain

import (
	"context"
	"time"
)

// Blog is a content post with view counting and like/dislike toggles.
type Blog struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	NumViews    int       `json:"numViews"`
	IsLiked     bool      `json:"isLiked"`
	IsDisliked  bool      `json:"isDisliked"`
	Likes       []string  `json:"likes"`
	Dislikes    []string  `json:"dislikes"`
	Images      []string  `json:"images"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BlogStore is the blog persistence contract.
type BlogStore interface {
	Create(ctx context.Context, b *Blog) (*Blog, error)
	GetByID(ctx context.Context, id string) (*Blog, error)
	List(ctx context.Context) ([]Blog, error)
	Update(ctx context.Context, b *Blog) (*Blog, error)
	Delete(ctx context.Context, id string) (*Blog, error)

	// IncrementViews bumps the view counter without touching updatedAt.
	IncrementViews(ctx context.Context, id string) error

	// SetReactions replaces the like/dislike state wholesale.
	SetReactions(ctx context.Context, id string, likes, dislikes []string, isLiked, isDisliked bool) (*Blog, error)

	// SetImages replaces the attached image URLs.
	SetImages(ctx context.Context, id string, images []string) (*Blog, error)
}
