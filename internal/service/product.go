package service

import (
	"context"
	"math"

	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/slug"
)

// ProductService provides catalog business logic: CRUD, wishlist toggling,
// and rating aggregation.
type ProductService interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)

	// ToggleWishList adds the product to the user's wishlist, or removes it
	// if already present.
	ToggleWishList(ctx context.Context, userID, productID string) (*domain.User, error)

	// Rate upserts the user's rating on a product and persists the
	// integer-rounded average across all ratings.
	Rate(ctx context.Context, userID, productID string, star int, comment string) (*domain.Product, error)

	// AttachImages appends uploaded image URLs to the product.
	AttachImages(ctx context.Context, productID string, urls []string) (*domain.Product, error)
}

type productService struct {
	products domain.ProductStore
	users    domain.UserStore
}

// NewProductService creates a new ProductService instance.
func NewProductService(products domain.ProductStore, users domain.UserStore) ProductService {
	return &productService{products: products, users: users}
}

func (s *productService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p.Title != "" {
		p.Slug = slug.Generate(p.Title)
	}
	return s.products.Create(ctx, p)
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *productService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

func (s *productService) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p.Title != "" {
		p.Slug = slug.Generate(p.Title)
	}
	return s.products.Update(ctx, p)
}

func (s *productService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.Delete(ctx, id)
}

func (s *productService) ToggleWishList(ctx context.Context, userID, productID string) (*domain.User, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.users.ToggleWishList(ctx, userID, productID)
}

func (s *productService) Rate(ctx context.Context, userID, productID string, star int, comment string) (*domain.Product, error) {
	const op = "product.rate"

	if star < 1 || star > 5 {
		return nil, domain.Invalid(op, "star rating must be between 1 and 5")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	ratings := product.Ratings
	updated := false
	for i := range ratings {
		if ratings[i].PostedBy == userID {
			ratings[i].Star = star
			ratings[i].Comment = comment
			updated = true
			break
		}
	}
	if !updated {
		ratings = append(ratings, domain.Rating{Star: star, Comment: comment, PostedBy: userID})
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Star
	}
	average := int(math.Round(float64(sum) / float64(len(ratings))))

	return s.products.SetRatings(ctx, productID, ratings, average)
}

func (s *productService) AttachImages(ctx context.Context, productID string, urls []string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	product.Images = append(product.Images, urls...)
	return s.products.Update(ctx, product)
}
