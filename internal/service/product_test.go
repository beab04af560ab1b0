package service

import (
	"context"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/njord/internal/domain"
)

type fakeProductStore struct {
	products map[string]*domain.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[string]*domain.Product)}
}

func (f *fakeProductStore) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.NotFound("product.get", "product", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductStore) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProductStore) Delete(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.NotFound("product.delete", "product", id)
	}
	delete(f.products, id)
	return p, nil
}

func (f *fakeProductStore) FindPrice(ctx context.Context, id string) (decimal.Decimal, error) {
	p, ok := f.products[id]
	if !ok {
		return decimal.Zero, domain.NotFound("product.find_price", "product", id)
	}
	return p.Price, nil
}

func (f *fakeProductStore) BatchAdjustInventory(ctx context.Context, adjustments []domain.InventoryAdjustment) error {
	for _, adj := range adjustments {
		p, ok := f.products[adj.ProductID]
		if !ok {
			return domain.NotFound("product.adjust", "product", adj.ProductID)
		}
		p.Quantity += adj.QuantityDelta
		p.Sold += adj.SoldDelta
	}
	return nil
}

func (f *fakeProductStore) SetRatings(ctx context.Context, productID string, ratings []domain.Rating, totalRating int) (*domain.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, domain.NotFound("product.set_ratings", "product", productID)
	}
	p.Ratings = ratings
	p.TotalRating = totalRating
	return p, nil
}

type fakeUserStore struct {
	users map[string]*domain.User
}

func (f *fakeUserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.NotFound("user.get", "user", id)
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.NotFound("user.get_by_email", "user", email)
}

func (f *fakeUserStore) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	for _, u := range f.users {
		if u.RefreshToken == token && token != "" {
			return u, nil
		}
	}
	return nil, domain.NotFound("user.get_by_refresh_token", "user", "token")
}

func (f *fakeUserStore) GetByResetToken(ctx context.Context, hashedToken string) (*domain.User, error) {
	for _, u := range f.users {
		if u.PasswordResetToken == hashedToken && hashedToken != "" {
			return u, nil
		}
	}
	return nil, domain.NotFound("user.get_by_reset_token", "user", "token")
}

func (f *fakeUserStore) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.NotFound("user.delete", "user", id)
	}
	delete(f.users, id)
	return u, nil
}

func (f *fakeUserStore) SetBlocked(ctx context.Context, id string, blocked bool) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.NotFound("user.set_blocked", "user", id)
	}
	u.IsBlocked = blocked
	return u, nil
}

func (f *fakeUserStore) SetRefreshToken(ctx context.Context, id, token string) error {
	u, ok := f.users[id]
	if !ok {
		return domain.NotFound("user.set_refresh_token", "user", id)
	}
	u.RefreshToken = token
	return nil
}

func (f *fakeUserStore) ToggleWishList(ctx context.Context, userID, productID string) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.NotFound("user.toggle_wishlist", "user", userID)
	}
	if slices.Contains(u.WishList, productID) {
		out := make([]string, 0, len(u.WishList))
		for _, id := range u.WishList {
			if id != productID {
				out = append(out, id)
			}
		}
		u.WishList = out
	} else {
		u.WishList = append(u.WishList, productID)
	}
	return u, nil
}

func TestCreateProductSlugifiesTitle(t *testing.T) {
	products := newFakeProductStore()
	svc := NewProductService(products, &fakeUserStore{users: map[string]*domain.User{}})

	p, err := svc.Create(context.Background(), &domain.Product{ID: "p1", Title: "Apple Watch Series 9"})
	require.NoError(t, err)
	assert.Equal(t, "apple-watch-series-9", p.Slug)
}

func TestRateComputesRoundedAverage(t *testing.T) {
	products := newFakeProductStore()
	products.products["p1"] = &domain.Product{ID: "p1", Title: "Widget"}
	svc := NewProductService(products, &fakeUserStore{users: map[string]*domain.User{}})
	ctx := context.Background()

	_, err := svc.Rate(ctx, "u1", "p1", 4, "nice")
	require.NoError(t, err)
	_, err = svc.Rate(ctx, "u2", "p1", 5, "")
	require.NoError(t, err)

	// (4+5)/2 = 4.5 rounds to 5.
	p, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.TotalRating)
	assert.Len(t, p.Ratings, 2)
}

func TestRateUpsertsExistingRating(t *testing.T) {
	products := newFakeProductStore()
	products.products["p1"] = &domain.Product{ID: "p1"}
	svc := NewProductService(products, &fakeUserStore{users: map[string]*domain.User{}})
	ctx := context.Background()

	_, err := svc.Rate(ctx, "u1", "p1", 2, "meh")
	require.NoError(t, err)
	p, err := svc.Rate(ctx, "u1", "p1", 5, "changed my mind")
	require.NoError(t, err)

	require.Len(t, p.Ratings, 1)
	assert.Equal(t, 5, p.Ratings[0].Star)
	assert.Equal(t, 5, p.TotalRating)
}

func TestRateRejectsOutOfRangeStar(t *testing.T) {
	products := newFakeProductStore()
	products.products["p1"] = &domain.Product{ID: "p1"}
	svc := NewProductService(products, &fakeUserStore{users: map[string]*domain.User{}})

	_, err := svc.Rate(context.Background(), "u1", "p1", 6, "")
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestToggleWishList(t *testing.T) {
	products := newFakeProductStore()
	products.products["p1"] = &domain.Product{ID: "p1"}
	users := &fakeUserStore{users: map[string]*domain.User{"u1": {ID: "u1"}}}
	svc := NewProductService(products, users)
	ctx := context.Background()

	u, err := svc.ToggleWishList(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Contains(t, u.WishList, "p1")

	u, err = svc.ToggleWishList(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.NotContains(t, u.WishList, "p1")
}
