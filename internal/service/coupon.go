package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/njord/internal/domain"
)

// CouponService provides the admin CRUD surface for coupons.
type CouponService interface {
	Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error)
	Get(ctx context.Context, id string) (*domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	Update(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error)
	Delete(ctx context.Context, id string) (*domain.Coupon, error)
}

type couponService struct {
	coupons domain.CouponStore
}

// NewCouponService creates a new CouponService instance.
func NewCouponService(coupons domain.CouponStore) CouponService {
	return &couponService{coupons: coupons}
}

func validateDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		return domain.Invalid("coupon.validate", "discount must be between 0 and 100")
	}
	return nil
}

func (s *couponService) Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	if err := validateDiscount(c.Discount); err != nil {
		return nil, err
	}
	return s.coupons.Create(ctx, c)
}

func (s *couponService) Get(ctx context.Context, id string) (*domain.Coupon, error) {
	return s.coupons.GetByID(ctx, id)
}

func (s *couponService) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.coupons.List(ctx)
}

func (s *couponService) Update(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	if err := validateDiscount(c.Discount); err != nil {
		return nil, err
	}
	return s.coupons.Update(ctx, c)
}

func (s *couponService) Delete(ctx context.Context, id string) (*domain.Coupon, error) {
	return s.coupons.Delete(ctx, id)
}
