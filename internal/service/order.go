package service

import (
	"context"

	"github.com/dukerupert/njord/internal/domain"
)

// OrderService provides order retrieval and the admin status transition.
// Order creation happens exclusively through PricingService.FinalizeOrder.
type OrderService interface {
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error)

	// UpdateStatus moves an order to any valid status. No transition graph
	// is enforced; paymentIntent.status is overwritten in the same write.
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	orders domain.OrderStore
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(orders domain.OrderStore) OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

func (s *orderService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return s.orders.ListByOwner(ctx, ownerID)
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("order.update_status", "unknown order status")
	}
	return s.orders.UpdateStatus(ctx, orderID, status)
}
