package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates order fulfillment states. "Not Processed" is the
// default for orders that did not come through cart finalization; "Cash on
// Delivery" is the initial state produced by finalizing a cart.
type OrderStatus string

const (
	OrderStatusNotProcessed   OrderStatus = "Not Processed"
	OrderStatusCashOnDelivery OrderStatus = "Cash on Delivery"
	OrderStatusProcessing     OrderStatus = "Processing"
	OrderStatusDispatched     OrderStatus = "Dispatched"
	OrderStatusCancelled      OrderStatus = "Cancelled"
	OrderStatusDelivered      OrderStatus = "Delivered"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNotProcessed, OrderStatusCashOnDelivery, OrderStatusProcessing,
		OrderStatusDispatched, OrderStatusCancelled, OrderStatusDelivered:
		return true
	}
	return false
}

// PaymentMethodCOD is the only supported payment method: pay on fulfillment.
const PaymentMethodCOD = "COD"

// PaymentRecord captures the payment intent snapshotted at order creation.
type PaymentRecord struct {
	ID       string          `json:"id"`
	Method   string          `json:"method"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
	Created  time.Time       `json:"created"`
	Currency string          `json:"currency"`
}

// Order is an immutable record created by finalizing a cart. Only the
// status fields change after creation.
type Order struct {
	ID            string        `json:"_id"`
	Products      []LineItem    `json:"products"`
	PaymentIntent PaymentRecord `json:"paymentIntent"`
	OrderStatus   OrderStatus   `json:"orderStatus"`
	OrderBy       string        `json:"orderby"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// TransitionStatus moves the order to the given status. Any target status is
// accepted from any source status; the system deliberately imposes no
// transition graph. The payment record's status string is overwritten in the
// same write — an inherited quirk kept for compatibility with persisted data.
func (o *Order) TransitionStatus(status OrderStatus) {
	o.OrderStatus = status
	o.PaymentIntent.Status = string(status)
}

// OrderStore is the append-only persistence contract for orders.
type OrderStore interface {
	Create(ctx context.Context, order *Order) (*Order, error)

	// GetByID returns a single order, or ENOTFOUND.
	GetByID(ctx context.Context, orderID string) (*Order, error)

	// ListByOwner returns all orders placed by a user, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]Order, error)

	// UpdateStatus overwrites orderStatus and paymentIntent.status together.
	// Returns the updated order, or ENOTFOUND.
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error)
}
