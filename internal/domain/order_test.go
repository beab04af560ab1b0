package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionStatusAcceptsAnyTarget(t *testing.T) {
	statuses := []OrderStatus{
		OrderStatusNotProcessed,
		OrderStatusCashOnDelivery,
		OrderStatusProcessing,
		OrderStatusDispatched,
		OrderStatusCancelled,
		OrderStatusDelivered,
	}

	// No transition graph: every status is reachable from every other.
	for _, from := range statuses {
		for _, to := range statuses {
			o := &Order{OrderStatus: from}
			o.TransitionStatus(to)
			assert.Equal(t, to, o.OrderStatus)
		}
	}
}

func TestTransitionStatusOverwritesPaymentStatus(t *testing.T) {
	o := &Order{
		OrderStatus:   OrderStatusCashOnDelivery,
		PaymentIntent: PaymentRecord{Status: string(OrderStatusCashOnDelivery)},
	}

	o.TransitionStatus(OrderStatusDispatched)

	assert.Equal(t, OrderStatusDispatched, o.OrderStatus)
	assert.Equal(t, "Dispatched", o.PaymentIntent.Status)
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatus("Processing").Valid())
	assert.False(t, OrderStatus("Shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}
