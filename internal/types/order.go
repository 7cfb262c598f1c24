package types

import (
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/samber/lo"
)

// OrderStatus represents the fulfillment state of a storefront order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	// OrderStatusDelivered is the fulfilled state; reaching it triggers
	// invoice generation
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Validate() error {
	allowed := []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid order status").
			WithHint("Please provide a valid order status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
