package order

import (
	"context"

	"github.com/brickline/storefront/internal/types"
)

// Repository defines the interface for order persistence operations
type Repository interface {
	// Create creates a new order
	Create(ctx context.Context, order *Order) error

	// Get retrieves an order by ID
	Get(ctx context.Context, id string) (*Order, error)

	// UpdateStatus persists an order status transition
	UpdateStatus(ctx context.Context, order *Order) error

	// List retrieves orders based on filter criteria
	List(ctx context.Context, filter *types.OrderFilter) ([]*Order, error)

	// Count returns the total count of orders based on filter criteria
	Count(ctx context.Context, filter *types.OrderFilter) (int, error)
}
