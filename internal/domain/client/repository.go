package client

import (
	"context"

	"github.com/brickline/storefront/internal/types"
)

// Repository defines the interface for client persistence operations
type Repository interface {
	// Create creates a new client
	Create(ctx context.Context, client *Client) error

	// Get retrieves a client by ID
	Get(ctx context.Context, id string) (*Client, error)

	// List retrieves clients based on filter criteria
	List(ctx context.Context, filter *types.ClientFilter) ([]*Client, error)

	// Count returns the total count of clients based on filter criteria
	Count(ctx context.Context, filter *types.ClientFilter) (int, error)
}
