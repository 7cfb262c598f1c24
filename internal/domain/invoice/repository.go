package invoice

import (
	"context"

	"github.com/brickline/storefront/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// Create creates a new invoice. The store enforces uniqueness of
	// order_id and of (prefix, invoice_number, suffix); violations are
	// returned marked as already-exists errors.
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice by ID
	Get(ctx context.Context, id string) (*Invoice, error)

	// GetByOrderID retrieves the invoice for an order, if any
	GetByOrderID(ctx context.Context, orderID string) (*Invoice, error)

	// Update persists status changes of an existing invoice
	Update(ctx context.Context, invoice *Invoice) error

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices based on filter criteria
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// MaxInvoiceNumber returns the highest invoice number persisted for a
	// series, or 0 when the series has no invoices. Used when seeding a
	// counter onto pre-existing invoices.
	MaxInvoiceNumber(ctx context.Context, prefix, suffix string) (int64, error)
}

// CounterRepository owns the counter rows. Allocate is the only operation
// that advances next_number; nothing else may write it once a series is live.
type CounterRepository interface {
	// Allocate atomically reads next_number for the series and writes
	// next_number + 1 back in the same unit of work. No two concurrent
	// calls can both observe the same value.
	Allocate(ctx context.Context, prefix, suffix string) (*Allocation, error)

	// Seed creates the counter row for a new series. Fails with an
	// already-exists error when the series is live.
	Seed(ctx context.Context, counter *Counter) error

	// GetBySeries retrieves a counter by its (prefix, suffix) pair
	GetBySeries(ctx context.Context, prefix, suffix string) (*Counter, error)

	// List retrieves all counters
	List(ctx context.Context) ([]*Counter, error)
}
