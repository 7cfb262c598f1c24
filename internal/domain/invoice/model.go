package invoice

import (
	"fmt"
	"time"

	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/types"
)

// Invoice represents the invoice domain model. An invoice is created exactly
// once per delivered order and is immutable afterwards except for its status.
type Invoice struct {
	ID             string              `db:"id" json:"id"`
	ClientID       string              `db:"client_id" json:"client_id"`
	OrderID        string              `db:"order_id" json:"order_id"`
	InvoiceNumber  int64               `db:"invoice_number" json:"invoice_number"`
	Prefix         string              `db:"prefix" json:"prefix"`
	Suffix         string              `db:"suffix" json:"suffix"`
	TotalCents     int64               `db:"total_cents" json:"total_cents"`
	Currency       string              `db:"currency" json:"currency"`
	InvoiceStatus  types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	IdempotencyKey *string             `db:"idempotency_key" json:"idempotency_key,omitempty"`
	DueDate        time.Time           `db:"due_date" json:"due_date"`
	types.BaseModel
}

// Number returns the human readable invoice number, ex W-67-25. The prefix and
// suffix are copied from the counter at allocation time so the rendered number
// stays stable even if the active series changes later.
func (i *Invoice) Number() string {
	return fmt.Sprintf("%s%d%s", i.Prefix, i.InvoiceNumber, i.Suffix)
}

func (i *Invoice) Validate() error {
	if i.ClientID == "" {
		return ierr.NewError("client_id is required").
			WithHint("Invoice must belong to a client").
			Mark(ierr.ErrValidation)
	}
	if i.OrderID == "" {
		return ierr.NewError("order_id is required").
			WithHint("Invoice must reference an order").
			Mark(ierr.ErrValidation)
	}
	if i.InvoiceNumber < 1 {
		return ierr.NewError("invoice_number must be positive").
			WithHint("Invoice number must be allocated from a counter").
			Mark(ierr.ErrValidation)
	}
	if i.TotalCents < 0 {
		return ierr.NewError("total_cents must be non-negative").
			WithHint("Invoice amount must be non-negative").
			Mark(ierr.ErrValidation)
	}
	return i.InvoiceStatus.Validate()
}
