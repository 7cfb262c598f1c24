package order

import (
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/types"
)

// Order represents a storefront order. The invoicing subsystem reads orders
// but never mutates them; status transitions go through the order service.
type Order struct {
	ID          string            `db:"id" json:"id"`
	ClientID    string            `db:"client_id" json:"client_id"`
	TotalCents  int64             `db:"total_cents" json:"total_cents"`
	Currency    string            `db:"currency" json:"currency"`
	OrderStatus types.OrderStatus `db:"order_status" json:"order_status"`
	types.BaseModel
}

func (o *Order) Validate() error {
	if o.ClientID == "" {
		return ierr.NewError("client_id is required").
			WithHint("Order must belong to a client").
			Mark(ierr.ErrValidation)
	}
	if o.TotalCents < 0 {
		return ierr.NewError("total_cents must be non-negative").
			WithHint("Order amount must be non-negative").
			Mark(ierr.ErrValidation)
	}
	return o.OrderStatus.Validate()
}
