package types

import (
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/samber/lo"
)

const (
	FilterDefaultLimit  = 50
	FilterMaxLimit      = 1000
	FilterDefaultOffset = 0
)

// QueryFilter holds the common pagination parameters for list queries
type QueryFilter struct {
	Limit  *int `form:"limit" json:"limit,omitempty"`
	Offset *int `form:"offset" json:"offset,omitempty"`
}

// GetLimit returns the limit value or the default if not set
func (f QueryFilter) GetLimit() int {
	if f.Limit == nil {
		return FilterDefaultLimit
	}
	return *f.Limit
}

// GetOffset returns the offset value or the default if not set
func (f QueryFilter) GetOffset() int {
	if f.Offset == nil {
		return FilterDefaultOffset
	}
	return *f.Offset
}

func (f QueryFilter) Validate() error {
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FilterMaxLimit) {
		return ierr.NewError("limit out of range").
			WithHint("Limit must be between 1 and 1000").
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("offset out of range").
			WithHint("Offset must be non-negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceFilter represents the filter criteria for listing invoices
type InvoiceFilter struct {
	QueryFilter
	ClientID      string         `form:"client_id" json:"client_id,omitempty"`
	InvoiceStatus *InvoiceStatus `form:"invoice_status" json:"invoice_status,omitempty"`
}

func (f InvoiceFilter) Validate() error {
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.InvoiceStatus != nil {
		return f.InvoiceStatus.Validate()
	}
	return nil
}

// OrderFilter represents the filter criteria for listing orders
type OrderFilter struct {
	QueryFilter
	ClientID    string       `form:"client_id" json:"client_id,omitempty"`
	OrderStatus *OrderStatus `form:"order_status" json:"order_status,omitempty"`
}

func (f OrderFilter) Validate() error {
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.OrderStatus != nil {
		return f.OrderStatus.Validate()
	}
	return nil
}

// ClientFilter represents the filter criteria for listing clients
type ClientFilter struct {
	QueryFilter
	Email string `form:"email" json:"email,omitempty"`
}

// Paginate applies limit/offset to an already filtered slice, for stores that
// filter in memory
func Paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := lo.Min([]int{offset + limit, len(items)})
	return items[offset:end]
}

// PaginationResponse represents standardized pagination metadata
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
