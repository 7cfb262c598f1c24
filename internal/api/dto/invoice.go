package dto

import (
	"time"

	"github.com/brickline/storefront/internal/domain/invoice"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            string              `json:"id"`
	ClientID      string              `json:"client_id"`
	OrderID       string              `json:"order_id"`
	InvoiceNumber int64               `json:"invoice_number"`
	Prefix        string              `json:"prefix"`
	Suffix        string              `json:"suffix"`
	Number        string              `json:"number"`
	TotalCents    int64               `json:"total_cents"`
	Total         decimal.Decimal     `json:"total"`
	Currency      string              `json:"currency"`
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
	DueDate       time.Time           `json:"due_date"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// NewInvoiceResponse converts a domain invoice to an API response
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}
	return &InvoiceResponse{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		OrderID:       inv.OrderID,
		InvoiceNumber: inv.InvoiceNumber,
		Prefix:        inv.Prefix,
		Suffix:        inv.Suffix,
		Number:        inv.Number(),
		TotalCents:    inv.TotalCents,
		Total:         decimal.NewFromInt(inv.TotalCents).Div(decimal.NewFromInt(100)),
		Currency:      inv.Currency,
		InvoiceStatus: inv.InvoiceStatus,
		DueDate:       inv.DueDate,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// ListInvoicesResponse represents a paginated list of invoices
type ListInvoicesResponse struct {
	Items      []*InvoiceResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}

// UpdateInvoiceStatusRequest moves an invoice to a new lifecycle status
type UpdateInvoiceStatusRequest struct {
	InvoiceStatus types.InvoiceStatus `json:"invoice_status" binding:"required"`
}

func (r UpdateInvoiceStatusRequest) Validate() error {
	return r.InvoiceStatus.Validate()
}

// SeedCounterRequest seeds the counter for a new numbering series. When
// NextNumber is omitted the counter is seeded from the highest invoice number
// already persisted for the series, plus one.
type SeedCounterRequest struct {
	Prefix     string `json:"prefix"`
	Suffix     string `json:"suffix"`
	NextNumber *int64 `json:"next_number,omitempty"`
}

func (r SeedCounterRequest) Validate() error {
	if r.Prefix == "" && r.Suffix == "" {
		return ierr.NewError("series is required").
			WithHint("Provide a prefix or a suffix for the series").
			Mark(ierr.ErrValidation)
	}
	if r.NextNumber != nil && *r.NextNumber < 1 {
		return ierr.NewError("next_number must be positive").
			WithHint("Counter must be seeded with a positive next number").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CounterResponse represents a counter in API responses
type CounterResponse struct {
	ID         string    `json:"id"`
	Prefix     string    `json:"prefix"`
	Suffix     string    `json:"suffix"`
	NextNumber int64     `json:"next_number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCounterResponse converts a domain counter to an API response
func NewCounterResponse(c *invoice.Counter) *CounterResponse {
	if c == nil {
		return nil
	}
	return &CounterResponse{
		ID:         c.ID,
		Prefix:     c.Prefix,
		Suffix:     c.Suffix,
		NextNumber: c.NextNumber,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ListCountersResponse lists all configured counters
type ListCountersResponse struct {
	Items []*CounterResponse `json:"items"`
}
