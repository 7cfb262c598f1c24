package dto

import (
	"context"
	"time"

	"github.com/brickline/storefront/internal/domain/order"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/types"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest creates a new storefront order
type CreateOrderRequest struct {
	ClientID   string `json:"client_id" binding:"required"`
	TotalCents int64  `json:"total_cents" binding:"required"`
	Currency   string `json:"currency"`
}

func (r CreateOrderRequest) Validate() error {
	if r.ClientID == "" {
		return ierr.NewError("client_id is required").
			WithHint("Order must belong to a client").
			Mark(ierr.ErrValidation)
	}
	if r.TotalCents < 0 {
		return ierr.NewError("total_cents must be non-negative").
			WithHint("Order amount must be non-negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToOrder converts the request to a domain order
func (r CreateOrderRequest) ToOrder(ctx context.Context, currency string) *order.Order {
	if r.Currency != "" {
		currency = r.Currency
	}
	return &order.Order{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
		ClientID:    r.ClientID,
		TotalCents:  r.TotalCents,
		Currency:    currency,
		OrderStatus: types.OrderStatusPending,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// UpdateOrderStatusRequest transitions an order to a new fulfillment status
type UpdateOrderStatusRequest struct {
	OrderStatus types.OrderStatus `json:"order_status" binding:"required"`
}

func (r UpdateOrderStatusRequest) Validate() error {
	return r.OrderStatus.Validate()
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          string            `json:"id"`
	ClientID    string            `json:"client_id"`
	TotalCents  int64             `json:"total_cents"`
	Total       decimal.Decimal   `json:"total"`
	Currency    string            `json:"currency"`
	OrderStatus types.OrderStatus `json:"order_status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Invoice is set when the order has been invoiced and the caller asked
	// for the transition that generated it
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

// NewOrderResponse converts a domain order to an API response
func NewOrderResponse(o *order.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		ID:          o.ID,
		ClientID:    o.ClientID,
		TotalCents:  o.TotalCents,
		Total:       decimal.NewFromInt(o.TotalCents).Div(decimal.NewFromInt(100)),
		Currency:    o.Currency,
		OrderStatus: o.OrderStatus,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ListOrdersResponse represents a paginated list of orders
type ListOrdersResponse struct {
	Items      []*OrderResponse         `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
