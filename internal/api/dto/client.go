package dto

import (
	"context"
	"time"

	"github.com/brickline/storefront/internal/domain/client"
	"github.com/brickline/storefront/internal/types"
	"github.com/brickline/storefront/internal/validator"
)

// CreateClientRequest registers a new client
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required" validate:"required"`
	Email   string `json:"email" binding:"required,email" validate:"required,email"`
	Address string `json:"address"`
}

func (r CreateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToClient converts the request to a domain client
func (r CreateClientRequest) ToClient(ctx context.Context) *client.Client {
	return &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      r.Name,
		Email:     r.Email,
		Address:   r.Address,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClientResponse converts a domain client to an API response
func NewClientResponse(c *client.Client) *ClientResponse {
	if c == nil {
		return nil
	}
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ListClientsResponse represents a paginated list of clients
type ListClientsResponse struct {
	Items      []*ClientResponse        `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
