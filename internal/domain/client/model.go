package client

import (
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/types"
)

// Client represents a storefront client that orders and invoices belong to
type Client struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"`
	Address string `db:"address" json:"address,omitempty"`
	types.BaseModel
}

func (c *Client) Validate() error {
	if c.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Client name is required").
			Mark(ierr.ErrValidation)
	}
	if c.Email == "" {
		return ierr.NewError("email is required").
			WithHint("Client email is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
