package invoice

import (
	"testing"

	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestInvoiceNumber(t *testing.T) {
	tests := []struct {
		name     string
		invoice  Invoice
		expected string
	}{
		{
			name:     "prefix and suffix",
			invoice:  Invoice{Prefix: "W-", InvoiceNumber: 67, Suffix: "-25"},
			expected: "W-67-25",
		},
		{
			name:     "prefix only",
			invoice:  Invoice{Prefix: "INV", InvoiceNumber: 1},
			expected: "INV1",
		},
		{
			name:     "suffix only",
			invoice:  Invoice{InvoiceNumber: 204, Suffix: "/2026"},
			expected: "204/2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.invoice.Number())
		})
	}
}

func TestInvoiceValidate(t *testing.T) {
	valid := Invoice{
		ClientID:      "client_1",
		OrderID:       "order_1",
		InvoiceNumber: 1,
		TotalCents:    100,
		InvoiceStatus: types.InvoiceStatusPending,
	}
	assert.NoError(t, valid.Validate())

	noOrder := valid
	noOrder.OrderID = ""
	assert.True(t, ierr.IsValidation(noOrder.Validate()))

	badNumber := valid
	badNumber.InvoiceNumber = 0
	assert.True(t, ierr.IsValidation(badNumber.Validate()))

	badStatus := valid
	badStatus.InvoiceStatus = types.InvoiceStatus("bogus")
	assert.Error(t, badStatus.Validate())
}

func TestCounterValidate(t *testing.T) {
	assert.NoError(t, (&Counter{Prefix: "W-", Suffix: "-25", NextNumber: 1}).Validate())
	assert.True(t, ierr.IsValidation((&Counter{NextNumber: 1}).Validate()))
	assert.True(t, ierr.IsValidation((&Counter{Prefix: "W-", NextNumber: 0}).Validate()))
}
