package types

import (
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle.
// Invoices are never deleted; voiding is a status transition.
type InvoiceStatus string

const (
	// InvoiceStatusPending indicates the invoice was generated but not yet sent
	InvoiceStatusPending InvoiceStatus = "pending"
	// InvoiceStatusSent indicates the invoice was delivered to the client
	InvoiceStatusSent InvoiceStatus = "sent"
	// InvoiceStatusPaid indicates the invoice has been settled
	InvoiceStatusPaid InvoiceStatus = "paid"
	// InvoiceStatusOverdue indicates the due date passed without payment
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	// InvoiceStatusVoided indicates the invoice is no longer valid for payment
	InvoiceStatusVoided InvoiceStatus = "voided"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusPending,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusVoided,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceDefaultDueDays is the default offset between invoice creation and its
// due date, used when the billing config does not override it
const InvoiceDefaultDueDays = 30
