package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// Constraint names enforced by the migrations. The uniqueness constraints are
// the primary mechanism for resolving generation races, so the repositories
// match on them by name.
const (
	ConstraintInvoiceOrderUnique        = "idx_invoices_order_id_unique"
	ConstraintInvoiceSeriesNumberUnique = "idx_invoices_series_number_unique"
	ConstraintCounterSeriesUnique       = "idx_invoice_counters_series_unique"
)

const (
	pqCodeUniqueViolation      = "23505"
	pqCodeSerializationFailure = "40001"
	pqCodeDeadlockDetected     = "40P01"
)

// uniqueViolation reports whether err is a unique constraint violation and
// returns the violated constraint name
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqCodeUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// retryableConflict reports whether err is a transient conflict the caller
// may retry (serialization failure or deadlock victim)
func retryableConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	code := string(pqErr.Code)
	return code == pqCodeSerializationFailure || code == pqCodeDeadlockDetected
}
