package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domainInvoice "github.com/brickline/storefront/internal/domain/invoice"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/logger"
	"github.com/brickline/storefront/internal/postgres"
	"github.com/brickline/storefront/internal/types"
)

type invoiceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) domainInvoice.Repository {
	return &invoiceRepository{
		client: client,
		logger: logger,
	}
}

const invoiceColumns = `id, client_id, order_id, invoice_number, prefix, suffix,
	total_cents, currency, invoice_status, idempotency_key, due_date,
	status, created_at, updated_at, created_by, updated_by`

// Create inserts the invoice. The order_id uniqueness constraint is the
// primary guard against two generation invocations racing for the same order;
// a violation is returned marked already-exists so the workflow can converge
// on the winner's invoice.
func (r *invoiceRepository) Create(ctx context.Context, inv *domainInvoice.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (:id, :client_id, :order_id, :invoice_number, :prefix, :suffix,
			:total_cents, :currency, :invoice_status, :idempotency_key, :due_date,
			:status, :created_at, :updated_at, :created_by, :updated_by)`

	_, err := sqlxNamedExec(ctx, r.client.Querier(ctx), query, inv)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case ConstraintInvoiceOrderUnique:
				return ierr.WithError(err).
					WithHint("An invoice for this order already exists").
					WithReportableDetails(map[string]any{
						"invoice_id": inv.ID,
						"order_id":   inv.OrderID,
					}).
					Mark(ierr.ErrAlreadyExists)
			case ConstraintInvoiceSeriesNumberUnique:
				return ierr.WithError(err).
					WithHint("Invoice with same invoice number already exists").
					WithReportableDetails(map[string]any{
						"invoice_id":     inv.ID,
						"invoice_number": inv.Number(),
					}).
					Mark(ierr.ErrAlreadyExists)
			}
			return ierr.WithError(err).
				WithHint("invoice creation failed").
				WithReportableDetails(map[string]any{
					"invoice_id": inv.ID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		r.logger.Errorw("failed to create invoice", "error", err)
		return ierr.WithError(err).WithHint("invoice creation failed").Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*domainInvoice.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND status != $2`

	var inv domainInvoice.Invoice
	err := r.client.Querier(ctx).GetContext(ctx, &inv, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Invoice not found").
				WithReportableDetails(map[string]any{
					"invoice_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithHint("invoice lookup failed").Mark(ierr.ErrDatabase)
	}

	return &inv, nil
}

func (r *invoiceRepository) GetByOrderID(ctx context.Context, orderID string) (*domainInvoice.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id = $1 AND status != $2`

	var inv domainInvoice.Invoice
	err := r.client.Querier(ctx).GetContext(ctx, &inv, query, orderID, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("No invoice exists for this order").
				WithReportableDetails(map[string]any{
					"order_id": orderID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithHint("invoice lookup failed").Mark(ierr.ErrDatabase)
	}

	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *domainInvoice.Invoice) error {
	query := `
		UPDATE invoices
		SET invoice_status = :invoice_status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	res, err := sqlxNamedExec(ctx, r.client.Querier(ctx), query, inv)
	if err != nil {
		return ierr.WithError(err).WithHint("invoice update failed").Mark(ierr.ErrDatabase)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("invoice not found").
			WithHint("Invoice not found").
			WithReportableDetails(map[string]any{
				"invoice_id": inv.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*domainInvoice.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	if filter != nil {
		if filter.ClientID != "" {
			args = append(args, filter.ClientID)
			query += fmt.Sprintf(" AND client_id = $%d", len(args))
		}
		if filter.InvoiceStatus != nil {
			args = append(args, *filter.InvoiceStatus)
			query += fmt.Sprintf(" AND invoice_status = $%d", len(args))
		}
	}

	query += " ORDER BY created_at DESC"
	if filter != nil {
		args = append(args, filter.GetLimit())
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.GetOffset())
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var invoices []*domainInvoice.Invoice
	if err := r.client.Querier(ctx).SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, ierr.WithError(err).WithHint("invoice listing failed").Mark(ierr.ErrDatabase)
	}

	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	query := `SELECT COUNT(*) FROM invoices WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	if filter != nil {
		if filter.ClientID != "" {
			args = append(args, filter.ClientID)
			query += fmt.Sprintf(" AND client_id = $%d", len(args))
		}
		if filter.InvoiceStatus != nil {
			args = append(args, *filter.InvoiceStatus)
			query += fmt.Sprintf(" AND invoice_status = $%d", len(args))
		}
	}

	var count int
	if err := r.client.Querier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).WithHint("invoice count failed").Mark(ierr.ErrDatabase)
	}

	return count, nil
}

func (r *invoiceRepository) MaxInvoiceNumber(ctx context.Context, prefix, suffix string) (int64, error) {
	query := `
		SELECT COALESCE(MAX(invoice_number), 0)
		FROM invoices
		WHERE prefix = $1 AND suffix = $2`

	var max int64
	if err := r.client.Querier(ctx).GetContext(ctx, &max, query, prefix, suffix); err != nil {
		return 0, ierr.WithError(err).WithHint("invoice number lookup failed").Mark(ierr.ErrDatabase)
	}

	return max, nil
}
