package postgres

import (
	"context"
	"database/sql"
	"errors"

	domainInvoice "github.com/brickline/storefront/internal/domain/invoice"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/logger"
	"github.com/brickline/storefront/internal/postgres"
)

type counterRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewCounterRepository(client postgres.IClient, logger *logger.Logger) domainInvoice.CounterRepository {
	return &counterRepository{
		client: client,
		logger: logger,
	}
}

// Allocate reads next_number and writes next_number + 1 back in a single
// UPDATE. The row lock taken by the statement serializes concurrent callers,
// so no two of them can observe the same pre-increment value. A missing row
// means the series was never seeded; the caller must not fabricate a number.
func (r *counterRepository) Allocate(ctx context.Context, prefix, suffix string) (*domainInvoice.Allocation, error) {
	query := `
		UPDATE invoice_counters
		SET next_number = next_number + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE prefix = $1 AND suffix = $2
		RETURNING next_number - 1`

	var number int64
	err := r.client.Querier(ctx).GetContext(ctx, &number, query, prefix, suffix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("No invoice counter is configured for this series").
				WithReportableDetails(map[string]any{
					"prefix": prefix,
					"suffix": suffix,
				}).
				Mark(ierr.ErrCounterNotConfigured)
		}
		if retryableConflict(err) {
			return nil, ierr.WithError(err).
				WithHint("Invoice number allocation lost a race").
				Mark(ierr.ErrVersionConflict)
		}
		return nil, ierr.WithError(err).WithHint("invoice number allocation failed").Mark(ierr.ErrDatabase)
	}

	r.logger.Infow("allocated invoice number",
		"prefix", prefix,
		"suffix", suffix,
		"number", number)

	return &domainInvoice.Allocation{
		Number: number,
		Prefix: prefix,
		Suffix: suffix,
	}, nil
}

func (r *counterRepository) Seed(ctx context.Context, counter *domainInvoice.Counter) error {
	query := `
		INSERT INTO invoice_counters (id, prefix, suffix, next_number, created_at, updated_at)
		VALUES (:id, :prefix, :suffix, :next_number, :created_at, :updated_at)`

	_, err := sqlxNamedExec(ctx, r.client.Querier(ctx), query, counter)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == ConstraintCounterSeriesUnique {
			return ierr.WithError(err).
				WithHint("A counter for this series already exists").
				WithReportableDetails(map[string]any{
					"prefix": counter.Prefix,
					"suffix": counter.Suffix,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).WithHint("counter seeding failed").Mark(ierr.ErrDatabase)
	}

	r.logger.Infow("seeded invoice counter",
		"prefix", counter.Prefix,
		"suffix", counter.Suffix,
		"next_number", counter.NextNumber)

	return nil
}

func (r *counterRepository) GetBySeries(ctx context.Context, prefix, suffix string) (*domainInvoice.Counter, error) {
	query := `
		SELECT id, prefix, suffix, next_number, created_at, updated_at
		FROM invoice_counters
		WHERE prefix = $1 AND suffix = $2`

	var counter domainInvoice.Counter
	err := r.client.Querier(ctx).GetContext(ctx, &counter, query, prefix, suffix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("No invoice counter is configured for this series").
				WithReportableDetails(map[string]any{
					"prefix": prefix,
					"suffix": suffix,
				}).
				Mark(ierr.ErrCounterNotConfigured)
		}
		return nil, ierr.WithError(err).WithHint("counter lookup failed").Mark(ierr.ErrDatabase)
	}

	return &counter, nil
}

func (r *counterRepository) List(ctx context.Context) ([]*domainInvoice.Counter, error) {
	query := `
		SELECT id, prefix, suffix, next_number, created_at, updated_at
		FROM invoice_counters
		ORDER BY created_at`

	var counters []*domainInvoice.Counter
	if err := r.client.Querier(ctx).SelectContext(ctx, &counters, query); err != nil {
		return nil, ierr.WithError(err).WithHint("counter listing failed").Mark(ierr.ErrDatabase)
	}

	return counters, nil
}
