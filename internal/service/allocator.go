package service

import (
	"context"
	"time"

	"github.com/brickline/storefront/internal/config"
	"github.com/brickline/storefront/internal/domain/invoice"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/logger"
	"github.com/cenkalti/backoff/v4"
)

// NumberAllocator hands out the next sequential invoice number for the active
// series. It is the only code path that advances the counter; transient
// allocation conflicts are retried here, transparently to the caller.
type NumberAllocator interface {
	Allocate(ctx context.Context) (*invoice.Allocation, error)
}

type numberAllocator struct {
	counterRepo invoice.CounterRepository
	series      config.SeriesConfig
	maxRetries  uint64
	logger      *logger.Logger
}

func NewNumberAllocator(params ServiceParams) NumberAllocator {
	return &numberAllocator{
		counterRepo: params.CounterRepo,
		series:      params.Config.Billing.Series,
		maxRetries:  params.Config.Billing.AllocatorMaxRetries,
		logger:      params.Logger,
	}
}

// Allocate returns the pre-increment counter value for the active series and
// advances the counter in the same atomic unit of work. A missing counter row
// fails without retry; a lost race is retried a bounded number of times and
// escalates to a storage error once retries are exhausted.
func (a *numberAllocator) Allocate(ctx context.Context) (*invoice.Allocation, error) {
	var alloc *invoice.Allocation

	operation := func() error {
		res, err := a.counterRepo.Allocate(ctx, a.series.Prefix, a.series.Suffix)
		if err != nil {
			if ierr.IsVersionConflict(err) {
				a.logger.Warnw("invoice number allocation conflict, retrying",
					"prefix", a.series.Prefix,
					"suffix", a.series.Suffix)
				return err
			}
			return backoff.Permanent(err)
		}
		alloc = res
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(50*time.Millisecond), a.maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		if ierr.IsVersionConflict(err) {
			return nil, ierr.WithError(err).
				WithHint("Invoice number allocation kept losing races").
				Mark(ierr.ErrDatabase)
		}
		return nil, err
	}

	return alloc, nil
}
