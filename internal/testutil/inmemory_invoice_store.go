package testutil

import (
	"context"
	"sync"

	"github.com/brickline/storefront/internal/domain/invoice"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository with the same uniqueness
// semantics as the postgres store: one invoice per order, one invoice per
// (prefix, number, suffix).
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	// serializes the uniqueness scan and the insert so concurrent Create
	// calls behave like the database constraint
	mu sync.Mutex

	// createHook, when set, runs before each Create. Tests use it to
	// inject store failures and interleaved writers.
	createHook func(ctx context.Context, inv *invoice.Invoice) error
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

// WithCreateHook installs a hook invoked before each Create
func (s *InMemoryInvoiceStore) WithCreateHook(hook func(ctx context.Context, inv *invoice.Invoice) error) {
	s.createHook = hook
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createHook != nil {
		if err := s.createHook(ctx, inv); err != nil {
			return err
		}
	}

	all, _ := s.InMemoryStore.List(ctx, nil, nil, nil)
	for _, existing := range all {
		if existing.OrderID == inv.OrderID {
			return ierr.NewError("invoice already exists for order").
				WithHint("An invoice already exists for this order").
				Mark(ierr.ErrAlreadyExists)
		}
		if existing.Prefix == inv.Prefix && existing.Suffix == inv.Suffix &&
			existing.InvoiceNumber == inv.InvoiceNumber {
			return ierr.NewError("invoice number already used").
				WithHint("An invoice with this number already exists in the series").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	if err := s.InMemoryStore.Create(ctx, inv.ID, inv); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewErrorf("invoice %s not found", id).
			WithHint("Invoice not found").
			Mark(ierr.ErrNotFound)
	}
	return inv, nil
}

func (s *InMemoryInvoiceStore) GetByOrderID(ctx context.Context, orderID string) (*invoice.Invoice, error) {
	all, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.OrderID == orderID
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, ierr.NewErrorf("no invoice for order %s", orderID).
			WithHint("No invoice exists for this order").
			Mark(ierr.ErrNotFound)
	}
	return all[0], nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if err := s.InMemoryStore.Update(ctx, inv.ID, inv); err != nil {
		return ierr.NewErrorf("invoice %s not found", inv.ID).
			WithHint("Invoice not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	if filter == nil {
		filter = &types.InvoiceFilter{}
	}

	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}
	return types.Paginate(invoices, filter.GetLimit(), filter.GetOffset()), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) MaxInvoiceNumber(ctx context.Context, prefix, suffix string) (int64, error) {
	all, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.Prefix == prefix && inv.Suffix == suffix
	}, nil)
	if err != nil {
		return 0, err
	}

	var max int64
	for _, inv := range all {
		if inv.InvoiceNumber > max {
			max = inv.InvoiceNumber
		}
	}
	return max, nil
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok {
		return true
	}
	if inv.Status == types.StatusDeleted {
		return false
	}
	if f.ClientID != "" && inv.ClientID != f.ClientID {
		return false
	}
	if f.InvoiceStatus != nil && inv.InvoiceStatus != *f.InvoiceStatus {
		return false
	}
	return true
}

func invoiceSortFn(i, j *invoice.Invoice) bool {
	return i.CreatedAt.After(j.CreatedAt)
}
