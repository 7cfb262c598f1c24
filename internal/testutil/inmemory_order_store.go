package testutil

import (
	"context"

	"github.com/brickline/storefront/internal/domain/order"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/types"
)

// InMemoryOrderStore implements order.Repository
type InMemoryOrderStore struct {
	*InMemoryStore[*order.Order]
}

func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		InMemoryStore: NewInMemoryStore[*order.Order](),
	}
}

func (s *InMemoryOrderStore) Create(ctx context.Context, ord *order.Order) error {
	if err := s.InMemoryStore.Create(ctx, ord.ID, ord); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create order").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	ord, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewErrorf("order %s not found", id).
			WithHint("Order not found").
			Mark(ierr.ErrNotFound)
	}
	return ord, nil
}

func (s *InMemoryOrderStore) UpdateStatus(ctx context.Context, ord *order.Order) error {
	if err := s.InMemoryStore.Update(ctx, ord.ID, ord); err != nil {
		return ierr.NewErrorf("order %s not found", ord.ID).
			WithHint("Order not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryOrderStore) List(ctx context.Context, filter *types.OrderFilter) ([]*order.Order, error) {
	if filter == nil {
		filter = &types.OrderFilter{}
	}

	orders, err := s.InMemoryStore.List(ctx, filter, orderFilterFn, orderSortFn)
	if err != nil {
		return nil, err
	}
	return types.Paginate(orders, filter.GetLimit(), filter.GetOffset()), nil
}

func (s *InMemoryOrderStore) Count(ctx context.Context, filter *types.OrderFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, orderFilterFn)
}

func orderFilterFn(ctx context.Context, ord *order.Order, filter interface{}) bool {
	f, ok := filter.(*types.OrderFilter)
	if !ok {
		return true
	}
	if ord.Status == types.StatusDeleted {
		return false
	}
	if f.ClientID != "" && ord.ClientID != f.ClientID {
		return false
	}
	if f.OrderStatus != nil && ord.OrderStatus != *f.OrderStatus {
		return false
	}
	return true
}

func orderSortFn(i, j *order.Order) bool {
	return i.CreatedAt.After(j.CreatedAt)
}
