package testutil

import (
	"context"

	"github.com/brickline/storefront/internal/domain/client"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/types"
)

// InMemoryClientStore implements client.Repository
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]
}

func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	if err := s.InMemoryStore.Create(ctx, c.ID, c); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create client").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewErrorf("client %s not found", id).
			WithHint("Client not found").
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}

func (s *InMemoryClientStore) List(ctx context.Context, filter *types.ClientFilter) ([]*client.Client, error) {
	if filter == nil {
		filter = &types.ClientFilter{}
	}

	clients, err := s.InMemoryStore.List(ctx, filter, clientFilterFn, clientSortFn)
	if err != nil {
		return nil, err
	}
	return types.Paginate(clients, filter.GetLimit(), filter.GetOffset()), nil
}

func (s *InMemoryClientStore) Count(ctx context.Context, filter *types.ClientFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, clientFilterFn)
}

func clientFilterFn(ctx context.Context, c *client.Client, filter interface{}) bool {
	f, ok := filter.(*types.ClientFilter)
	if !ok {
		return true
	}
	if c.Status == types.StatusDeleted {
		return false
	}
	if f.Email != "" && c.Email != f.Email {
		return false
	}
	return true
}

func clientSortFn(i, j *client.Client) bool {
	return i.CreatedAt.After(j.CreatedAt)
}
