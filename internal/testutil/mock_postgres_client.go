package testutil

import (
	"context"

	"github.com/brickline/storefront/internal/postgres"
	"github.com/jmoiron/sqlx"
)

// MockPostgresClient implements postgres.IClient for tests backed by the
// in-memory stores; WithTx runs the function directly since the stores have
// no transaction semantics.
type MockPostgresClient struct{}

func NewMockPostgresClient() postgres.IClient {
	return &MockPostgresClient{}
}

func (m *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (m *MockPostgresClient) TxFromContext(ctx context.Context) *sqlx.Tx {
	return nil
}

func (m *MockPostgresClient) Querier(ctx context.Context) postgres.Querier {
	return nil
}
