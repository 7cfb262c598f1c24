package postgres

import (
	"context"
	"database/sql"

	pgclient "github.com/brickline/storefront/internal/postgres"
	"github.com/jmoiron/sqlx"
)

// sqlxNamedExec runs a named statement through whichever querier is active,
// the pool or the transaction bound to the context
func sqlxNamedExec(ctx context.Context, q pgclient.Querier, query string, arg interface{}) (sql.Result, error) {
	return sqlx.NamedExecContext(ctx, q, query, arg)
}
