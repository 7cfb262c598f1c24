package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domainClient "github.com/brickline/storefront/internal/domain/client"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/logger"
	"github.com/brickline/storefront/internal/postgres"
	"github.com/brickline/storefront/internal/types"
)

type clientRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewClientRepository(client postgres.IClient, logger *logger.Logger) domainClient.Repository {
	return &clientRepository{
		client: client,
		logger: logger,
	}
}

const clientColumns = `id, name, email, address,
	status, created_at, updated_at, created_by, updated_by`

func (r *clientRepository) Create(ctx context.Context, c *domainClient.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES (:id, :name, :email, :address,
			:status, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := sqlxNamedExec(ctx, r.client.Querier(ctx), query, c); err != nil {
		r.logger.Errorw("failed to create client", "error", err)
		return ierr.WithError(err).WithHint("client creation failed").Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *clientRepository) Get(ctx context.Context, id string) (*domainClient.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND status != $2`

	var c domainClient.Client
	err := r.client.Querier(ctx).GetContext(ctx, &c, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Client not found").
				WithReportableDetails(map[string]any{
					"client_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithHint("client lookup failed").Mark(ierr.ErrDatabase)
	}

	return &c, nil
}

func (r *clientRepository) List(ctx context.Context, filter *types.ClientFilter) ([]*domainClient.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	if filter != nil && filter.Email != "" {
		args = append(args, filter.Email)
		query += fmt.Sprintf(" AND email = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"
	if filter != nil {
		args = append(args, filter.GetLimit())
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.GetOffset())
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var clients []*domainClient.Client
	if err := r.client.Querier(ctx).SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, ierr.WithError(err).WithHint("client listing failed").Mark(ierr.ErrDatabase)
	}

	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context, filter *types.ClientFilter) (int, error) {
	query := `SELECT COUNT(*) FROM clients WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	if filter != nil && filter.Email != "" {
		args = append(args, filter.Email)
		query += fmt.Sprintf(" AND email = $%d", len(args))
	}

	var count int
	if err := r.client.Querier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).WithHint("client count failed").Mark(ierr.ErrDatabase)
	}

	return count, nil
}
