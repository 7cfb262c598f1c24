package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domainOrder "github.com/brickline/storefront/internal/domain/order"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/logger"
	"github.com/brickline/storefront/internal/postgres"
	"github.com/brickline/storefront/internal/types"
)

type orderRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewOrderRepository(client postgres.IClient, logger *logger.Logger) domainOrder.Repository {
	return &orderRepository{
		client: client,
		logger: logger,
	}
}

const orderColumns = `id, client_id, total_cents, currency, order_status,
	status, created_at, updated_at, created_by, updated_by`

func (r *orderRepository) Create(ctx context.Context, o *domainOrder.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES (:id, :client_id, :total_cents, :currency, :order_status,
			:status, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := sqlxNamedExec(ctx, r.client.Querier(ctx), query, o); err != nil {
		r.logger.Errorw("failed to create order", "error", err)
		return ierr.WithError(err).WithHint("order creation failed").Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*domainOrder.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND status != $2`

	var o domainOrder.Order
	err := r.client.Querier(ctx).GetContext(ctx, &o, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Order not found").
				WithReportableDetails(map[string]any{
					"order_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithHint("order lookup failed").Mark(ierr.ErrDatabase)
	}

	return &o, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, o *domainOrder.Order) error {
	query := `
		UPDATE orders
		SET order_status = :order_status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	res, err := sqlxNamedExec(ctx, r.client.Querier(ctx), query, o)
	if err != nil {
		return ierr.WithError(err).WithHint("order update failed").Mark(ierr.ErrDatabase)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("order not found").
			WithHint("Order not found").
			WithReportableDetails(map[string]any{
				"order_id": o.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) List(ctx context.Context, filter *types.OrderFilter) ([]*domainOrder.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	if filter != nil {
		if filter.ClientID != "" {
			args = append(args, filter.ClientID)
			query += fmt.Sprintf(" AND client_id = $%d", len(args))
		}
		if filter.OrderStatus != nil {
			args = append(args, *filter.OrderStatus)
			query += fmt.Sprintf(" AND order_status = $%d", len(args))
		}
	}

	query += " ORDER BY created_at DESC"
	if filter != nil {
		args = append(args, filter.GetLimit())
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.GetOffset())
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var orders []*domainOrder.Order
	if err := r.client.Querier(ctx).SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, ierr.WithError(err).WithHint("order listing failed").Mark(ierr.ErrDatabase)
	}

	return orders, nil
}

func (r *orderRepository) Count(ctx context.Context, filter *types.OrderFilter) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	if filter != nil {
		if filter.ClientID != "" {
			args = append(args, filter.ClientID)
			query += fmt.Sprintf(" AND client_id = $%d", len(args))
		}
		if filter.OrderStatus != nil {
			args = append(args, *filter.OrderStatus)
			query += fmt.Sprintf(" AND order_status = $%d", len(args))
		}
	}

	var count int
	if err := r.client.Querier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).WithHint("order count failed").Mark(ierr.ErrDatabase)
	}

	return count, nil
}
