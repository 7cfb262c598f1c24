package service

import (
	"context"
	"time"

	"github.com/brickline/storefront/internal/api/dto"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/logger"
	"github.com/brickline/storefront/internal/types"
	"github.com/samber/lo"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, filter *types.OrderFilter) (*dto.ListOrdersResponse, error)
	// UpdateOrderStatus transitions the order. Transitioning into the
	// delivered state triggers invoice generation for the order.
	UpdateOrderStatus(ctx context.Context, id string, status types.OrderStatus) (*dto.OrderResponse, error)
}

type orderService struct {
	ServiceParams
	invoiceService InvoiceService
	logger         *logger.Logger
}

func NewOrderService(params ServiceParams, invoiceService InvoiceService) OrderService {
	return &orderService{
		ServiceParams:  params,
		invoiceService: invoiceService,
		logger:         params.Logger,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The order must belong to a known client
	if _, err := s.ClientRepo.Get(ctx, req.ClientID); err != nil {
		return nil, err
	}

	ord := req.ToOrder(ctx, s.Config.Billing.Currency)
	if err := ord.Validate(); err != nil {
		return nil, err
	}

	if err := s.OrderRepo.Create(ctx, ord); err != nil {
		return nil, err
	}

	s.logger.Infow("created order",
		"order_id", ord.ID,
		"client_id", ord.ClientID,
		"total_cents", ord.TotalCents)

	return dto.NewOrderResponse(ord), nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	ord, err := s.OrderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(ord), nil
}

func (s *orderService) ListOrders(ctx context.Context, filter *types.OrderFilter) (*dto.ListOrdersResponse, error) {
	if filter == nil {
		filter = &types.OrderFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	orders, err := s.OrderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.OrderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.OrderResponse, len(orders))
	for i, ord := range orders {
		items[i] = dto.NewOrderResponse(ord)
	}

	return &dto.ListOrdersResponse{
		Items: items,
		Pagination: types.PaginationResponse{
			Total:  count,
			Limit:  filter.GetLimit(),
			Offset: filter.GetOffset(),
		},
	}, nil
}

// UpdateOrderStatus persists the transition first and then runs invoice
// generation for deliveries. Generation failures surface to the caller; the
// transition itself stays committed and a replayed delivered event converges
// through the generation workflow's idempotency.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id string, status types.OrderStatus) (*dto.OrderResponse, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	ord, err := s.OrderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateStatusTransition(ord.OrderStatus, status); err != nil {
		return nil, err
	}

	if ord.OrderStatus != status {
		ord.OrderStatus = status
		ord.UpdatedAt = time.Now().UTC()
		ord.UpdatedBy = types.GetUserID(ctx)

		if err := s.OrderRepo.UpdateStatus(ctx, ord); err != nil {
			return nil, err
		}

		s.logger.Infow("order status updated",
			"order_id", ord.ID,
			"order_status", ord.OrderStatus)
	}

	resp := dto.NewOrderResponse(ord)

	if status == types.OrderStatusDelivered {
		inv, err := s.invoiceService.GenerateFromOrder(ctx, ord.ID)
		if err != nil {
			s.logger.Errorw("automatic invoicing failed for delivered order",
				"order_id", ord.ID,
				"error", err)
			return nil, err
		}
		resp.Invoice = inv
	}

	return resp, nil
}

func (s *orderService) validateStatusTransition(from, to types.OrderStatus) error {
	allowedTransitions := map[types.OrderStatus][]types.OrderStatus{
		types.OrderStatusPending: {
			types.OrderStatusProcessing,
			types.OrderStatusCancelled,
		},
		types.OrderStatusProcessing: {
			types.OrderStatusShipped,
			types.OrderStatusCancelled,
		},
		types.OrderStatusShipped: {
			types.OrderStatusDelivered,
		},
		// A replayed delivery event is a no-op transition; the invoice
		// generation it triggers is idempotent.
		types.OrderStatusDelivered: {
			types.OrderStatusDelivered,
		},
	}

	if !lo.Contains(allowedTransitions[from], to) {
		return ierr.NewError("invalid order status transition").
			WithHintf("Cannot move order from %s to %s", from, to).
			WithReportableDetails(map[string]any{
				"from": from,
				"to":   to,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}
