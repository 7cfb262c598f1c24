package service

import (
	"context"
	"time"

	"github.com/brickline/storefront/internal/api/dto"
	"github.com/brickline/storefront/internal/domain/invoice"
	"github.com/brickline/storefront/internal/domain/order"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/idempotency"
	"github.com/brickline/storefront/internal/logger"
	"github.com/brickline/storefront/internal/postgres"
	"github.com/brickline/storefront/internal/types"
	"github.com/samber/lo"
)

type InvoiceService interface {
	// GenerateFromOrder ensures exactly one invoice exists for the order,
	// generating one if absent. Safe to call any number of times.
	GenerateFromOrder(ctx context.Context, orderID string) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	GetInvoiceByOrder(ctx context.Context, orderID string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	UpdateInvoiceStatus(ctx context.Context, id string, status types.InvoiceStatus) (*dto.InvoiceResponse, error)
	SeedCounter(ctx context.Context, req dto.SeedCounterRequest) (*dto.CounterResponse, error)
	ListCounters(ctx context.Context) (*dto.ListCountersResponse, error)
}

type invoiceService struct {
	ServiceParams
	allocator NumberAllocator
	idempGen  *idempotency.Generator
	logger    *logger.Logger
	db        postgres.IClient
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		allocator:     NewNumberAllocator(params),
		idempGen:      idempotency.NewGenerator(),
		logger:        params.Logger,
		db:            params.DB,
	}
}

// GenerateFromOrder implements the generation workflow:
//  1. return the existing invoice when one exists (idempotency)
//  2. resolve the order's billing data
//  3. allocate the next number for the active series
//  4. persist the invoice
//
// The existence check in step 1 is an optimization only; the order_id
// uniqueness constraint enforced by the store is what actually resolves
// concurrent invocations. Losing that race discards the freshly allocated
// number (a gap in the series, accepted) and returns the winner's invoice.
func (s *invoiceService) GenerateFromOrder(ctx context.Context, orderID string) (*dto.InvoiceResponse, error) {
	if orderID == "" {
		return nil, ierr.NewError("order_id is required").
			WithHint("Provide the order to invoice").
			Mark(ierr.ErrValidation)
	}

	// 1. Idempotency check
	existing, err := s.InvoiceRepo.GetByOrderID(ctx, orderID)
	if err == nil {
		s.logger.Infow("returning existing invoice for order",
			"order_id", orderID,
			"invoice_id", existing.ID)
		return dto.NewInvoiceResponse(existing), nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	// 2. Resolve billing data
	ord, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// 3. Allocate. The counter advances even if the invoice write below
	// fails; an unused number is a gap, never reused.
	alloc, err := s.allocator.Allocate(ctx)
	if err != nil {
		return nil, err
	}

	// 4. Persist
	inv := s.newInvoiceForOrder(ctx, ord, alloc)
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		if ierr.IsAlreadyExists(err) {
			// Another invocation won the race; its invoice is the
			// invoice for this order. The allocated number stays
			// unused.
			s.logger.Infow("lost invoice generation race, returning winner",
				"order_id", orderID,
				"discarded_number", alloc.Number)
			winner, gerr := s.InvoiceRepo.GetByOrderID(ctx, orderID)
			if gerr != nil {
				return nil, gerr
			}
			return dto.NewInvoiceResponse(winner), nil
		}
		return nil, err
	}

	s.logger.Infow("generated invoice for order",
		"order_id", orderID,
		"invoice_id", inv.ID,
		"number", inv.Number())

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) newInvoiceForOrder(ctx context.Context, ord *order.Order, alloc *invoice.Allocation) *invoice.Invoice {
	now := time.Now().UTC()
	idempKey := s.idempGen.GenerateKey(idempotency.ScopeOrderInvoice, map[string]interface{}{
		"order_id": ord.ID,
	})

	return &invoice.Invoice{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		ClientID:       ord.ClientID,
		OrderID:        ord.ID,
		InvoiceNumber:  alloc.Number,
		Prefix:         alloc.Prefix,
		Suffix:         alloc.Suffix,
		TotalCents:     ord.TotalCents,
		Currency:       s.Config.Billing.Currency,
		InvoiceStatus:  types.InvoiceStatusPending,
		IdempotencyKey: lo.ToPtr(idempKey),
		DueDate:        now.AddDate(0, 0, s.Config.Billing.DueDays),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoiceByOrder(ctx context.Context, orderID string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = &types.InvoiceFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = dto.NewInvoiceResponse(inv)
	}

	return &dto.ListInvoicesResponse{
		Items: items,
		Pagination: types.PaginationResponse{
			Total:  count,
			Limit:  filter.GetLimit(),
			Offset: filter.GetOffset(),
		},
	}, nil
}

func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, id string, status types.InvoiceStatus) (*dto.InvoiceResponse, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateStatusTransition(inv.InvoiceStatus, status); err != nil {
		return nil, err
	}

	inv.InvoiceStatus = status
	inv.UpdatedAt = time.Now().UTC()
	inv.UpdatedBy = types.GetUserID(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) validateStatusTransition(from, to types.InvoiceStatus) error {
	allowedTransitions := map[types.InvoiceStatus][]types.InvoiceStatus{
		types.InvoiceStatusPending: {
			types.InvoiceStatusSent,
			types.InvoiceStatusPaid,
			types.InvoiceStatusVoided,
		},
		types.InvoiceStatusSent: {
			types.InvoiceStatusPaid,
			types.InvoiceStatusOverdue,
			types.InvoiceStatusVoided,
		},
		types.InvoiceStatusOverdue: {
			types.InvoiceStatusPaid,
			types.InvoiceStatusVoided,
		},
	}

	if !lo.Contains(allowedTransitions[from], to) {
		return ierr.NewError("invalid invoice status transition").
			WithHintf("Cannot move invoice from %s to %s", from, to).
			WithReportableDetails(map[string]any{
				"from": from,
				"to":   to,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

// SeedCounter creates the counter row for a new series. When the request does
// not carry an explicit next number the counter is seeded from the highest
// invoice number already persisted for the series, plus one, so a series can
// be retrofitted onto pre-existing invoices. After seeding, the allocator is
// the only writer of the counter.
func (s *invoiceService) SeedCounter(ctx context.Context, req dto.SeedCounterRequest) (*dto.CounterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	next := int64(1)
	if req.NextNumber != nil {
		next = *req.NextNumber
	} else {
		max, err := s.InvoiceRepo.MaxInvoiceNumber(ctx, req.Prefix, req.Suffix)
		if err != nil {
			return nil, err
		}
		next = max + 1
	}

	now := time.Now().UTC()
	counter := &invoice.Counter{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUNTER),
		Prefix:     req.Prefix,
		Suffix:     req.Suffix,
		NextNumber: next,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := counter.Validate(); err != nil {
		return nil, err
	}

	if err := s.CounterRepo.Seed(ctx, counter); err != nil {
		return nil, err
	}

	return dto.NewCounterResponse(counter), nil
}

func (s *invoiceService) ListCounters(ctx context.Context) (*dto.ListCountersResponse, error) {
	counters, err := s.CounterRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CounterResponse, len(counters))
	for i, c := range counters {
		items[i] = dto.NewCounterResponse(c)
	}

	return &dto.ListCountersResponse{Items: items}, nil
}
