package service

import (
	"context"
	"testing"
	"time"

	"github.com/brickline/storefront/internal/api/dto"
	"github.com/brickline/storefront/internal/domain/client"
	"github.com/brickline/storefront/internal/domain/invoice"
	"github.com/brickline/storefront/internal/domain/order"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/testutil"
	"github.com/brickline/storefront/internal/types"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  InvoiceService
	testData struct {
		client *client.Client
		order  *order.Order
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewInvoiceService(s.params())
	s.setupTestData()
}

func (s *InvoiceServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		InvoiceRepo: stores.InvoiceRepo,
		CounterRepo: stores.CounterRepo,
		OrderRepo:   stores.OrderRepo,
		ClientRepo:  stores.ClientRepo,
	}
}

func (s *InvoiceServiceSuite) setupTestData() {
	s.testData.client = &client.Client{
		ID:        "client_1",
		Name:      "Acme GmbH",
		Email:     "billing@acme.test",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), s.testData.client))

	s.testData.order = &order.Order{
		ID:          "order_1",
		ClientID:    s.testData.client.ID,
		TotalCents:  10050,
		Currency:    "EUR",
		OrderStatus: types.OrderStatusDelivered,
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().OrderRepo.Create(s.GetContext(), s.testData.order))
}

// seedCounter puts the active series counter at the given next number
func (s *InvoiceServiceSuite) seedCounter(next int64) {
	series := s.GetConfig().Billing.Series
	now := time.Now().UTC()
	s.NoError(s.GetStores().CounterRepo.Seed(s.GetContext(), &invoice.Counter{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUNTER),
		Prefix:     series.Prefix,
		Suffix:     series.Suffix,
		NextNumber: next,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
}

func (s *InvoiceServiceSuite) createOrder(id string, totalCents int64) *order.Order {
	ord := &order.Order{
		ID:          id,
		ClientID:    s.testData.client.ID,
		TotalCents:  totalCents,
		Currency:    "EUR",
		OrderStatus: types.OrderStatusDelivered,
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().OrderRepo.Create(s.GetContext(), ord))
	return ord
}

func (s *InvoiceServiceSuite) TestGenerateFromOrder() {
	s.seedCounter(67)

	resp, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)
	s.NotNil(resp)
	s.Equal(int64(67), resp.InvoiceNumber)
	s.Equal("W-67-25", resp.Number)
	s.Equal(int64(10050), resp.TotalCents)
	s.Equal("EUR", resp.Currency)
	s.Equal(types.InvoiceStatusPending, resp.InvoiceStatus)
	s.Equal(s.testData.client.ID, resp.ClientID)

	dueIn := time.Until(resp.DueDate)
	s.InDelta(float64(30*24*time.Hour), float64(dueIn), float64(time.Hour))

	counter, err := s.GetStores().CounterRepo.GetBySeries(s.GetContext(), "W-", "-25")
	s.NoError(err)
	s.Equal(int64(68), counter.NextNumber)
}

func (s *InvoiceServiceSuite) TestGenerateFromOrderIsIdempotent() {
	s.seedCounter(67)

	first, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)

	second, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal(first.Number, second.Number)

	// the repeated call must not touch the counter
	s.Equal(1, s.GetStores().CounterStore.AllocateCalls())
	counter, err := s.GetStores().CounterRepo.GetBySeries(s.GetContext(), "W-", "-25")
	s.NoError(err)
	s.Equal(int64(68), counter.NextNumber)
}

func (s *InvoiceServiceSuite) TestGenerateFromOrderSequentialNumbers() {
	s.seedCounter(67)
	second := s.createOrder("order_2", 2500)

	respA, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)
	respB, err := s.service.GenerateFromOrder(s.GetContext(), second.ID)
	s.NoError(err)

	s.Equal(int64(67), respA.InvoiceNumber)
	s.Equal(int64(68), respB.InvoiceNumber)

	counter, err := s.GetStores().CounterRepo.GetBySeries(s.GetContext(), "W-", "-25")
	s.NoError(err)
	s.Equal(int64(69), counter.NextNumber)
}

func (s *InvoiceServiceSuite) TestGenerateFromOrderMissingCounter() {
	resp, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsCounterNotConfigured(err))

	// a missing counter is a configuration error, not a transient one
	s.Equal(1, s.GetStores().CounterStore.AllocateCalls())

	count, err := s.GetStores().InvoiceRepo.Count(s.GetContext(), &types.InvoiceFilter{})
	s.NoError(err)
	s.Equal(0, count)
}

func (s *InvoiceServiceSuite) TestGenerateFromOrderUnknownOrder() {
	s.seedCounter(67)

	resp, err := s.service.GenerateFromOrder(s.GetContext(), "order_missing")
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestGenerateFromOrderRequiresOrderID() {
	resp, err := s.service.GenerateFromOrder(s.GetContext(), "")
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestGenerateFromOrderConcurrent() {
	s.seedCounter(67)

	const callers = 8
	responses := make([]*dto.InvoiceResponse, callers)
	errs := make([]error, callers)

	var wg conc.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Go(func() {
			responses[i], errs[i] = s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
		})
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		s.NoError(errs[i])
		s.NotNil(responses[i])
		s.Equal(responses[0].ID, responses[i].ID)
		s.Equal(responses[0].Number, responses[i].Number)
	}

	count, err := s.GetStores().InvoiceRepo.Count(s.GetContext(), &types.InvoiceFilter{})
	s.NoError(err)
	s.Equal(1, count)
}

func (s *InvoiceServiceSuite) TestGenerateFromOrderPersistFailureLeavesNoInvoice() {
	s.seedCounter(67)

	store := s.GetStores().InvoiceStore
	store.WithCreateHook(func(ctx context.Context, inv *invoice.Invoice) error {
		return ierr.NewError("simulated write failure").
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	})

	_, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.Error(err)
	s.True(ierr.IsDatabase(err))

	count, err := s.GetStores().InvoiceRepo.Count(s.GetContext(), &types.InvoiceFilter{})
	s.NoError(err)
	s.Equal(0, count)

	// the number allocated for the failed attempt is burned; the retry
	// gets the next one and the series keeps a gap at 67
	store.WithCreateHook(nil)
	resp, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)
	s.Equal(int64(68), resp.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestGenerateFromOrderLostRaceReturnsWinner() {
	s.seedCounter(67)

	// simulate a competing invocation that wins between the existence
	// check and the insert
	store := s.GetStores().InvoiceStore
	winnerID := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE)
	store.WithCreateHook(func(ctx context.Context, inv *invoice.Invoice) error {
		store.WithCreateHook(nil)
		s.NoError(store.InMemoryStore.Create(ctx, winnerID, &invoice.Invoice{
			ID:            winnerID,
			ClientID:      s.testData.client.ID,
			OrderID:       s.testData.order.ID,
			InvoiceNumber: 99,
			Prefix:        "W-",
			Suffix:        "-25",
			TotalCents:    10050,
			Currency:      "EUR",
			InvoiceStatus: types.InvoiceStatusPending,
			DueDate:       time.Now().UTC(),
			BaseModel:     types.GetDefaultBaseModel(ctx),
		}))
		return ierr.NewError("invoice already exists for order").
			WithHint("An invoice already exists for this order").
			Mark(ierr.ErrAlreadyExists)
	})

	resp, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)
	s.Equal(winnerID, resp.ID)
	s.Equal(int64(99), resp.InvoiceNumber)

	count, err := s.GetStores().InvoiceRepo.Count(s.GetContext(), &types.InvoiceFilter{})
	s.NoError(err)
	s.Equal(1, count)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceStatus() {
	s.seedCounter(67)
	created, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)

	sent, err := s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, types.InvoiceStatusSent)
	s.NoError(err)
	s.Equal(types.InvoiceStatusSent, sent.InvoiceStatus)

	paid, err := s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, types.InvoiceStatusPaid)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, paid.InvoiceStatus)

	// paid is terminal
	_, err = s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, types.InvoiceStatusSent)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceStatusRejectsPendingToOverdue() {
	s.seedCounter(67)
	created, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)

	_, err = s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, types.InvoiceStatusOverdue)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestSeedCounter() {
	resp, err := s.service.SeedCounter(s.GetContext(), dto.SeedCounterRequest{
		Prefix:     "W-",
		Suffix:     "-26",
		NextNumber: lo.ToPtr(int64(100)),
	})
	s.NoError(err)
	s.Equal(int64(100), resp.NextNumber)

	// a series can only be seeded once
	_, err = s.service.SeedCounter(s.GetContext(), dto.SeedCounterRequest{
		Prefix:     "W-",
		Suffix:     "-26",
		NextNumber: lo.ToPtr(int64(1)),
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *InvoiceServiceSuite) TestSeedCounterDerivesNextFromExistingInvoices() {
	// series retrofitted onto invoices that already exist
	for i, id := range []string{"order_a", "order_b"} {
		ord := s.createOrder(id, 1000)
		s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), &invoice.Invoice{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
			ClientID:      s.testData.client.ID,
			OrderID:       ord.ID,
			InvoiceNumber: int64(41 + i),
			Prefix:        "W-",
			Suffix:        "-25",
			TotalCents:    1000,
			Currency:      "EUR",
			InvoiceStatus: types.InvoiceStatusPending,
			DueDate:       time.Now().UTC(),
			BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
		}))
	}

	resp, err := s.service.SeedCounter(s.GetContext(), dto.SeedCounterRequest{
		Prefix: "W-",
		Suffix: "-25",
	})
	s.NoError(err)
	s.Equal(int64(43), resp.NextNumber)
}

func (s *InvoiceServiceSuite) TestSeedCounterValidation() {
	_, err := s.service.SeedCounter(s.GetContext(), dto.SeedCounterRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.SeedCounter(s.GetContext(), dto.SeedCounterRequest{
		Prefix:     "W-",
		NextNumber: lo.ToPtr(int64(0)),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestListInvoices() {
	s.seedCounter(1)
	second := s.createOrder("order_2", 2500)

	_, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)
	_, err = s.service.GenerateFromOrder(s.GetContext(), second.ID)
	s.NoError(err)

	resp, err := s.service.ListInvoices(s.GetContext(), &types.InvoiceFilter{})
	s.NoError(err)
	s.Equal(2, resp.Pagination.Total)
	s.Len(resp.Items, 2)

	status := types.InvoiceStatusPaid
	resp, err = s.service.ListInvoices(s.GetContext(), &types.InvoiceFilter{InvoiceStatus: &status})
	s.NoError(err)
	s.Equal(0, resp.Pagination.Total)
}

func (s *InvoiceServiceSuite) TestGetInvoiceByOrder() {
	s.seedCounter(67)
	created, err := s.service.GenerateFromOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)

	found, err := s.service.GetInvoiceByOrder(s.GetContext(), s.testData.order.ID)
	s.NoError(err)
	s.Equal(created.ID, found.ID)

	_, err = s.service.GetInvoiceByOrder(s.GetContext(), "order_without_invoice")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
