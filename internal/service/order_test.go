package service

import (
	"testing"
	"time"

	"github.com/brickline/storefront/internal/api/dto"
	"github.com/brickline/storefront/internal/domain/client"
	"github.com/brickline/storefront/internal/domain/invoice"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/testutil"
	"github.com/brickline/storefront/internal/types"
	"github.com/stretchr/testify/suite"
)

type OrderServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        OrderService
	invoiceService InvoiceService
	testData       struct {
		client *client.Client
	}
}

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	params := ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		InvoiceRepo: stores.InvoiceRepo,
		CounterRepo: stores.CounterRepo,
		OrderRepo:   stores.OrderRepo,
		ClientRepo:  stores.ClientRepo,
	}
	s.invoiceService = NewInvoiceService(params)
	s.service = NewOrderService(params, s.invoiceService)
	s.setupTestData()
}

func (s *OrderServiceSuite) setupTestData() {
	s.testData.client = &client.Client{
		ID:        "client_1",
		Name:      "Acme GmbH",
		Email:     "billing@acme.test",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), s.testData.client))
}

func (s *OrderServiceSuite) seedCounter(next int64) {
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

func (s *OrderServiceSuite) createOrder(totalCents int64) *dto.OrderResponse {
	resp, err := s.service.CreateOrder(s.GetContext(), dto.CreateOrderRequest{
		ClientID:   s.testData.client.ID,
		TotalCents: totalCents,
	})
	s.NoError(err)
	return resp
}

// advance walks an order through its fulfillment states in sequence
func (s *OrderServiceSuite) advance(id string, statuses ...types.OrderStatus) *dto.OrderResponse {
	var resp *dto.OrderResponse
	var err error
	for _, status := range statuses {
		resp, err = s.service.UpdateOrderStatus(s.GetContext(), id, status)
		s.NoError(err)
	}
	return resp
}

func (s *OrderServiceSuite) TestCreateOrder() {
	resp := s.createOrder(10050)
	s.Equal(s.testData.client.ID, resp.ClientID)
	s.Equal(int64(10050), resp.TotalCents)
	s.Equal("100.5", resp.Total.String())
	s.Equal("EUR", resp.Currency)
	s.Equal(types.OrderStatusPending, resp.OrderStatus)
}

func (s *OrderServiceSuite) TestCreateOrderUnknownClient() {
	_, err := s.service.CreateOrder(s.GetContext(), dto.CreateOrderRequest{
		ClientID:   "client_missing",
		TotalCents: 500,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *OrderServiceSuite) TestDeliveryGeneratesInvoice() {
	s.seedCounter(67)
	ord := s.createOrder(10050)

	resp := s.advance(ord.ID,
		types.OrderStatusProcessing,
		types.OrderStatusShipped,
		types.OrderStatusDelivered,
	)

	s.Equal(types.OrderStatusDelivered, resp.OrderStatus)
	s.NotNil(resp.Invoice)
	s.Equal("W-67-25", resp.Invoice.Number)
	s.Equal(int64(10050), resp.Invoice.TotalCents)
}

func (s *OrderServiceSuite) TestDeliveryReplayIsIdempotent() {
	s.seedCounter(67)
	ord := s.createOrder(10050)

	first := s.advance(ord.ID,
		types.OrderStatusProcessing,
		types.OrderStatusShipped,
		types.OrderStatusDelivered,
	)

	// a replayed delivery event converges on the same invoice
	replay, err := s.service.UpdateOrderStatus(s.GetContext(), ord.ID, types.OrderStatusDelivered)
	s.NoError(err)
	s.NotNil(replay.Invoice)
	s.Equal(first.Invoice.ID, replay.Invoice.ID)

	s.Equal(1, s.GetStores().CounterStore.AllocateCalls())
}

func (s *OrderServiceSuite) TestInvalidTransitions() {
	ord := s.createOrder(500)

	for _, status := range []types.OrderStatus{
		types.OrderStatusShipped,
		types.OrderStatusDelivered,
	} {
		_, err := s.service.UpdateOrderStatus(s.GetContext(), ord.ID, status)
		s.Error(err)
		s.True(ierr.IsInvalidOperation(err))
	}

	// a delivered order cannot move anywhere else
	s.seedCounter(1)
	s.advance(ord.ID,
		types.OrderStatusProcessing,
		types.OrderStatusShipped,
		types.OrderStatusDelivered,
	)
	_, err := s.service.UpdateOrderStatus(s.GetContext(), ord.ID, types.OrderStatusCancelled)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *OrderServiceSuite) TestCancelledOrderIsNeverInvoiced() {
	s.seedCounter(1)
	ord := s.createOrder(500)

	resp, err := s.service.UpdateOrderStatus(s.GetContext(), ord.ID, types.OrderStatusCancelled)
	s.NoError(err)
	s.Equal(types.OrderStatusCancelled, resp.OrderStatus)
	s.Nil(resp.Invoice)

	count, err := s.GetStores().InvoiceRepo.Count(s.GetContext(), &types.InvoiceFilter{})
	s.NoError(err)
	s.Equal(0, count)
}

func (s *OrderServiceSuite) TestDeliveryWithoutCounterKeepsTransition() {
	ord := s.createOrder(500)
	s.advance(ord.ID, types.OrderStatusProcessing, types.OrderStatusShipped)

	// generation fails but the delivery itself stays committed
	_, err := s.service.UpdateOrderStatus(s.GetContext(), ord.ID, types.OrderStatusDelivered)
	s.Error(err)
	s.True(ierr.IsCounterNotConfigured(err))

	stored, err := s.GetStores().OrderRepo.Get(s.GetContext(), ord.ID)
	s.NoError(err)
	s.Equal(types.OrderStatusDelivered, stored.OrderStatus)

	// once the counter is seeded, replaying the delivery invoices the order
	s.seedCounter(67)
	resp, err := s.service.UpdateOrderStatus(s.GetContext(), ord.ID, types.OrderStatusDelivered)
	s.NoError(err)
	s.NotNil(resp.Invoice)
	s.Equal(int64(67), resp.Invoice.InvoiceNumber)
}

func (s *OrderServiceSuite) TestListOrders() {
	s.createOrder(100)
	s.createOrder(200)

	resp, err := s.service.ListOrders(s.GetContext(), &types.OrderFilter{})
	s.NoError(err)
	s.Equal(2, resp.Pagination.Total)
	s.Len(resp.Items, 2)

	status := types.OrderStatusDelivered
	resp, err = s.service.ListOrders(s.GetContext(), &types.OrderFilter{OrderStatus: &status})
	s.NoError(err)
	s.Equal(0, resp.Pagination.Total)
}
