package testutil

import (
	"context"
	"time"

	"github.com/brickline/storefront/internal/config"
	"github.com/brickline/storefront/internal/domain/client"
	"github.com/brickline/storefront/internal/domain/invoice"
	"github.com/brickline/storefront/internal/domain/order"
	"github.com/brickline/storefront/internal/logger"
	"github.com/brickline/storefront/internal/postgres"
	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory repository implementations for service tests
type Stores struct {
	InvoiceRepo invoice.Repository
	CounterRepo invoice.CounterRepository
	OrderRepo   order.Repository
	ClientRepo  client.Repository

	// concrete handles for test instrumentation
	InvoiceStore *InMemoryInvoiceStore
	CounterStore *InMemoryCounterStore
	OrderStore   *InMemoryOrderStore
	ClientStore  *InMemoryClientStore
}

// BaseServiceTestSuite provides common setup for service layer tests
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    *config.Configuration
	logger *logger.Logger
	db     postgres.IClient
	stores Stores
	now    time.Time
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.cfg = config.GetDefaultConfig()
	s.logger = logger.L
	s.db = NewMockPostgresClient()
	s.now = time.Now().UTC()
	s.setupStores()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	invoiceStore := NewInMemoryInvoiceStore()
	counterStore := NewInMemoryCounterStore()
	orderStore := NewInMemoryOrderStore()
	clientStore := NewInMemoryClientStore()

	s.stores = Stores{
		InvoiceRepo:  invoiceStore,
		CounterRepo:  counterStore,
		OrderRepo:    orderStore,
		ClientRepo:   clientStore,
		InvoiceStore: invoiceStore,
		CounterStore: counterStore,
		OrderStore:   orderStore,
		ClientStore:  clientStore,
	}
}

// ClearStores resets all the stores to an empty state
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.InvoiceStore.InMemoryStore.Clear()
	s.stores.CounterStore.Clear()
	s.stores.OrderStore.InMemoryStore.Clear()
	s.stores.ClientStore.InMemoryStore.Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
