package service

import (
	"github.com/brickline/storefront/internal/config"
	"github.com/brickline/storefront/internal/domain/client"
	"github.com/brickline/storefront/internal/domain/invoice"
	"github.com/brickline/storefront/internal/domain/order"
	"github.com/brickline/storefront/internal/logger"
	"github.com/brickline/storefront/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	InvoiceRepo invoice.Repository
	CounterRepo invoice.CounterRepository
	OrderRepo   order.Repository
	ClientRepo  client.Repository
}

// NewServiceParams builds the common service params for DI
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	invoiceRepo invoice.Repository,
	counterRepo invoice.CounterRepository,
	orderRepo order.Repository,
	clientRepo client.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:      logger,
		Config:      config,
		DB:          db,
		InvoiceRepo: invoiceRepo,
		CounterRepo: counterRepo,
		OrderRepo:   orderRepo,
		ClientRepo:  clientRepo,
	}
}
