package main

import (
	"context"
	"net/http"
	"time"

	v1 "github.com/brickline/storefront/internal/api/v1"
	"github.com/brickline/storefront/internal/config"
	"github.com/brickline/storefront/internal/logger"
	"github.com/brickline/storefront/internal/postgres"
	pgrepo "github.com/brickline/storefront/internal/repository/postgres"
	"github.com/brickline/storefront/internal/router"
	"github.com/brickline/storefront/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Load .env for local development; ignored when absent
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// Repositories
			pgrepo.NewInvoiceRepository,
			pgrepo.NewCounterRepository,
			pgrepo.NewOrderRepository,
			pgrepo.NewClientRepository,

			// Services
			service.NewServiceParams,
			service.NewInvoiceService,
			service.NewOrderService,
			service.NewClientService,

			// Handlers
			v1.NewInvoiceHandler,
			v1.NewOrderHandler,
			v1.NewClientHandler,

			// Router
			router.SetupRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}
