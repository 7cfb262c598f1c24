package router

import (
	v1 "github.com/brickline/storefront/internal/api/v1"
	"github.com/brickline/storefront/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

func SetupRouter(
	invoiceHandler *v1.InvoiceHandler,
	orderHandler *v1.OrderHandler,
	clientHandler *v1.ClientHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.ErrorHandler())

	group := router.Group("/v1")

	// Client routes
	group.POST("/clients", clientHandler.CreateClient)
	group.GET("/clients", clientHandler.ListClients)
	group.GET("/clients/:id", clientHandler.GetClient)

	// Order routes
	group.POST("/orders", orderHandler.CreateOrder)
	group.GET("/orders", orderHandler.ListOrders)
	group.GET("/orders/:id", orderHandler.GetOrder)
	group.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	group.GET("/orders/:id/invoice", orderHandler.GetOrderInvoice)
	group.POST("/orders/:id/invoice", orderHandler.GenerateOrderInvoice)

	// Invoice routes
	group.GET("/invoices", invoiceHandler.ListInvoices)
	group.GET("/invoices/:id", invoiceHandler.GetInvoice)
	group.PUT("/invoices/:id/status", invoiceHandler.UpdateInvoiceStatus)

	// Counter administration
	group.POST("/admin/counters", invoiceHandler.SeedCounter)
	group.GET("/admin/counters", invoiceHandler.ListCounters)

	return router
}
