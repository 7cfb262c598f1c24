package v1

import (
	"net/http"

	"github.com/brickline/storefront/internal/api/dto"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/logger"
	"github.com/brickline/storefront/internal/service"
	"github.com/brickline/storefront/internal/types"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService   service.OrderService
	invoiceService service.InvoiceService
	logger         *logger.Logger
}

func NewOrderHandler(orderService service.OrderService, invoiceService service.InvoiceService, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// CreateOrder creates a new order
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder returns detailed information about an order
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid order id").Mark(ierr.ErrValidation))
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders lists orders with optional filtering
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var filter types.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.Errorw("failed to bind query parameters", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid query parameters").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.orderService.ListOrders(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateOrderStatus transitions an order; delivering an order generates its
// invoice
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid order id").Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, req.OrderStatus)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetOrderInvoice returns the invoice for an order, if one exists
func (h *OrderHandler) GetOrderInvoice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid order id").Mark(ierr.ErrValidation))
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// GenerateOrderInvoice retriggers invoice generation for an order. Idempotent:
// when the invoice already exists it is returned unchanged. Used by operators
// after automatic invoicing failed.
func (h *OrderHandler) GenerateOrderInvoice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid order id").Mark(ierr.ErrValidation))
		return
	}

	invoice, err := h.invoiceService.GenerateFromOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}
