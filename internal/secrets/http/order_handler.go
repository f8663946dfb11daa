package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jfwood/barbican/internal/httputil"
	"github.com/jfwood/barbican/internal/secrets/http/dto"
	secretsUseCase "github.com/jfwood/barbican/internal/secrets/usecase"
	"github.com/jfwood/barbican/internal/secrets/validator"
)

// OrderHandler handles HTTP requests for secret generation orders.
type OrderHandler struct {
	orderUseCase   secretsUseCase.OrderUseCase
	orderValidator *validator.OrderValidator
	baseURL        string
	logger         *slog.Logger
}

// NewOrderHandler creates a new order handler with required dependencies.
func NewOrderHandler(
	orderUseCase secretsUseCase.OrderUseCase,
	orderValidator *validator.OrderValidator,
	baseURL string,
	logger *slog.Logger,
) *OrderHandler {
	return &OrderHandler{
		orderUseCase:   orderUseCase,
		orderValidator: orderValidator,
		baseURL:        baseURL,
		logger:         logger,
	}
}

// CreateHandler accepts an order for asynchronous secret generation.
// POST /v1/:keystone_id/orders
// Returns 202 Accepted with the order href; fulfillment happens through the
// task subsystem.
func (h *OrderHandler) CreateHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	payload, err := h.orderValidator.Validate(body, "")
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	order, err := h.orderUseCase.Create(c.Request.Context(), keystoneID(c), payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.RefResponse{
		OrderRef: httputil.OrderRef(h.baseURL, keystoneID(c), order.ID),
	})
}

// ListHandler retrieves a paginated list of the tenant's orders.
// GET /v1/:keystone_id/orders?offset=N&limit=N
func (h *OrderHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	orders, total, err := h.orderUseCase.List(c.Request.Context(), keystoneID(c), limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapOrdersToListResponse(h.baseURL, keystoneID(c), orders, offset, limit, total)
	c.JSON(http.StatusOK, response)
}

// GetHandler retrieves an order, including its status and, once fulfilled,
// the href of the generated secret.
// GET /v1/:keystone_id/orders/:order_id
func (h *OrderHandler) GetHandler(c *gin.Context) {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	order, err := h.orderUseCase.Get(c.Request.Context(), keystoneID(c), orderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderToResponse(h.baseURL, keystoneID(c), order))
}

// DeleteHandler removes an order.
// DELETE /v1/:keystone_id/orders/:order_id
func (h *OrderHandler) DeleteHandler(c *gin.Context) {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.orderUseCase.Delete(c.Request.Context(), keystoneID(c), orderID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
