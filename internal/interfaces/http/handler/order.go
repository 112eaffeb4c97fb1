package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/canteen/backend/internal/application/order"
)

// OrderHandler exposes checkout and order history
type OrderHandler struct {
	BaseHandler
	checkoutService *order.CheckoutService
}

// NewOrderHandler creates an order handler
func NewOrderHandler(checkoutService *order.CheckoutService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService}
}

// RegisterRoutes registers order endpoints
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders", h.Checkout)
	rg.GET("/orders", h.List)
	rg.GET("/orders/number/:number", h.GetByNumber)
	rg.GET("/orders/:id", h.Get)
	rg.POST("/orders/:id/void", h.Void)
}

// Checkout handles POST /orders
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req order.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	o, err := h.checkoutService.Checkout(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, o)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	var query order.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.checkoutService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Paginated(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	o, err := h.checkoutService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, o)
}

// GetByNumber handles GET /orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	o, err := h.checkoutService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, o)
}

// Void handles POST /orders/:id/void. Voiding restores stock and
// refunds the student wallet where one paid.
func (h *OrderHandler) Void(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	o, err := h.checkoutService.Void(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, o)
}
