package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/mead/backend/internal/application/trade"
	"github.com/mead/backend/internal/domain/shared"
)

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
	paging       Paging
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, paging Paging) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		paging:       paging,
	}
}

// Checkout previews the order the current cart would place
// GET /checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	buyerID, ok := h.accountID(c)
	if !ok {
		return
	}
	preview, err := h.orderService.Checkout(c.Request.Context(), buyerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Place turns the cart into an order and clears it
// POST /orders
func (h *OrderHandler) Place(c *gin.Context) {
	buyerID, ok := h.accountID(c)
	if !ok {
		return
	}
	order, err := h.orderService.PlaceOrder(c.Request.Context(), buyerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List returns the caller's orders, newest first by default
// GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	buyerID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.orderService.ListOrders(c.Request.Context(), buyerID, shared.Filter{
		Page:     filter.Page,
		PageSize: h.paging.pageSize(filter.PageSize),
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, page)
}

// ListAll returns the orders of every buyer with the buyer resolved.
// Administrators only.
// GET /orders/all
func (h *OrderHandler) ListAll(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.orderService.ListAllOrders(c.Request.Context(), shared.Filter{
		Page:     filter.Page,
		PageSize: h.paging.pageSize(filter.PageSize),
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, page)
}

// Get returns one of the caller's orders
// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	buyerID, ok := h.accountID(c)
	if !ok {
		return
	}
	orderID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), buyerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete removes an order. Administrators only.
// DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
