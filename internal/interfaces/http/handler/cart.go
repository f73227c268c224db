package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/mead/backend/internal/application/trade"
)

// CartHandler handles the buyer's cart endpoints
type CartHandler struct {
	BaseHandler
	cartService *tradeapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *tradeapp.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// Get returns the caller's cart with every line resolved
// GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	buyerID, ok := h.accountID(c)
	if !ok {
		return
	}
	cart, err := h.cartService.Get(c.Request.Context(), buyerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem adds one unit of a product
// POST /cart/items/:product_id
func (h *CartHandler) AddItem(c *gin.Context) {
	h.mutateLine(c, h.cartService.AddItem)
}

// SubtractItem removes one unit of a product, dropping the line at zero
// POST /cart/items/:product_id/decrement
func (h *CartHandler) SubtractItem(c *gin.Context) {
	h.mutateLine(c, h.cartService.SubtractItem)
}

// RemoveItem drops a product line
// DELETE /cart/items/:product_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.mutateLine(c, h.cartService.RemoveItem)
}

// SetItem sets the quantity of a product line
// PUT /cart/items/:product_id
func (h *CartHandler) SetItem(c *gin.Context) {
	var req tradeapp.SetCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	h.mutateLine(c, func(ctx context.Context, buyerID, productID uuid.UUID) (*tradeapp.CartResponse, error) {
		return h.cartService.SetItem(ctx, buyerID, productID, *req.Quantity)
	})
}

// Clear empties the cart
// DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	buyerID, ok := h.accountID(c)
	if !ok {
		return
	}
	if err := h.cartService.Clear(c.Request.Context(), buyerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CartHandler) mutateLine(c *gin.Context, op func(ctx context.Context, buyerID, productID uuid.UUID) (*tradeapp.CartResponse, error)) {
	buyerID, ok := h.accountID(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "product_id")
	if !ok {
		return
	}
	cart, err := op(c.Request.Context(), buyerID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}
