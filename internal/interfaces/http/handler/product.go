package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/mead/backend/internal/application/catalog"
)

// ProductHandler handles product listing endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	paging         Paging
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, paging Paging) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		paging:         paging,
	}
}

// List returns a page of products, optionally filtered by a search term
// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	filter.PageSize = h.paging.pageSize(filter.PageSize)

	page, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, page)
}

// ListMine returns every listing of the calling seller, newest first
// GET /products/mine
func (h *ProductHandler) ListMine(c *gin.Context) {
	sellerID, ok := h.accountID(c)
	if !ok {
		return
	}
	products, err := h.productService.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Get returns one product
// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.Get(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create lists a new product for the calling seller. Followers of the
// seller's storefront are notified through the event bus.
// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	sellerID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update changes a product owned by the caller
// PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	actorID, ok := h.accountID(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), actorID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product owned by the caller
// DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	actorID, ok := h.accountID(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), actorID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
