package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SetCartItemRequest sets the quantity of one cart line. Zero or less removes it.
type SetCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartLineResponse is one cart line with the product resolved when it still exists
type CartLineResponse struct {
	ProductID uuid.UUID                `json:"product_id"`
	Quantity  int                      `json:"quantity"`
	Available bool                     `json:"available"`
	Product   *catalog.ProductSnapshot `json:"product,omitempty"`
	LineTotal *decimal.Decimal         `json:"line_total,omitempty"`
}

// CartResponse represents the buyer's cart in API responses
type CartResponse struct {
	Lines     []CartLineResponse `json:"lines"`
	ItemCount int                `json:"item_count"`
	Total     decimal.Decimal    `json:"total"`
	Currency  string             `json:"currency"`
}

// CheckoutLineResponse is a fully priced line of the checkout preview
type CheckoutLineResponse struct {
	Quantity  int                     `json:"quantity"`
	Product   catalog.ProductSnapshot `json:"product"`
	LineTotal decimal.Decimal         `json:"line_total"`
}

// CheckoutResponse previews the order that placing now would create
type CheckoutResponse struct {
	BuyerID   uuid.UUID              `json:"buyer_id"`
	Lines     []CheckoutLineResponse `json:"lines"`
	ItemCount int                    `json:"item_count"`
	Total     decimal.Decimal        `json:"total"`
	Currency  string                 `json:"currency"`
}

// OrderLineResponse is one line of a placed order
type OrderLineResponse struct {
	Quantity  int                     `json:"quantity"`
	Product   catalog.ProductSnapshot `json:"product"`
	LineTotal decimal.Decimal         `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	BuyerID    uuid.UUID           `json:"buyer_id"`
	BuyerEmail string              `json:"buyer_email"`
	Lines      []OrderLineResponse `json:"lines"`
	ItemCount  int                 `json:"item_count"`
	Total      decimal.Decimal     `json:"total"`
	Currency   string              `json:"currency"`
	CreatedAt  time.Time           `json:"created_at"`
}

// BuyerSummary identifies the buyer of an order in the admin listing
type BuyerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// AdminOrderResponse is an order with its buyer resolved. Buyer is nil when
// the account no longer exists; BuyerEmail still holds the address used at
// placement.
type AdminOrderResponse struct {
	OrderResponse
	Buyer *BuyerSummary `json:"buyer"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at total"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineResponse{
			Quantity:  l.Quantity,
			Product:   l.Product,
			LineTotal: l.LineTotal,
		}
	}
	return OrderResponse{
		ID:         o.ID,
		BuyerID:    o.BuyerID,
		BuyerEmail: o.BuyerEmail,
		Lines:      lines,
		ItemCount:  o.ItemCount(),
		Total:      o.Total,
		Currency:   catalog.Currency,
		CreatedAt:  o.CreatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []*trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}
	return responses
}
