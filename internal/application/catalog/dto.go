package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to list a new product
type CreateProductRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"image_url" binding:"omitempty,max=1000"`
	Size        string          `json:"size" binding:"max=50"`
	Color       string          `json:"color" binding:"max=50"`
	Brand       string          `json:"brand" binding:"max=100"`
	Delivery    string          `json:"delivery" binding:"max=200"`
	Stock       int             `json:"stock" binding:"min=0"`
}

// UpdateProductRequest represents a partial update of a listing.
// Version, when set, must match the stored version.
type UpdateProductRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url" binding:"omitempty,max=1000"`
	Size        *string          `json:"size" binding:"omitempty,max=50"`
	Color       *string          `json:"color" binding:"omitempty,max=50"`
	Brand       *string          `json:"brand" binding:"omitempty,max=100"`
	Delivery    *string          `json:"delivery" binding:"omitempty,max=200"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	Version     *int             `json:"version"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	ImageURL    string          `json:"image_url"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Brand       string          `json:"brand"`
	Delivery    string          `json:"delivery"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at updated_at title price brand stock"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Currency:    catalog.Currency,
		ImageURL:    p.ImageURL,
		Size:        p.Size,
		Color:       p.Color,
		Brand:       p.Brand,
		Delivery:    p.Delivery,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToProductResponses converts a slice of domain Products to responses
func ToProductResponses(products []*catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

func (r CreateProductRequest) details() catalog.ProductDetails {
	return catalog.ProductDetails{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Size:        r.Size,
		Color:       r.Color,
		Brand:       r.Brand,
		Delivery:    r.Delivery,
		Stock:       r.Stock,
	}
}

// applyTo overlays the set fields of the request on the current details
func (r UpdateProductRequest) applyTo(d catalog.ProductDetails) catalog.ProductDetails {
	if r.Title != nil {
		d.Title = *r.Title
	}
	if r.Description != nil {
		d.Description = *r.Description
	}
	if r.Price != nil {
		d.Price = *r.Price
	}
	if r.ImageURL != nil {
		d.ImageURL = *r.ImageURL
	}
	if r.Size != nil {
		d.Size = *r.Size
	}
	if r.Color != nil {
		d.Color = *r.Color
	}
	if r.Brand != nil {
		d.Brand = *r.Brand
	}
	if r.Delivery != nil {
		d.Delivery = *r.Delivery
	}
	if r.Stock != nil {
		d.Stock = *r.Stock
	}
	return d
}
