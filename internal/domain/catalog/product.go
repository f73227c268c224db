package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Currency is the single currency prices are expressed in
const Currency = "XAF"

// ProductDetails holds the seller-editable fields of a listing
type ProductDetails struct {
	Title       string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Size        string
	Color       string
	Brand       string
	Delivery    string
	Stock       int
}

// Product is a listing owned by a seller account.
// It is the aggregate root for catalog operations.
type Product struct {
	shared.BaseAggregateRoot
	SellerID    uuid.UUID
	Title       string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Size        string
	Color       string
	Brand       string
	Delivery    string
	Stock       int // informational, never decremented by orders
}

// NewProduct creates a new listing for the given seller
func NewProduct(sellerID uuid.UUID, details ProductDetails) (*Product, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	details, err := normalizeDetails(details)
	if err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
	}
	product.apply(details)
	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update replaces the editable fields of the listing
func (p *Product) Update(details ProductDetails) error {
	details, err := normalizeDetails(details)
	if err != nil {
		return err
	}

	oldPrice := p.Price
	p.apply(details)
	p.Touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
	if !oldPrice.Equal(p.Price) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))
	}

	return nil
}

// SetPrice changes the listing price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	oldPrice := p.Price
	p.Price = price
	p.Touch()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))
	return nil
}

// MarkDeleted records the deletion event; the repository removes the row
func (p *Product) MarkDeleted() {
	p.AddDomainEvent(NewProductDeletedEvent(p))
}

// IsOwnedBy reports whether the account is the seller of this product
func (p *Product) IsOwnedBy(accountID uuid.UUID) bool {
	return p.SellerID == accountID
}

// Details returns the editable fields of the listing
func (p *Product) Details() ProductDetails {
	return ProductDetails{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Size:        p.Size,
		Color:       p.Color,
		Brand:       p.Brand,
		Delivery:    p.Delivery,
		Stock:       p.Stock,
	}
}

func (p *Product) apply(d ProductDetails) {
	p.Title = d.Title
	p.Description = d.Description
	p.Price = d.Price
	p.ImageURL = d.ImageURL
	p.Size = d.Size
	p.Color = d.Color
	p.Brand = d.Brand
	p.Delivery = d.Delivery
	p.Stock = d.Stock
}

// validatePrice accepts non-negative amounts with at most two decimal places,
// the precision of the stored price column
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if !price.Equal(price.Truncate(2)) {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot have more than two decimal places")
	}
	return nil
}

func normalizeDetails(d ProductDetails) (ProductDetails, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	d.Size = strings.TrimSpace(d.Size)
	d.Color = strings.TrimSpace(d.Color)
	d.Brand = strings.TrimSpace(d.Brand)
	d.Delivery = strings.TrimSpace(d.Delivery)

	if d.Title == "" {
		return d, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if utf8.RuneCountInString(d.Title) > 200 {
		return d, shared.NewDomainError("INVALID_TITLE", "Product title cannot exceed 200 characters")
	}
	if err := validatePrice(d.Price); err != nil {
		return d, err
	}
	if d.Stock < 0 {
		return d, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	return d, nil
}
