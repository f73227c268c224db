package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductSnapshot is an immutable copy of the display and pricing fields of a
// product at a point in time. It holds only value fields, so copies never
// share state with the product or with each other.
type ProductSnapshot struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	ImageURL    string          `json:"image_url,omitempty"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Delivery    string          `json:"delivery,omitempty"`
	CapturedAt  time.Time       `json:"captured_at"`
}

// Snapshot copies the product's display and pricing fields.
// Version, stock and timestamps other than the capture time are catalog bookkeeping and are left out.
func Snapshot(p *Product) ProductSnapshot {
	return ProductSnapshot{
		ProductID:   p.ID,
		SellerID:    p.SellerID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Currency:    Currency,
		ImageURL:    p.ImageURL,
		Size:        p.Size,
		Color:       p.Color,
		Brand:       p.Brand,
		Delivery:    p.Delivery,
		CapturedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

// SnapshotOf is Snapshot with a nil check for callers holding a possibly missing product
func SnapshotOf(p *Product) (ProductSnapshot, error) {
	if p == nil {
		return ProductSnapshot{}, shared.NewDomainError(shared.CodeInvalidInput, "Cannot snapshot a missing product")
	}
	return Snapshot(p), nil
}

// LineTotal returns price multiplied by quantity
func (s ProductSnapshot) LineTotal(quantity int) decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(quantity)))
}
