package models

import (
	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root
type ProductModel struct {
	AggregateModel
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_products_seller"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	Size        string          `gorm:"type:varchar(50)"`
	Color       string          `gorm:"type:varchar(50)"`
	Brand       string          `gorm:"type:varchar(100)"`
	Delivery    string          `gorm:"type:varchar(200)"`
	Stock       int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SellerID:          m.SellerID,
		Title:             m.Title,
		Description:       m.Description,
		Price:             m.Price,
		ImageURL:          m.ImageURL,
		Size:              m.Size,
		Color:             m.Color,
		Brand:             m.Brand,
		Delivery:          m.Delivery,
		Stock:             m.Stock,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		SellerID:    p.SellerID,
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
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
