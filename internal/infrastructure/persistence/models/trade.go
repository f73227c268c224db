package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CartLineModel is one row of a buyer's cart. Position keeps insertion order.
type CartLineModel struct {
	AccountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Quantity  int       `gorm:"not null;check:quantity > 0"`
	Position  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartLineModel) TableName() string {
	return "cart_lines"
}

// CartLineModelsFromDomain maps a cart to its rows
func CartLineModelsFromDomain(accountID uuid.UUID, cart trade.Cart) []CartLineModel {
	rows := make([]CartLineModel, len(cart.Lines))
	for i, l := range cart.Lines {
		rows[i] = CartLineModel{
			AccountID: accountID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Position:  i,
		}
	}
	return rows
}

// CartFromModels maps rows, already ordered by position, back to a cart
func CartFromModels(rows []CartLineModel) trade.Cart {
	cart := trade.EmptyCart()
	for _, r := range rows {
		cart.Lines = append(cart.Lines, trade.CartLine{ProductID: r.ProductID, Quantity: r.Quantity})
	}
	return cart
}

// OrderModel is the persistence model for the Order aggregate root
type OrderModel struct {
	AggregateModel
	BuyerID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_orders_buyer"`
	BuyerEmail string           `gorm:"type:varchar(255);not null"`
	Total      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Lines      []OrderLineModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel stores one order line. The product snapshot is kept as JSON
// and has no foreign key to products, so deleting a product leaves it intact.
type OrderLineModel struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Snapshot  []byte          `gorm:"type:jsonb;not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// OrderModelFromDomain creates a persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) (*OrderModel, error) {
	m := &OrderModel{
		BuyerID:    o.BuyerID,
		BuyerEmail: o.BuyerEmail,
		Total:      o.Total,
		Lines:      make([]OrderLineModel, len(o.Lines)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)

	for i, line := range o.Lines {
		snapshot, err := json.Marshal(line.Product)
		if err != nil {
			return nil, fmt.Errorf("encode snapshot of line %d: %w", i, err)
		}
		m.Lines[i] = OrderLineModel{
			OrderID:   o.ID,
			Position:  i,
			ProductID: line.Product.ProductID,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
			Snapshot:  snapshot,
			CreatedAt: o.CreatedAt,
		}
	}
	return m, nil
}

// ToDomain converts the persistence model to a domain Order.
// Lines must be loaded ordered by position.
func (m *OrderModel) ToDomain() (*trade.Order, error) {
	order := &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BuyerID:           m.BuyerID,
		BuyerEmail:        m.BuyerEmail,
		Total:             m.Total,
		Lines:             make([]trade.OrderLine, len(m.Lines)),
	}
	for i, row := range m.Lines {
		var snapshot catalog.ProductSnapshot
		if err := json.Unmarshal(row.Snapshot, &snapshot); err != nil {
			return nil, fmt.Errorf("decode snapshot of order %s line %d: %w", m.ID, row.Position, err)
		}
		order.Lines[i] = trade.OrderLine{
			Quantity:  row.Quantity,
			Product:   snapshot,
			LineTotal: row.LineTotal,
		}
	}
	return order, nil
}
