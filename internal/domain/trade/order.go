package trade

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrEmptyCart is returned when placing an order from a cart without lines
var ErrEmptyCart = shared.NewDomainError("EMPTY_CART", "Cannot place an order from an empty cart")

// OrderLine is one line of a placed order. The snapshot is captured at
// placement time and never follows later catalog changes.
type OrderLine struct {
	Quantity  int
	Product   catalog.ProductSnapshot
	LineTotal decimal.Decimal
}

// NewOrderLine snapshots the product and computes the line total
func NewOrderLine(product *catalog.Product, quantity int) (OrderLine, error) {
	if quantity <= 0 {
		return OrderLine{}, shared.NewDomainError(shared.CodeInvalidQuantity, "Order line quantity must be positive")
	}
	snapshot, err := catalog.SnapshotOf(product)
	if err != nil {
		return OrderLine{}, err
	}
	return OrderLine{
		Quantity:  quantity,
		Product:   snapshot,
		LineTotal: snapshot.LineTotal(quantity),
	}, nil
}

// Order is an immutable record of a purchase.
// It is created once at placement and only ever removed by an administrator.
type Order struct {
	shared.BaseAggregateRoot
	BuyerID    uuid.UUID
	BuyerEmail string
	Lines      []OrderLine
	Total      decimal.Decimal
}

// NewOrder creates an order from already snapshotted lines
func NewOrder(buyerID uuid.UUID, buyerEmail string, lines []OrderLine) (*Order, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	buyerEmail = strings.TrimSpace(buyerEmail)
	if buyerEmail == "" {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer email cannot be empty")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	owned := make([]OrderLine, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Order line quantity must be positive")
		}
		owned[i] = line
		total = total.Add(line.LineTotal)
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		BuyerEmail:        buyerEmail,
		Lines:             owned,
		Total:             total,
	}
	order.AddDomainEvent(NewOrderPlacedEvent(order))
	return order, nil
}

// ItemCount returns the number of units across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// IsPlacedBy reports whether the account placed this order
func (o *Order) IsPlacedBy(accountID uuid.UUID) bool {
	return o.BuyerID == accountID
}
