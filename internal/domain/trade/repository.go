package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
)

// CartRepository persists buyer carts. A buyer without stored lines has an empty cart.
type CartRepository interface {
	// Load returns the buyer's cart; never ErrNotFound
	Load(ctx context.Context, buyerID uuid.UUID) (Cart, error)

	// Save replaces the buyer's stored cart with cart. Concurrent saves are last-write-wins.
	Save(ctx context.Context, buyerID uuid.UUID, cart Cart) error

	// Clear removes every line; clearing an empty cart succeeds
	Clear(ctx context.Context, buyerID uuid.UUID) error
}

// OrderRepository persists orders
type OrderRepository interface {
	// FindByID returns shared.ErrNotFound when the order does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByBuyer returns the buyer's orders, most recent first, with the total count
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]*Order, int64, error)

	// FindAll returns every order, most recent first, with the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, int64, error)

	// Create inserts a new order with its lines. Orders are never updated.
	Create(ctx context.Context, order *Order) error

	Delete(ctx context.Context, id uuid.UUID) error
}
