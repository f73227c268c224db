package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID returns shared.ErrNotFound when the product does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs returns the products that exist among ids; missing ids are simply absent
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// FindBySeller returns the seller's products, most recent first
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Product, error)

	// FindAll returns products matching the filter with the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]*Product, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product only if the stored version equals
	// expectedVersion, returning a CONCURRENT_MODIFICATION error otherwise
	SaveWithLock(ctx context.Context, product *Product, expectedVersion int) error

	// Delete removes a product. Order snapshots are unaffected.
	Delete(ctx context.Context, id uuid.UUID) error
}
