package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// FindByID returns shared.ErrNotFound when the account does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByIDs returns the accounts that exist among ids, in no particular order
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Account, error)

	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindAll returns accounts ordered by creation time with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]*Account, int64, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates the account profile
	Save(ctx context.Context, account *Account) error
}
