package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
)

// RecordRepository stores notification records. Records are never updated.
type RecordRepository interface {
	Create(ctx context.Context, record *Record) error

	// FindByID returns shared.ErrNotFound when the record does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)

	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Record, error)
}

// InboxRepository stores per-account inbox entries
type InboxRepository interface {
	// Append inserts the entry unless one already exists for the same
	// (account, notification) pair. It reports whether a row was inserted.
	Append(ctx context.Context, entry InboxEntry) (bool, error)

	// ListByAccount returns entries newest first with the total count
	ListByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]InboxEntry, int64, error)

	// MarkRead sets read_at if it is not set yet. Returns shared.ErrNotFound if no entry exists.
	MarkRead(ctx context.Context, accountID, notificationID uuid.UUID) (*InboxEntry, error)

	CountUnread(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// Deliverer hands delivered notifications to the real-time pub/sub collaborator
type Deliverer interface {
	Deliver(ctx context.Context, record *Record, recipients []uuid.UUID) error
}
