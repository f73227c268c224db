package notification

import (
	"time"

	"github.com/google/uuid"
)

// InboxEntry marks that a notification was delivered to an account
type InboxEntry struct {
	AccountID      uuid.UUID
	NotificationID uuid.UUID
	ReadAt         *time.Time
	CreatedAt      time.Time
}

// NewInboxEntry creates an unread entry
func NewInboxEntry(accountID, notificationID uuid.UUID) InboxEntry {
	return InboxEntry{
		AccountID:      accountID,
		NotificationID: notificationID,
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

// IsRead reports whether the entry was read
func (e InboxEntry) IsRead() bool {
	return e.ReadAt != nil
}

// InboxItem is an inbox entry with its notification resolved
type InboxItem struct {
	Entry  InboxEntry
	Record *Record
}
