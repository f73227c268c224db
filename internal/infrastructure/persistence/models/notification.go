package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/notification"
)

// NotificationModel stores a notification record with its kind-tagged payload
type NotificationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind      string    `gorm:"type:varchar(30);not null"`
	EmitterID uuid.UUID `gorm:"type:uuid;not null;index"`
	Payload   []byte    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// NotificationModelFromDomain creates a persistence model from a domain record
func NotificationModelFromDomain(r *notification.Record) (*NotificationModel, error) {
	payload, err := notification.EncodePayload(r.Payload)
	if err != nil {
		return nil, err
	}
	return &NotificationModel{
		ID:        r.ID,
		Kind:      string(r.Kind),
		EmitterID: r.EmitterID,
		Payload:   payload,
		CreatedAt: r.CreatedAt,
	}, nil
}

// ToDomain converts the persistence model to a domain record
func (m *NotificationModel) ToDomain() (*notification.Record, error) {
	kind := notification.Kind(m.Kind)
	payload, err := notification.DecodePayload(kind, m.Payload)
	if err != nil {
		return nil, err
	}
	return &notification.Record{
		ID:        m.ID,
		Kind:      kind,
		EmitterID: m.EmitterID,
		Payload:   payload,
		CreatedAt: m.CreatedAt,
	}, nil
}

// InboxEntryModel stores one inbox entry; the composite key makes appends idempotent
type InboxEntryModel struct {
	AccountID      uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_inbox_account_created,priority:1"`
	NotificationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReadAt         *time.Time
	CreatedAt      time.Time `gorm:"not null;index:idx_inbox_account_created,priority:2"`
}

// TableName returns the table name for GORM
func (InboxEntryModel) TableName() string {
	return "inbox_entries"
}

// InboxEntryModelFromDomain creates a persistence model from a domain entry
func InboxEntryModelFromDomain(e notification.InboxEntry) *InboxEntryModel {
	return &InboxEntryModel{
		AccountID:      e.AccountID,
		NotificationID: e.NotificationID,
		ReadAt:         e.ReadAt,
		CreatedAt:      e.CreatedAt,
	}
}

// ToDomain converts the persistence model to a domain entry
func (m *InboxEntryModel) ToDomain() notification.InboxEntry {
	return notification.InboxEntry{
		AccountID:      m.AccountID,
		NotificationID: m.NotificationID,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}
