// Package messaging hands delivered notifications to real-time subscribers.
package messaging

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/notification"
)

// RoutingKeyPrefix prefixes the routing key; the lowercased kind completes it
const RoutingKeyPrefix = "notification."

// Envelope is the wire form of a delivered notification
type Envelope struct {
	NotificationID uuid.UUID         `json:"notification_id"`
	Kind           notification.Kind `json:"kind"`
	EmitterID      uuid.UUID         `json:"emitter_id"`
	Recipients     []uuid.UUID       `json:"recipients"`
	Payload        json.RawMessage   `json:"payload"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewEnvelope builds the envelope for a record and its recipients
func NewEnvelope(record *notification.Record, recipients []uuid.UUID) (Envelope, error) {
	payload, err := notification.EncodePayload(record.Payload)
	if err != nil {
		return Envelope{}, err
	}
	if recipients == nil {
		recipients = []uuid.UUID{}
	}
	return Envelope{
		NotificationID: record.ID,
		Kind:           record.Kind,
		EmitterID:      record.EmitterID,
		Recipients:     recipients,
		Payload:        payload,
		CreatedAt:      record.CreatedAt,
	}, nil
}

// RoutingKey returns e.g. "notification.product"
func RoutingKey(kind notification.Kind) string {
	return RoutingKeyPrefix + strings.ToLower(string(kind))
}
