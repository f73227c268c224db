package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/shared"
)

// Kind tags the payload variant of a notification
type Kind string

const (
	KindProduct Kind = "Product"
)

// Payload is the typed subject of a notification. Each Kind has exactly one payload type.
type Payload interface {
	Kind() Kind
}

// ProductPayload announces a new listing
type ProductPayload struct {
	Product catalog.ProductSnapshot `json:"product"`
}

// Kind implements Payload
func (ProductPayload) Kind() Kind { return KindProduct }

// Record is an append-only notification. Inbox entries reference it by ID.
type Record struct {
	ID        uuid.UUID
	Kind      Kind
	EmitterID uuid.UUID
	Payload   Payload
	CreatedAt time.Time
}

// NewRecord creates a record for the given payload
func NewRecord(emitterID uuid.UUID, payload Payload) (*Record, error) {
	if emitterID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Notification emitter is required")
	}
	if payload == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Notification payload is required")
	}
	return &Record{
		ID:        uuid.New(),
		Kind:      payload.Kind(),
		EmitterID: emitterID,
		Payload:   payload,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}, nil
}

// NewProductRecord creates the notification announcing a new listing by its seller
func NewProductRecord(product ProductPayload) (*Record, error) {
	return NewRecord(product.Product.SellerID, product)
}

// EncodePayload serializes a payload for storage
func EncodePayload(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

// DecodePayload restores the typed payload for a kind
func DecodePayload(kind Kind, data []byte) (Payload, error) {
	switch kind {
	case KindProduct:
		var p ProductPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown notification kind %q", kind)
	}
}
