package identity

import (
	"github.com/mead/backend/internal/domain/shared"
)

// AggregateTypeAccount is the aggregate type for accounts
const AggregateTypeAccount = "Account"

const (
	EventTypeAccountCreated    = "AccountCreated"
	EventTypeStorefrontUpdated = "StorefrontUpdated"
)

// AccountCreatedEvent is published when an account is created
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, AggregateTypeAccount, a.ID),
		Email:           a.Email,
		Role:            a.Role,
	}
}

// StorefrontUpdatedEvent is published when a storefront profile changes
type StorefrontUpdatedEvent struct {
	shared.BaseDomainEvent
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// NewStorefrontUpdatedEvent creates a new StorefrontUpdatedEvent
func NewStorefrontUpdatedEvent(a *Account) *StorefrontUpdatedEvent {
	return &StorefrontUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStorefrontUpdated, AggregateTypeAccount, a.ID),
		Name:            a.Storefront.Name,
		ImageURL:        a.Storefront.ImageURL,
		Description:     a.Storefront.Description,
	}
}
