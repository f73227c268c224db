package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/identity"
)

// AccountResponse is the account as seen by its owner
type AccountResponse struct {
	ID         uuid.UUID          `json:"id"`
	Email      string             `json:"email"`
	Name       string             `json:"name"`
	Phone      string             `json:"phone,omitempty"`
	PhotoURL   string             `json:"photo_url,omitempty"`
	Role       identity.Role      `json:"role"`
	Storefront StorefrontResponse `json:"storefront"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// StorefrontResponse is the storefront profile
type StorefrontResponse struct {
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// EnsureAdministratorInput describes the seeded administrator
type EnsureAdministratorInput struct {
	Email    string
	Name     string
	Password string
}

// ToAccountResponse converts a domain account
func ToAccountResponse(a *identity.Account) AccountResponse {
	return AccountResponse{
		ID:       a.ID,
		Email:    a.Email,
		Name:     a.Name,
		Phone:    a.Phone,
		PhotoURL: a.PhotoURL,
		Role:     a.Role,
		Storefront: StorefrontResponse{
			Name:        a.Storefront.Name,
			ImageURL:    a.Storefront.ImageURL,
			Description: a.Storefront.Description,
		},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
