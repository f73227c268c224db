package identity

import (
	"strings"
	"unicode/utf8"

	"github.com/mead/backend/internal/domain/shared"
)

// Storefront profile defaults. Every account has a storefront even before listing anything.
const (
	DefaultStorefrontName     = "My Community"
	DefaultStorefrontImageURL = "/"

	maxStorefrontNameLength        = 100
	maxStorefrontDescriptionLength = 2000
)

// StorefrontProfile is the seller-facing profile of an account
type StorefrontProfile struct {
	Name        string
	ImageURL    string
	Description string
}

// DefaultStorefrontProfile returns the profile assigned to new accounts
func DefaultStorefrontProfile() StorefrontProfile {
	return StorefrontProfile{
		Name:     DefaultStorefrontName,
		ImageURL: DefaultStorefrontImageURL,
	}
}

// NewStorefrontProfile validates and normalizes a profile.
// Blank name and image fall back to the defaults.
func NewStorefrontProfile(name, imageURL, description string) (StorefrontProfile, error) {
	name = strings.TrimSpace(name)
	imageURL = strings.TrimSpace(imageURL)
	description = strings.TrimSpace(description)

	if name == "" {
		name = DefaultStorefrontName
	}
	if imageURL == "" {
		imageURL = DefaultStorefrontImageURL
	}
	if utf8.RuneCountInString(name) > maxStorefrontNameLength {
		return StorefrontProfile{}, shared.NewDomainError("INVALID_STOREFRONT_NAME", "Storefront name cannot exceed 100 characters")
	}
	if utf8.RuneCountInString(description) > maxStorefrontDescriptionLength {
		return StorefrontProfile{}, shared.NewDomainError("INVALID_STOREFRONT_DESCRIPTION", "Storefront description cannot exceed 2000 characters")
	}

	return StorefrontProfile{
		Name:        name,
		ImageURL:    imageURL,
		Description: description,
	}, nil
}
