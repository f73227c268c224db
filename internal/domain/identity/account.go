package identity

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Account is a marketplace identity. It owns a cart, an inbox, a follow-set
// and a storefront profile; those are persisted by their own repositories and
// keyed by the account ID.
type Account struct {
	shared.BaseAggregateRoot
	Email        string
	Name         string
	Phone        string
	PhotoURL     string
	PasswordHash string
	Role         Role
	Storefront   StorefrontProfile
}

// NewAccount creates an account with the default storefront profile
func NewAccount(email, name string, role Role) (*Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if role == "" {
		role = RoleClassic
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}

	account := &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		Role:              role,
		Storefront:        DefaultStorefrontProfile(),
	}
	account.AddDomainEvent(NewAccountCreatedEvent(account))
	return account, nil
}

// SetPassword hashes and stores a new password
func (a *Account) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	a.PasswordHash = string(hash)
	a.Touch()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (a *Account) VerifyPassword(password string) bool {
	if a.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// UpdateStorefront replaces the storefront profile
func (a *Account) UpdateStorefront(profile StorefrontProfile) {
	a.Storefront = profile
	a.Touch()
	a.AddDomainEvent(NewStorefrontUpdatedEvent(a))
}

// ChangeRole assigns a new role
func (a *Account) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}
	a.Role = role
	a.Touch()
	return nil
}

// CanSell reports whether this account has seller or administrator capability
func (a *Account) CanSell() bool {
	return a.Role.CanSell()
}

// PublicIdentity is the part of an account shown on storefront feeds
type PublicIdentity struct {
	ID       uuid.UUID
	Name     string
	Email    string
	PhotoURL string
}

// Public returns the publicly visible identity of the account
func (a *Account) Public() PublicIdentity {
	return PublicIdentity{
		ID:       a.ID,
		Name:     a.Name,
		Email:    a.Email,
		PhotoURL: a.PhotoURL,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}
