package models

import (
	"github.com/mead/backend/internal/domain/identity"
)

// AccountModel is the persistence model for the Account aggregate root.
// Cart lines, follow edges and inbox entries live in their own tables.
type AccountModel struct {
	AggregateModel
	Email                 string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name                  string `gorm:"type:varchar(200);not null"`
	Phone                 string `gorm:"type:varchar(50)"`
	PhotoURL              string `gorm:"type:varchar(500)"`
	PasswordHash          string `gorm:"type:varchar(255)"`
	Role                  string `gorm:"type:varchar(20);not null;default:'classic'"`
	StorefrontName        string `gorm:"type:varchar(100);not null"`
	StorefrontImageURL    string `gorm:"type:varchar(500);not null"`
	StorefrontDescription string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *identity.Account {
	return &identity.Account{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		Name:              m.Name,
		Phone:             m.Phone,
		PhotoURL:          m.PhotoURL,
		PasswordHash:      m.PasswordHash,
		Role:              identity.Role(m.Role),
		Storefront: identity.StorefrontProfile{
			Name:        m.StorefrontName,
			ImageURL:    m.StorefrontImageURL,
			Description: m.StorefrontDescription,
		},
	}
}

// AccountModelFromDomain creates a persistence model from a domain Account
func AccountModelFromDomain(a *identity.Account) *AccountModel {
	m := &AccountModel{
		Email:                 a.Email,
		Name:                  a.Name,
		Phone:                 a.Phone,
		PhotoURL:              a.PhotoURL,
		PasswordHash:          a.PasswordHash,
		Role:                  string(a.Role),
		StorefrontName:        a.Storefront.Name,
		StorefrontImageURL:    a.Storefront.ImageURL,
		StorefrontDescription: a.Storefront.Description,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}
