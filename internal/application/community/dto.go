package community

import (
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/mead/backend/internal/application/catalog"
	"github.com/mead/backend/internal/domain/community"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/samber/lo"
)

// PublicIdentityResponse is the public part of an account
type PublicIdentityResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	PhotoURL string    `json:"photo_url"`
}

// StorefrontResponse is a storefront profile
type StorefrontResponse struct {
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// MessageResponse is one chat line of a storefront
type MessageResponse struct {
	ID          uuid.UUID `json:"id"`
	CommunityID uuid.UUID `json:"community_id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// FeedResponse is the aggregated view of one storefront
type FeedResponse struct {
	Owner        PublicIdentityResponse       `json:"owner"`
	Storefront   StorefrontResponse           `json:"storefront"`
	Products     []catalogapp.ProductResponse `json:"products"`
	Followers    []PublicIdentityResponse     `json:"followers"`
	Following    []PublicIdentityResponse     `json:"following"`
	Messages     []MessageResponse            `json:"messages,omitempty"`
	LastActivity *time.Time                   `json:"last_activity"`
}

// UpdateStorefrontRequest updates the caller's storefront profile.
// A blank name or image falls back to the default.
type UpdateStorefrontRequest struct {
	Name        string `json:"name" binding:"max=100"`
	ImageURL    string `json:"image_url" binding:"max=1000"`
	Description string `json:"description" binding:"max=2000"`
}

// PostMessageRequest posts a chat line to a storefront
type PostMessageRequest struct {
	Content string `json:"content" binding:"required,max=8000"`
}

// FeedListFilter represents paging options for the storefront list
type FeedListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToPublicIdentityResponse converts a public identity
func ToPublicIdentityResponse(p identity.PublicIdentity) PublicIdentityResponse {
	return PublicIdentityResponse{
		ID:       p.ID,
		Name:     p.Name,
		Email:    p.Email,
		PhotoURL: p.PhotoURL,
	}
}

// ToAccountIdentities converts accounts to their public identities
func ToAccountIdentities(accounts []*identity.Account) []PublicIdentityResponse {
	return lo.Map(accounts, func(a *identity.Account, _ int) PublicIdentityResponse {
		return ToPublicIdentityResponse(a.Public())
	})
}

// ToMessageResponse converts a domain Message
func ToMessageResponse(m *community.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		CommunityID: m.CommunityID,
		AuthorID:    m.AuthorID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
}

// ToMessageResponses converts domain Messages
func ToMessageResponses(messages []*community.Message) []MessageResponse {
	return lo.Map(messages, func(m *community.Message, _ int) MessageResponse {
		return ToMessageResponse(m)
	})
}

// ToFeedResponse converts a domain Feed
func ToFeedResponse(f community.Feed) FeedResponse {
	return FeedResponse{
		Owner: ToPublicIdentityResponse(f.Owner),
		Storefront: StorefrontResponse{
			Name:        f.Profile.Name,
			ImageURL:    f.Profile.ImageURL,
			Description: f.Profile.Description,
		},
		Products:     catalogapp.ToProductResponses(f.Products),
		Followers:    lo.Map(f.Followers, func(p identity.PublicIdentity, _ int) PublicIdentityResponse { return ToPublicIdentityResponse(p) }),
		Following:    lo.Map(f.Following, func(p identity.PublicIdentity, _ int) PublicIdentityResponse { return ToPublicIdentityResponse(p) }),
		Messages:     ToMessageResponses(f.Messages),
		LastActivity: f.LastActivity,
	}
}

// ToFeedResponses converts domain Feeds, keeping their order
func ToFeedResponses(feeds []community.Feed) []FeedResponse {
	return lo.Map(feeds, func(f community.Feed, _ int) FeedResponse { return ToFeedResponse(f) })
}
