package community

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
)

// ErrSelfFollow is returned when an account tries to follow its own storefront
var ErrSelfFollow = shared.NewDomainError("SELF_FOLLOW", "An account cannot follow its own storefront")

// FollowEdge is the directed relation follower -> storefront.
// A follows B says nothing about B following A.
type FollowEdge struct {
	FollowerID   uuid.UUID
	StorefrontID uuid.UUID
	CreatedAt    time.Time
}

// NewFollowEdge validates and creates an edge
func NewFollowEdge(followerID, storefrontID uuid.UUID) (FollowEdge, error) {
	if followerID == uuid.Nil || storefrontID == uuid.Nil {
		return FollowEdge{}, shared.NewDomainError(shared.CodeInvalidInput, "Follower and storefront IDs are required")
	}
	if followerID == storefrontID {
		return FollowEdge{}, ErrSelfFollow
	}
	return FollowEdge{
		FollowerID:   followerID,
		StorefrontID: storefrontID,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}, nil
}

// FollowRepository stores follow edges. Implementations keep a reverse index
// (storefront -> followers) so FollowersOf never scans all accounts.
type FollowRepository interface {
	// Add stores the edge; adding an existing edge is a no-op and reports false
	Add(ctx context.Context, edge FollowEdge) (bool, error)

	// Remove deletes the edge; removing a missing edge is a no-op and reports false
	Remove(ctx context.Context, followerID, storefrontID uuid.UUID) (bool, error)

	Exists(ctx context.Context, followerID, storefrontID uuid.UUID) (bool, error)

	// FollowersOf returns the accounts following storefrontID, via the reverse index
	FollowersOf(ctx context.Context, storefrontID uuid.UUID) ([]uuid.UUID, error)

	// FollowingOf returns the storefronts followerID follows
	FollowingOf(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}
