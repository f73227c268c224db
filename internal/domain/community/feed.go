package community

import (
	"slices"
	"strings"
	"time"

	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/identity"
)

// Feed is the aggregated view of one storefront
type Feed struct {
	Owner     identity.PublicIdentity
	Profile   identity.StorefrontProfile
	Products  []*catalog.Product // most recent first
	Followers []identity.PublicIdentity
	Following []identity.PublicIdentity

	// Messages and LastActivity are only filled for digests.
	// LastActivity is nil when the storefront has no messages.
	Messages     []*Message
	LastActivity *time.Time
}

// HasActivity reports whether the storefront has at least one message
func (f Feed) HasActivity() bool {
	return f.LastActivity != nil
}

// SortDigest orders feeds for a digest:
// feeds with messages come first by last message time descending, feeds without
// messages come after them, and ties are broken by storefront name then owner ID.
func SortDigest(feeds []Feed) {
	slices.SortStableFunc(feeds, CompareDigest)
}

// CompareDigest is the total order used by SortDigest
func CompareDigest(a, b Feed) int {
	switch {
	case a.HasActivity() && !b.HasActivity():
		return -1
	case !a.HasActivity() && b.HasActivity():
		return 1
	case a.HasActivity() && b.HasActivity():
		if c := b.LastActivity.Compare(*a.LastActivity); c != 0 {
			return c
		}
	}
	if c := strings.Compare(a.Profile.Name, b.Profile.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Owner.ID.String(), b.Owner.ID.String())
}
