package community

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedNamed(name string, last *time.Time) Feed {
	return Feed{
		Owner:        identity.PublicIdentity{ID: uuid.New(), Name: name},
		Profile:      identity.StorefrontProfile{Name: name},
		LastActivity: last,
	}
}

func TestSortDigest(t *testing.T) {
	t1 := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("orders by last message descending with silent storefronts last", func(t *testing.T) {
		feeds := []Feed{
			feedNamed("silent", nil),
			feedNamed("older", &t2),
			feedNamed("newer", &t1),
		}
		SortDigest(feeds)

		require.Len(t, feeds, 3)
		assert.Equal(t, "newer", feeds[0].Profile.Name)
		assert.Equal(t, "older", feeds[1].Profile.Name)
		assert.Equal(t, "silent", feeds[2].Profile.Name)
	})

	t.Run("breaks ties by name", func(t *testing.T) {
		feeds := []Feed{
			feedNamed("zeta", nil),
			feedNamed("alpha", nil),
			feedNamed("mid-b", &t1),
			feedNamed("mid-a", &t1),
		}
		SortDigest(feeds)

		names := []string{feeds[0].Profile.Name, feeds[1].Profile.Name, feeds[2].Profile.Name, feeds[3].Profile.Name}
		assert.Equal(t, []string{"mid-a", "mid-b", "alpha", "zeta"}, names)
	})

	t.Run("empty and all-silent digests do not fail", func(t *testing.T) {
		SortDigest(nil)
		feeds := []Feed{feedNamed("b", nil), feedNamed("a", nil)}
		SortDigest(feeds)
		assert.Equal(t, "a", feeds[0].Profile.Name)
	})
}

func TestNewFollowEdge(t *testing.T) {
	follower := uuid.New()
	store := uuid.New()

	edge, err := NewFollowEdge(follower, store)
	require.NoError(t, err)
	assert.Equal(t, follower, edge.FollowerID)
	assert.Equal(t, store, edge.StorefrontID)

	_, err = NewFollowEdge(follower, follower)
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, err = NewFollowEdge(uuid.Nil, store)
	require.Error(t, err)
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(uuid.New(), uuid.New(), "  hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)

	_, err = NewMessage(uuid.New(), uuid.New(), "   ")
	require.Error(t, err)
}
