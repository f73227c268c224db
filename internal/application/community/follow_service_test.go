package community

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/community"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccount(t *testing.T, email, name string, role identity.Role) *identity.Account {
	t.Helper()
	a, err := identity.NewAccount(email, name, role)
	require.NoError(t, err)
	return a
}

func TestFollowService_Follow(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	accounts := memoryAccounts{store}
	svc := NewFollowService(accounts, memoryFollows{store}, nil)

	buyer := newAccount(t, "buyer@example.com", "Buyer", identity.RoleClassic)
	seller := newAccount(t, "seller@example.com", "Seller", identity.RoleSeller)
	require.NoError(t, accounts.Save(ctx, buyer))
	require.NoError(t, accounts.Save(ctx, seller))

	t.Run("following twice is the same as once", func(t *testing.T) {
		require.NoError(t, svc.Follow(ctx, buyer.ID, seller.ID))
		require.NoError(t, svc.Follow(ctx, buyer.ID, seller.ID))

		followers, err := svc.FollowersOf(ctx, seller.ID)
		require.NoError(t, err)
		require.Len(t, followers, 1)
		assert.Equal(t, buyer.ID, followers[0].ID)
	})

	t.Run("edges are directed", func(t *testing.T) {
		following, err := svc.IsFollowing(ctx, seller.ID, buyer.ID)
		require.NoError(t, err)
		assert.False(t, following)

		sellerFollows, err := svc.FollowingOf(ctx, seller.ID)
		require.NoError(t, err)
		assert.Empty(t, sellerFollows)
	})

	t.Run("self follow is rejected", func(t *testing.T) {
		err := svc.Follow(ctx, seller.ID, seller.ID)
		assert.ErrorIs(t, err, community.ErrSelfFollow)
	})

	t.Run("unknown storefront is not found", func(t *testing.T) {
		err := svc.Follow(ctx, buyer.ID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unfollow is idempotent", func(t *testing.T) {
		require.NoError(t, svc.Unfollow(ctx, buyer.ID, seller.ID))
		require.NoError(t, svc.Unfollow(ctx, buyer.ID, seller.ID))

		following, err := svc.IsFollowing(ctx, buyer.ID, seller.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})
}

func TestFollowService_FollowersOfUsesReverseIndex(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	accounts := memoryAccounts{store}
	follows := new(MockFollowRepository)
	svc := NewFollowService(accounts, follows, nil)

	seller := newAccount(t, "seller@example.com", "Seller", identity.RoleSeller)
	require.NoError(t, accounts.Save(ctx, seller))

	follows.On("FollowersOf", ctx, seller.ID).Return([]uuid.UUID{}, nil)

	followers, err := svc.FollowersOf(ctx, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
	follows.AssertExpectations(t)
	follows.AssertNotCalled(t, "FollowingOf", mock.Anything, mock.Anything)
}
