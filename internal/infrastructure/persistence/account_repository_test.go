package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAccountRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	alice := createTestAccount(t, db, "alice@example.com", "Alice", identity.RoleSeller)
	bob := createTestAccount(t, db, "bob@example.com", "Bob", identity.RoleClassic)

	t.Run("FindByID returns stored account with storefront", func(t *testing.T) {
		found, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", found.Email)
		assert.Equal(t, identity.RoleSeller, found.Role)
		assert.Equal(t, identity.DefaultStorefrontName, found.Storefront.Name)
	})

	t.Run("FindByID returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindByEmail is case insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  BOB@example.com ")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, found.ID)
	})

	t.Run("FindByIDs skips unknown ids", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []uuid.UUID{bob.ID, uuid.New(), alice.ID})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "Alice", found[0].Name)
		assert.Equal(t, "Bob", found[1].Name)
	})

	t.Run("FindByIDs with no ids returns empty slice", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("ExistsByEmail", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Save persists storefront update", func(t *testing.T) {
		profile, err := identity.NewStorefrontProfile("Alice Boutique", "/alice.png", "Handmade")
		require.NoError(t, err)
		alice.UpdateStorefront(profile)
		require.NoError(t, repo.Save(ctx, alice))

		found, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice Boutique", found.Storefront.Name)
		assert.Equal(t, "Handmade", found.Storefront.Description)
	})

	t.Run("FindAll searches storefront names and paginates", func(t *testing.T) {
		found, total, err := repo.FindAll(ctx, shared.Filter{Search: "boutique"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, found, 1)
		assert.Equal(t, alice.ID, found[0].ID)

		found, total, err = repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 1, OrderBy: "name", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, found, 1)
		assert.Equal(t, "Bob", found[0].Name)
	})
}
