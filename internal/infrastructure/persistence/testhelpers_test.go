package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with every table migrated.
// A single connection keeps the in-memory database shared across transactions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createTestAccount(t *testing.T, db *gorm.DB, email, name string, role identity.Role) *identity.Account {
	t.Helper()
	account, err := identity.NewAccount(email, name, role)
	require.NoError(t, err)
	require.NoError(t, db.Create(models.AccountModelFromDomain(account)).Error)
	return account
}

func createTestProduct(t *testing.T, db *gorm.DB, sellerID uuid.UUID, title string, price int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sellerID, catalog.ProductDetails{
		Title: title,
		Price: decimal.NewFromInt(price),
		Stock: 5,
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(models.ProductModelFromDomain(product)).Error)
	return product
}
