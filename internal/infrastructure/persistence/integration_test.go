//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	apptrade "github.com/mead/backend/internal/application/trade"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/community"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/domain/notification"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/mead/backend/internal/domain/trade"
	"github.com/mead/backend/internal/infrastructure/migration"
	"github.com/mead/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a PostgreSQL container and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("mead_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestPostgres_PlaceOrderFlow(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	accounts := NewGormAccountRepository(db)
	products := NewGormProductRepository(db)
	carts := NewGormCartRepository(db)
	orders := NewGormOrderRepository(db)
	scope := NewGormTransactionScope(db)

	seller, err := identity.NewAccount("seller@example.com", "Seller", identity.RoleSeller)
	require.NoError(t, err)
	buyer, err := identity.NewAccount("buyer@example.com", "Buyer", identity.RoleClassic)
	require.NoError(t, err)
	require.NoError(t, accounts.Save(ctx, seller))
	require.NoError(t, accounts.Save(ctx, buyer))

	product, err := catalog.NewProduct(seller.ID, catalog.ProductDetails{Title: "Dress", Price: decimal.NewFromInt(1000), Stock: 3})
	require.NoError(t, err)
	require.NoError(t, products.Save(ctx, product))

	require.NoError(t, carts.Save(ctx, buyer.ID, trade.SetItem(trade.EmptyCart(), product.ID, 2)))

	line, err := trade.NewOrderLine(product, 2)
	require.NoError(t, err)
	order, err := trade.NewOrder(buyer.ID, buyer.Email, []trade.OrderLine{line})
	require.NoError(t, err)

	err = scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return err
		}
		return repos.CartRepo().Clear(ctx, buyer.ID)
	})
	require.NoError(t, err)

	stored, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2000).Equal(stored.Total))
	assert.Equal(t, "Dress", stored.Lines[0].Product.Title)

	cart, err := carts.Load(ctx, buyer.ID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestPostgres_FollowAndInbox(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	shop, err := identity.NewAccount("shop@example.com", "Shop", identity.RoleSeller)
	require.NoError(t, err)
	fan, err := identity.NewAccount("fan@example.com", "Fan", identity.RoleClassic)
	require.NoError(t, err)
	require.NoError(t, db.Create(models.AccountModelFromDomain(shop)).Error)
	require.NoError(t, db.Create(models.AccountModelFromDomain(fan)).Error)

	follows := NewGormFollowRepository(db)
	edge, err := community.NewFollowEdge(fan.ID, shop.ID)
	require.NoError(t, err)
	inserted, err := follows.Add(ctx, edge)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = follows.Add(ctx, edge)
	require.NoError(t, err)
	assert.False(t, inserted)

	followers, err := follows.FollowersOf(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{fan.ID}, followers)

	product, err := catalog.NewProduct(shop.ID, catalog.ProductDetails{Title: "Bag", Price: decimal.NewFromInt(500)})
	require.NoError(t, err)
	record, err := notification.NewProductRecord(notification.ProductPayload{Product: catalog.Snapshot(product)})
	require.NoError(t, err)
	require.NoError(t, NewGormNotificationRecordRepository(db).Create(ctx, record))

	inbox := NewGormInboxRepository(db)
	for range 2 {
		_, err := inbox.Append(ctx, notification.NewInboxEntry(fan.ID, record.ID))
		require.NoError(t, err)
	}
	entries, total, err := inbox.ListByAccount(ctx, fan.ID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, entries, 1)
}
