package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/mead/backend/internal/application/catalog"
	communityapp "github.com/mead/backend/internal/application/community"
	identityapp "github.com/mead/backend/internal/application/identity"
	notificationapp "github.com/mead/backend/internal/application/notification"
	tradeapp "github.com/mead/backend/internal/application/trade"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/infrastructure/auth"
	"github.com/mead/backend/internal/infrastructure/chatstore"
	"github.com/mead/backend/internal/infrastructure/config"
	"github.com/mead/backend/internal/infrastructure/event"
	"github.com/mead/backend/internal/infrastructure/persistence"
	"github.com/mead/backend/internal/infrastructure/persistence/models"
	"github.com/mead/backend/internal/interfaces/http/dto"
	"github.com/mead/backend/internal/interfaces/http/middleware"
	"github.com/mead/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testEnv is the full API over an in-memory SQLite database and an
// in-memory message store
type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB
	jwt    *auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
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

	badgerDB, err := chatstore.Open(config.MessageStoreConfig{InMemory: true}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = badgerDB.Close() })

	log := zap.NewNop()
	accountRepo := persistence.NewGormAccountRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	followRepo := persistence.NewGormFollowRepository(db)
	cartRepo := persistence.NewGormCartRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	recordRepo := persistence.NewGormNotificationRecordRepository(db)
	inboxRepo := persistence.NewGormInboxRepository(db)
	messageRepo := chatstore.NewMessageRepository(badgerDB, log)

	bus := event.NewInMemoryEventBus(log)
	fanout := notificationapp.NewFanoutService(recordRepo, inboxRepo, followRepo, log)
	bus.Subscribe(notificationapp.NewProductCreatedHandler(fanout, log))

	productService := catalogapp.NewProductService(productRepo, accountRepo, log)
	productService.SetEventPublisher(bus)
	orderService := tradeapp.NewOrderService(accountRepo, productRepo, cartRepo, orderRepo,
		persistence.NewGormTransactionScope(db), tradeapp.WithOrderLogger(log))
	aggregator := communityapp.NewAggregator(accountRepo, productRepo, followRepo, messageRepo,
		communityapp.AggregatorConfig{DigestConcurrency: 2}, log)

	paging := Paging{DefaultPageSize: 24, MaxPageSize: 100}
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-at-least-32-bytes",
		AccessTokenExpiration: time.Hour,
		Issuer:                "mead-test",
	})

	engine := gin.New()
	engine.Use(middleware.RequestID())
	SystemRoutes(engine, NewSystemHandler("mead", "test", pingerFunc(sqlDB.Ping), log))

	r := router.NewRouter(engine, router.WithAPIMiddleware(
		middleware.Auth(middleware.DefaultAuthConfig(jwtService, log)),
	))
	for _, group := range RouteGroups(Handlers{
		Account:      NewAccountHandler(identityapp.NewAccountService(accountRepo, log)),
		Cart:         NewCartHandler(tradeapp.NewCartService(cartRepo, productRepo)),
		Order:        NewOrderHandler(orderService, paging),
		Product:      NewProductHandler(productService, paging),
		Community:    NewCommunityHandler(communityapp.NewFollowService(accountRepo, followRepo, log), aggregator, paging),
		Notification: NewNotificationHandler(notificationapp.NewInboxService(inboxRepo, recordRepo), fanout, paging),
	}) {
		r.Register(group)
	}
	r.Setup()

	return &testEnv{engine: engine, db: db, jwt: jwtService}
}

type pingerFunc func() error

func (f pingerFunc) Ping() error { return f() }

func (e *testEnv) account(t *testing.T, name string, role identity.Role) *identity.Account {
	t.Helper()
	account, err := identity.NewAccount(name+"@example.com", name, role)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(models.AccountModelFromDomain(account)).Error)
	return account
}

func (e *testEnv) product(t *testing.T, sellerID uuid.UUID, title string, price int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sellerID, catalog.ProductDetails{
		Title: title,
		Price: decimal.NewFromInt(price),
		Stock: 5,
	})
	require.NoError(t, err)
	require.NoError(t, e.db.Create(models.ProductModelFromDomain(product)).Error)
	return product
}

// do sends a request as the given account; a nil account sends no token
func (e *testEnv) do(t *testing.T, method, path string, body any, as *identity.Account) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, err := e.jwt.GenerateAccessToken(as)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token.Token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of a success envelope into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) *dto.Response {
	t.Helper()
	var envelope struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.True(t, envelope.Success, w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return &envelope.Response
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error
}
