package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/mead/backend/internal/application/catalog"
	communityapp "github.com/mead/backend/internal/application/community"
	identityapp "github.com/mead/backend/internal/application/identity"
	notificationapp "github.com/mead/backend/internal/application/notification"
	tradeapp "github.com/mead/backend/internal/application/trade"
	"github.com/mead/backend/internal/domain/community"
	"github.com/mead/backend/internal/domain/notification"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/mead/backend/internal/infrastructure/auth"
	"github.com/mead/backend/internal/infrastructure/cache"
	"github.com/mead/backend/internal/infrastructure/chatstore"
	"github.com/mead/backend/internal/infrastructure/config"
	"github.com/mead/backend/internal/infrastructure/event"
	"github.com/mead/backend/internal/infrastructure/logger"
	"github.com/mead/backend/internal/infrastructure/messaging"
	"github.com/mead/backend/internal/infrastructure/persistence"
	"github.com/mead/backend/internal/infrastructure/telemetry"
	"github.com/mead/backend/internal/interfaces/http/handler"
	"github.com/mead/backend/internal/interfaces/http/middleware"
	"github.com/mead/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	// Telemetry: traces, metrics and continuous profiling
	tracerProvider, err := telemetry.NewTracerProvider(startCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(startCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	metrics, err := telemetry.NewMarketplaceMetrics(meterProvider.Meter("mead/marketplace"))
	if err != nil {
		log.Fatal("Failed to register marketplace metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.DBSlowQueryThresh, log); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	if meterProvider.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			err = telemetry.RegisterDBPoolMetrics(meterProvider.Meter("mead/db"), sqlDB)
		}
		if err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
	}

	// Optional Redis for the follower cache and event deduplication
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(startCtx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Storefront chat history
	messageDB, err := chatstore.Open(cfg.Messages, log)
	if err != nil {
		log.Fatal("Failed to open message store", zap.Error(err))
	}
	defer func() {
		if err := messageDB.Close(); err != nil {
			log.Error("Error closing message store", zap.Error(err))
		}
	}()

	// Real-time notification delivery
	deliverer := newDeliverer(cfg.RabbitMQ, log)
	if closer, ok := deliverer.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	// Repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	recordRepo := persistence.NewGormNotificationRecordRepository(db.DB)
	inboxRepo := persistence.NewGormInboxRepository(db.DB)
	messageRepo := chatstore.NewMessageRepository(messageDB, log)
	var followRepo community.FollowRepository = persistence.NewGormFollowRepository(db.DB)
	if redisClient != nil {
		followRepo = cache.NewCachedFollowRepository(followRepo, redisClient, cfg.Redis.FollowerTTL, log)
	}

	// Application services
	accountService := identityapp.NewAccountService(accountRepo, log)
	productService := catalogapp.NewProductService(productRepo, accountRepo, log)
	cartService := tradeapp.NewCartService(cartRepo, productRepo)
	cartService.SetMetrics(metrics)
	orderService := tradeapp.NewOrderService(
		accountRepo, productRepo, cartRepo, orderRepo,
		persistence.NewGormTransactionScope(db.DB),
		tradeapp.WithOrderLogger(log),
		tradeapp.WithOrderMetrics(metrics),
	)
	followService := communityapp.NewFollowService(accountRepo, followRepo, log)
	aggregator := communityapp.NewAggregator(accountRepo, productRepo, followRepo, messageRepo,
		communityapp.AggregatorConfig{
			DigestConcurrency:  cfg.Marketplace.DigestConcurrency,
			DigestMessageLimit: cfg.Marketplace.MessageHistory,
		}, log)
	fanoutService := notificationapp.NewFanoutService(recordRepo, inboxRepo, followRepo, log,
		notificationapp.WithDeliverer(deliverer),
		notificationapp.WithFanoutMetrics(metrics),
	)
	inboxService := notificationapp.NewInboxService(inboxRepo, recordRepo)

	// Event bus: new listings fan out to followers at most once per event
	eventBus := event.NewInMemoryEventBus(log)
	idempotencyStore := cache.NewIdempotencyStore(redisClient, log)
	defer func() { _ = idempotencyStore.Close() }()
	eventBus.Subscribe(event.NewIdempotentHandler(
		notificationapp.NewProductCreatedHandler(fanoutService, log),
		idempotencyStore,
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			Enabled: cfg.Event.IdempotencyEnabled,
			TTL:     cfg.Event.IdempotencyTTL,
		}),
	))
	for _, svc := range []interface{ SetEventPublisher(shared.EventPublisher) }{
		accountService, productService, orderService, aggregator,
	} {
		svc.SetEventPublisher(eventBus)
	}
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Handlers
	jwtService := auth.NewJWTService(cfg.JWT)
	paging := handler.Paging{
		DefaultPageSize: cfg.Marketplace.ItemsPerPage,
		MaxPageSize:     cfg.Marketplace.MaxPageSize,
	}
	handlers := handler.Handlers{
		Account:      handler.NewAccountHandler(accountService),
		Cart:         handler.NewCartHandler(cartService),
		Order:        handler.NewOrderHandler(orderService, paging),
		Product:      handler.NewProductHandler(productService, paging),
		Community:    handler.NewCommunityHandler(followService, aggregator, paging),
		Notification: handler.NewNotificationHandler(inboxService, fanoutService, paging),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	var httpMeter metric.Meter
	if meterProvider.IsEnabled() {
		httpMeter = meterProvider.Meter("mead/http")
	}
	httpMetrics, err := middleware.HTTPMetrics(httpMeter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	// Middleware order: request ID first so every log line and span carries it
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		httpMetrics,
	)

	handler.SystemRoutes(engine, handler.NewSystemHandler(cfg.App.Name, version, db, log))

	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = profiler.IsEnabled()
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAPIMiddleware(
			middleware.Auth(middleware.DefaultAuthConfig(jwtService, log)),
			middleware.SpanEnricher(),
			middleware.Profiling(profilingConfig),
		),
	)
	for _, group := range handler.RouteGroups(handlers) {
		r.Register(group)
	}
	r.Setup()
	for _, route := range r.Routes() {
		log.Debug("Route registered",
			zap.String("group", route.Group),
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}
	log.Info("Routes registered", zap.Int("count", len(r.Routes())))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("Failed to stop event bus", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		log.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newDeliverer returns the RabbitMQ deliverer when enabled and reachable.
// Otherwise deliveries are only logged; inbox entries are unaffected.
func newDeliverer(cfg config.RabbitMQConfig, log *zap.Logger) notification.Deliverer {
	if !cfg.Enabled {
		log.Info("RabbitMQ disabled, logging real-time deliveries")
		return messaging.NewLogDeliverer(log)
	}
	d, err := messaging.NewAMQPDeliverer(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ, logging real-time deliveries", zap.Error(err))
		return messaging.NewLogDeliverer(log)
	}
	log.Info("RabbitMQ connected", zap.String("exchange", cfg.Exchange))
	return d
}
