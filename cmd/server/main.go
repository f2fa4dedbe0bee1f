package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/SamerElhamdo/stockly/internal/application/catalog"
	financeapp "github.com/SamerElhamdo/stockly/internal/application/finance"
	"github.com/SamerElhamdo/stockly/internal/application/notification"
	partnerapp "github.com/SamerElhamdo/stockly/internal/application/partner"
	tradeapp "github.com/SamerElhamdo/stockly/internal/application/trade"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/auth"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/cache"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/config"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/event"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/export"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/logger"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/notify"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/scheduler"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/telemetry"
	"github.com/SamerElhamdo/stockly/internal/interfaces/http/handler"
	"github.com/SamerElhamdo/stockly/internal/interfaces/http/middleware"
	"github.com/SamerElhamdo/stockly/internal/interfaces/http/router"
	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration: "+err.Error())
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger: "+err.Error())
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting stockly",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Telemetry providers first so the DB plugin and HTTP middleware pick up
	// the global providers.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("tracer provider: %w", err)
	}
	defer func() { _ = tracerProvider.Shutdown(context.Background()) }()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("meter provider: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()
	meter := meterProvider.Meter("stockly")

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		return fmt.Errorf("database tracing: %w", err)
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if reg, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		} else {
			defer func() { _ = reg.Unregister() }()
		}
	}

	// Redis is optional: it backs notifications, idempotency and the sweep lock
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	balanceRepo := persistence.NewGormBalanceRepository(db.DB)
	tradeScope := persistence.NewGormTradeTransactionScope(db.DB)
	financeScope := persistence.NewGormFinanceTransactionScope(db.DB)

	// Application services
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, companyRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, cfg.App.PhoneRegion)
	invoiceService := tradeapp.NewInvoiceService(invoiceRepo, customerService, tradeScope)
	returnService := tradeapp.NewReturnService(returnRepo, invoiceRepo, companyRepo, tradeScope)
	paymentService := financeapp.NewPaymentService(paymentRepo, customerRepo, invoiceRepo)
	reconciler := financeapp.NewBalanceReconciler(financeScope, customerRepo, companyRepo, log.Named("reconciler"))
	balanceService := financeapp.NewBalanceService(balanceRepo, customerRepo, companyRepo, reconciler, export.NewXLSXBalanceSheetWriter())

	// Event bus and subscribers
	eventBus := event.NewSyncEventBus(log)

	businessMetrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		return fmt.Errorf("business metrics: %w", err)
	}
	eventBus.SetDeliveryRecorder(businessMetrics)
	eventBus.Subscribe(businessMetrics)

	balanceHandler := financeapp.NewBalanceEventHandler(reconciler, log)
	eventBus.Subscribe(balanceHandler)

	var dispatcher *notification.Dispatcher
	if cfg.Notification.Enabled {
		dispatcher, err = newDispatcher(cfg.Notification, redisClient, log)
		if err != nil {
			return err
		}
		store, err := cache.NewIdempotencyStore(cfg.Notification, redisClient, log)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		idempotency := shared.DefaultIdempotencyConfig()
		if cfg.Notification.IdempotencyTTL > 0 {
			idempotency.TTL = cfg.Notification.IdempotencyTTL
		}
		notificationHandler := event.NewIdempotentHandler(
			notification.NewNotificationHandler(dispatcher, log),
			store,
			log,
			event.WithIdempotencyConfig(idempotency),
		)
		eventBus.Subscribe(notificationHandler)
	}

	log.Info("Event handlers registered",
		zap.Strings("metrics_events", businessMetrics.EventTypes()),
		zap.Strings("balance_events", balanceHandler.EventTypes()),
		zap.Bool("notifications", dispatcher != nil),
	)

	productService.SetEventPublisher(eventBus)
	customerService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	returnService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)

	if err := eventBus.Start(ctx); err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	defer func() { _ = eventBus.Stop(context.Background()) }()

	if dispatcher != nil {
		if err := dispatcher.Start(ctx); err != nil {
			return fmt.Errorf("notification dispatcher: %w", err)
		}
		defer func() {
			if err := dispatcher.Stop(context.Background()); err != nil {
				log.Error("Error stopping notification dispatcher", zap.Error(err))
			}
		}()
	}

	var sweeper *scheduler.BalanceSweeper
	if cfg.Reconciler.SweepEnabled {
		var locker *redislock.Client
		if redisClient != nil {
			locker = redislock.New(redisClient)
		}
		sweeper = scheduler.NewBalanceSweeper(scheduler.SweeperConfig{
			Interval: cfg.Reconciler.SweepInterval,
			LockKey:  cfg.Reconciler.LockKey,
			LockTTL:  cfg.Reconciler.LockTTL,
		}, reconciler, locker, log)
		sweeper.SetRecorder(businessMetrics)
		if err := sweeper.Start(ctx); err != nil {
			return fmt.Errorf("balance sweeper: %w", err)
		}
		defer func() {
			if err := sweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping balance sweeper", zap.Error(err))
			}
		}()
		log.Info("Balance sweeper started",
			zap.Duration("interval", cfg.Reconciler.SweepInterval),
			zap.Bool("distributed_lock", locker != nil),
		)
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// RequestID must run before the logger middleware, which reads it
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanEnricher(),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	handler.NewSystemHandler(cfg.App.Name, version, checks).Mount(engine)

	if cfg.JWT.AllowHeaderActor {
		log.Warn("Header actor identification is enabled; do not use in production")
	}
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithGroupMiddleware(middleware.Actor(middleware.ActorConfig{
			Validator:        auth.NewJWTService(cfg.JWT),
			AllowHeaderActor: cfg.JWT.AllowHeaderActor,
			Logger:           log,
		})),
	)
	r.Register(
		handler.NewCategoryHandler(categoryService),
		handler.NewProductHandler(productService),
		handler.NewCustomerHandler(customerService, paymentService, balanceService),
		handler.NewInvoiceHandler(invoiceService, returnService, paymentService),
		handler.NewReturnHandler(returnService),
		handler.NewPaymentHandler(paymentService),
		handler.NewBalanceHandler(balanceService),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownTimeout := cfg.HTTP.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = 30 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// newDispatcher builds the notification dispatcher over the configured driver
func newDispatcher(cfg config.NotificationConfig, client *redis.Client, log *zap.Logger) (*notification.Dispatcher, error) {
	var notifier notification.Notifier
	switch cfg.Driver {
	case "", "log":
		notifier = notify.NewLogNotifier(log)
	case "redis":
		if client == nil {
			return nil, errors.New("notification driver redis requires redis.enabled")
		}
		notifier = notify.NewRedisNotifier(client, cfg.Channel, log)
	default:
		return nil, fmt.Errorf("unknown notification driver %q", cfg.Driver)
	}

	return notification.NewDispatcher(notification.DispatcherConfig{
		QueueSize:       cfg.QueueSize,
		Workers:         cfg.Workers,
		DeliveryTimeout: cfg.DeliveryTimeout,
	}, notifier, log), nil
}
