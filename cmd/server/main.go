package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	eventapp "github.com/rentmgr/backend/internal/application/event"
	rentalapp "github.com/rentmgr/backend/internal/application/rental"
	"github.com/rentmgr/backend/internal/domain/shared"
	"github.com/rentmgr/backend/internal/infrastructure/auth"
	"github.com/rentmgr/backend/internal/infrastructure/cache"
	"github.com/rentmgr/backend/internal/infrastructure/config"
	"github.com/rentmgr/backend/internal/infrastructure/event"
	"github.com/rentmgr/backend/internal/infrastructure/logger"
	"github.com/rentmgr/backend/internal/infrastructure/notification"
	"github.com/rentmgr/backend/internal/infrastructure/persistence"
	"github.com/rentmgr/backend/internal/infrastructure/scheduler"
	"github.com/rentmgr/backend/internal/infrastructure/telemetry"
	"github.com/rentmgr/backend/internal/interfaces/http/handler"
	"github.com/rentmgr/backend/internal/interfaces/http/middleware"
	"github.com/rentmgr/backend/internal/interfaces/http/router"

	_ "github.com/rentmgr/backend/docs"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Rent Backend API
//	@version		1.0
//	@description	Payment obligations, reminders and reconciliation for rented properties
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/rentmgr/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal("Invalid business timezone", zap.Error(err))
	}
	schedLoc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal("Invalid scheduler timezone", zap.Error(err))
	}

	ctx := context.Background()

	// OpenTelemetry providers; each is a no-op when disabled
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		log = telemetry.NewBridgedLogger(log, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    serviceName,
			LoggerProvider: loggerProvider,
			Level:          logger.ParseLevel(cfg.Log.Level),
		}))
	}

	log.Info("Starting Rent Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", loc.String()),
		zap.String("version", version),
	)

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold),
	)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	meter := meterProvider.Meter(serviceName)
	if meterProvider.IsEnabled() {
		dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meter, cfg.Database.SlowThreshold, log)
		if err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
		defer func() {
			_ = dbMetrics.Stop()
		}()
	}
	rentalMetrics, err := telemetry.NewRentalMetrics(meter)
	if err != nil {
		log.Warn("Rental metrics unavailable", zap.Error(err))
	}

	// Repositories
	obligationRepo := persistence.NewGormObligationRepository(db.DB)
	directory := persistence.NewGormDirectory(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Outbox: status changes enqueue confirmation events after commit
	eventSerializer := event.NewEventSerializer()
	event.RegisterRentalEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(db.DB, eventSerializer)
	outboxPublisher.SetMaxRetries(cfg.Event.MaxRetries)

	notifier, err := notification.New(cfg.Notification, log)
	if err != nil {
		log.Fatal("Failed to initialize notifier", zap.Error(err))
	}

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	eventBus := event.NewInMemoryEventBus(log)
	confirmationHandler := rentalapp.NewConfirmationHandler(directory, notifier, log)
	eventBus.Subscribe(
		event.NewIdempotentHandler(confirmationHandler, idempotencyStore, log,
			event.WithIdempotencyConfig(shared.IdempotencyConfig{
				TTL:     cfg.Event.IdempotencyTTL,
				Enabled: true,
			}),
		),
		confirmationHandler.EventTypes()...,
	)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, event.OutboxProcessorConfig{
		BatchSize:        cfg.Event.BatchSize,
		PollInterval:     cfg.Event.PollInterval,
		CleanupEnabled:   cfg.Event.CleanupEnabled,
		CleanupRetention: cfg.Event.CleanupRetention,
		CleanupInterval:  time.Hour,
	}, log)
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
	} else {
		log.Warn("Outbox processor disabled, confirmations stay queued")
	}

	// Application services
	generatorService := rentalapp.NewGeneratorService(obligationRepo, directory, loc, log)
	generatorService.SetRentalMetrics(rentalMetrics)
	statusService := rentalapp.NewStatusService(obligationRepo, outboxPublisher, loc, log)
	statusService.SetRentalMetrics(rentalMetrics)
	queryService := rentalapp.NewQueryService(obligationRepo, loc)
	reminderService := rentalapp.NewReminderService(obligationRepo, directory, notifier, log)
	reminderService.SetRentalMetrics(rentalMetrics)
	reconciliationService := rentalapp.NewReconciliationService(obligationRepo, cfg.Reconciliation.BatchSize, log)
	reconciliationService.SetRentalMetrics(rentalMetrics)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Schedulers are always built so the manual endpoints work; the timers
	// only start when enabled.
	reminderScheduler, err := scheduler.NewReminderScheduler(scheduler.Config{
		RunAt:      cfg.Scheduler.RunAt,
		Location:   schedLoc,
		RunTimeout: cfg.Scheduler.RunTimeout,
	}, reminderService, log)
	if err != nil {
		log.Fatal("Failed to create reminder scheduler", zap.Error(err))
	}
	reminderScheduler.SetRentalMetrics(rentalMetrics)

	reconciliationScheduler, err := scheduler.NewReconciliationScheduler(scheduler.Config{
		RunAt:      cfg.Reconciliation.RunAt,
		Location:   schedLoc,
		RunTimeout: cfg.Reconciliation.RunTimeout,
	}, reconciliationService, log)
	if err != nil {
		log.Fatal("Failed to create reconciliation scheduler", zap.Error(err))
	}
	reconciliationScheduler.SetRentalMetrics(rentalMetrics)

	if cfg.Scheduler.Enabled {
		if err := reminderScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start reminder scheduler", zap.Error(err))
		}
	}
	if cfg.Reconciliation.Enabled {
		if err := reconciliationScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start reconciliation scheduler", zap.Error(err))
		}
	}

	// Authentication
	authEnabled := cfg.JWT.Enabled
	var tokenValidator middleware.TokenValidator
	if authEnabled {
		jwtService, err := auth.NewJWTService(cfg.JWT)
		switch {
		case err == nil:
			tokenValidator = jwtService
		case errors.Is(err, auth.ErrMissingSecret) && cfg.App.Env == "development":
			log.Warn("JWT secret not set, authentication disabled in development")
			authEnabled = false
		default:
			log.Fatal("Failed to initialize JWT service", zap.Error(err))
		}
	}
	permissionGuard := middleware.NewPermissionGuard(authEnabled, log)

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: serviceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		middleware.SpanEnricher(),
		logger.GinMiddleware(log),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodyBytes),
	)
	if cfg.HTTP.RateLimitRPS > 0 {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)))
	}

	if cfg.Metrics.Enabled {
		promRegistry := telemetry.NewPrometheusRegistry(outboxRepo, log)
		engine.Use(middleware.HTTPMetrics(promRegistry))
		engine.GET(cfg.Metrics.Path, gin.WrapH(promRegistry.Handler()))
	}

	healthHandler := handler.NewHealthHandler(cfg.App.Name, version)
	healthHandler.AddCheck("database", db.Ping)
	if pinger, ok := idempotencyStore.(interface{ Ping(context.Context) error }); ok {
		healthHandler.AddCheck("redis", pinger.Ping)
	}
	engine.GET("/health", healthHandler.Health)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth && authEnabled,
		}, tokenValidator, log),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// API routes
	r := router.NewRouter(engine)
	if authEnabled {
		r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			Validator: tokenValidator,
			Logger:    log,
		}))
	}

	obligationHandler := handler.NewObligationHandler(generatorService, statusService, queryService, loc)
	jobsHandler := handler.NewJobsHandler(reminderScheduler, reconciliationScheduler)
	outboxHandler := handler.NewOutboxHandler(outboxService)

	r.Register(router.ObligationRoutes(obligationHandler, permissionGuard)).
		Register(router.JobRoutes(jobsHandler, permissionGuard)).
		Register(router.OutboxRoutes(outboxHandler, permissionGuard))
	r.Setup()

	// Create HTTP server with config
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := reminderScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping reminder scheduler", zap.Error(err))
	}
	if err := reconciliationScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping reconciliation scheduler", zap.Error(err))
	}
	if err := outboxProcessor.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping outbox processor", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
