package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/washpoint/backend/internal/application/billing"
	eventapp "github.com/washpoint/backend/internal/application/event"
	identityapp "github.com/washpoint/backend/internal/application/identity"
	loyaltyapp "github.com/washpoint/backend/internal/application/loyalty"
	partnerapp "github.com/washpoint/backend/internal/application/partner"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/washpoint/backend/internal/infrastructure/auth"
	"github.com/washpoint/backend/internal/infrastructure/billing"
	"github.com/washpoint/backend/internal/infrastructure/cache"
	"github.com/washpoint/backend/internal/infrastructure/config"
	"github.com/washpoint/backend/internal/infrastructure/event"
	"github.com/washpoint/backend/internal/infrastructure/logger"
	"github.com/washpoint/backend/internal/infrastructure/persistence"
	"github.com/washpoint/backend/internal/infrastructure/scheduler"
	"github.com/washpoint/backend/internal/infrastructure/telemetry"
	"github.com/washpoint/backend/internal/interfaces/http/handler"
	"github.com/washpoint/backend/internal/interfaces/http/middleware"
	"github.com/washpoint/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/washpoint/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Washpoint API
//	@version		1.0
//	@description	Multi-tenant loyalty points backend for car wash businesses

//	@contact.name	API Support
//	@contact.url	https://github.com/washpoint/backend
//	@contact.email	support@washpoint.example.com

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

	log.Info("Starting Washpoint backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// OpenTelemetry providers. When telemetry is disabled these are no-ops.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	if _, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log); err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}

	// Wallet liability metrics collected periodically per tenant. The counter
	// side is fed by wallet movement events off the bus further down.
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		walletMetricsProvider := telemetry.NewGormWalletMetricsProvider(db.DB)
		bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:          meterProvider.Meter("washpoint.business"),
			Logger:         log,
			WalletProvider: walletMetricsProvider,
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			bm.StartPeriodicCollection(context.Background(), walletMetricsProvider, 5*time.Minute)
			defer bm.Stop()
			businessMetrics = bm
		}
	}

	// Versioned event serializer with all domain event types registered, so
	// the outbox processor can deserialize (and upgrade) stored entries
	eventSerializer := event.NewVersionedSerializer(log)
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	vehicleRepo := persistence.NewGormVehicleRepository(db.DB)
	programRepo := persistence.NewGormLoyaltyProgramRepository(db.DB)
	walletRepo := persistence.NewGormWalletRepository(db.DB)
	walletTxRepo := persistence.NewGormWalletTransactionRepository(db.DB)
	walletLedger := persistence.NewGormWalletLedgerWithOutbox(db.DB, outboxPublisher)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// In-process event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor for guaranteed event delivery
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			processorConfig.PollInterval = cfg.Event.PollInterval
		}
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			processorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Token blacklist backed by Redis, in-memory when Redis is unreachable
	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
	}

	// Idempotency store for wallet operations and event redelivery dedup
	idemFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idemStore, err := idemFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Wallet movement events drive the business metrics counters. The
	// idempotent wrapper keeps outbox redeliveries from double counting.
	if businessMetrics != nil {
		movementHandler := event.NewWalletMovementHandler(businessMetrics, log)
		eventBus.Subscribe(
			event.NewIdempotentHandler(movementHandler, idemStore, log),
			movementHandler.EventTypes()...,
		)
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, tokenBlacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, tenantRepo, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, log)

	// Registry and loyalty services
	customerService := partnerapp.NewCustomerService(customerRepo, vehicleRepo)
	programService := loyaltyapp.NewProgramService(programRepo)
	walletService := loyaltyapp.NewWalletService(
		walletRepo, walletTxRepo, programRepo, customerRepo,
		walletLedger, idemStore, shared.DefaultIdempotencyConfig(),
	)
	reportService := loyaltyapp.NewReportService(walletTxRepo, walletRepo, customerRepo)
	outboxService := eventapp.NewOutboxService(outboxRepo, log).
		WithMigrator(event.NewEventMigrator(eventSerializer, log))

	// Expiration sweep runs overdue points through the same apply path as
	// every other wallet movement
	expirationService := loyaltyapp.NewExpirationService(walletTxRepo, walletRepo, walletService, cfg.Expiration.BatchSize, log)
	sweeper := scheduler.NewExpirationSweeper(scheduler.SweeperConfig{
		Interval: cfg.Expiration.SweepInterval,
	}, expirationService, log)
	if cfg.Expiration.Enabled {
		if err := sweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start expiration sweeper", zap.Error(err))
		}
		defer func() {
			if err := sweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping expiration sweeper", zap.Error(err))
			}
		}()
	}

	// Stripe billing. When no secret key is configured the billing endpoints
	// are simply not mounted, tenants stay on their trial/manual status.
	var subscriptionHandler *handler.SubscriptionHandler
	var stripeWebhookHandler *handler.StripeWebhookHandler
	if cfg.Stripe.SecretKey != "" {
		stripeCfg := &billing.StripeConfig{
			SecretKey:       cfg.Stripe.SecretKey,
			WebhookSecret:   cfg.Stripe.WebhookSecret,
			IsTestMode:      cfg.Stripe.TestMode,
			DefaultCurrency: cfg.Stripe.Currency,
			PriceIDs: map[string]string{
				"basic": cfg.Stripe.BasicPriceID,
				"pro":   cfg.Stripe.ProPriceID,
			},
		}
		stripeAdapter, err := billing.NewStripeAdapter(stripeCfg, log)
		if err != nil {
			log.Warn("Stripe billing disabled", zap.Error(err))
		} else {
			subscriptionService := billingapp.NewSubscriptionService(stripeAdapter, stripeCfg, tenantRepo, log)
			webhookService := billingapp.NewStripeWebhookService(billingapp.StripeWebhookServiceConfig{
				Config:     stripeCfg,
				TenantRepo: tenantRepo,
				EventBus:   eventBus,
				Logger:     log,
			})
			subscriptionHandler = handler.NewSubscriptionHandler(subscriptionService)
			stripeWebhookHandler = handler.NewStripeWebhookHandler(webhookService)
			log.Info("Stripe billing enabled", zap.Bool("test_mode", cfg.Stripe.TestMode))
		}
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	customerHandler := handler.NewCustomerHandler(customerService)
	programHandler := handler.NewProgramHandler(programService)
	walletHandler := handler.NewWalletHandler(walletService)
	reportHandler := handler.NewReportHandler(reportService, sweeper)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging, security
	// headers, CORS, body limit, then rate limiting
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		swaggerCfg := middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(swaggerCfg, middleware.JWTAuthMiddleware(jwtService)),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	// Stripe webhook is authenticated by signature, not JWT
	if stripeWebhookHandler != nil {
		engine.POST("/api/v1/webhooks/stripe", stripeWebhookHandler.HandleStripeWebhook)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtMW := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	})

	// Lapsed tenants can read their data but not mutate it; billing routes
	// stay reachable so they can recover
	gateConfig := middleware.DefaultSubscriptionGateConfig(tenantRepo)
	gateConfig.Logger = log
	subscriptionGate := middleware.SubscriptionGate(gateConfig)

	// Public authentication routes
	loginRoutes := router.NewDomainGroup("login", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		loginRoutes.Use(middleware.RateLimit(authLimiter))
	}
	loginRoutes.POST("/login", authHandler.Login)
	loginRoutes.POST("/refresh", authHandler.RefreshToken)

	// Authenticated session routes
	sessionRoutes := router.NewDomainGroup("session", "/auth")
	sessionRoutes.Use(jwtMW)
	sessionRoutes.POST("/logout", authHandler.Logout)
	sessionRoutes.GET("/me", authHandler.GetCurrentUser)
	sessionRoutes.PUT("/password", authHandler.ChangePassword)

	// Public tenant signup
	signupRoutes := router.NewDomainGroup("signup", "/tenants")
	signupRoutes.POST("/signup", tenantHandler.Signup)

	// Tenant self-management
	tenantRoutes := router.NewDomainGroup("tenant", "/tenant")
	tenantRoutes.Use(jwtMW, subscriptionGate)
	tenantRoutes.GET("", tenantHandler.Get)
	tenantRoutes.PUT("", tenantHandler.Update)

	// Platform operations across tenants
	platformRoutes := router.NewDomainGroup("platform", "/tenants")
	platformRoutes.Use(jwtMW, middleware.RequireRoot())
	platformRoutes.GET("", tenantHandler.List)
	platformRoutes.POST("/:id/suspend", tenantHandler.Suspend)
	platformRoutes.POST("/:id/reactivate", tenantHandler.Reactivate)

	// Staff account management
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(jwtMW, middleware.RequireAdmin())
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.PUT("/:id/role", userHandler.SetRole)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/reactivate", userHandler.Reactivate)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)
	userRoutes.POST("/:id/reset-password", userHandler.ResetPassword)

	// Customer registry, vehicles, and per-customer wallet reads
	customerRoutes := router.NewDomainGroup("customers", "/customers")
	customerRoutes.Use(jwtMW, subscriptionGate)
	customerRoutes.POST("", customerHandler.Register)
	customerRoutes.GET("", customerHandler.List)
	customerRoutes.GET("/by-phone", customerHandler.GetByPhone)
	customerRoutes.GET("/:id", customerHandler.GetByID)
	customerRoutes.PUT("/:id", customerHandler.Update)
	customerRoutes.POST("/:id/deactivate", customerHandler.Deactivate)
	customerRoutes.POST("/:id/reactivate", customerHandler.Reactivate)
	customerRoutes.POST("/:id/vehicles", customerHandler.RegisterVehicle)
	customerRoutes.GET("/:id/vehicles", customerHandler.ListVehicles)
	customerRoutes.GET("/:id/wallet", walletHandler.GetWallet)
	customerRoutes.GET("/:id/wallet/summary", walletHandler.GetSummary)
	customerRoutes.GET("/:id/wallet/transactions", walletHandler.ListTransactions)

	vehicleRoutes := router.NewDomainGroup("vehicles", "/vehicles")
	vehicleRoutes.Use(jwtMW, subscriptionGate)
	vehicleRoutes.DELETE("/:vehicleId", customerHandler.RemoveVehicle)

	// Wallet ledger operations
	walletRoutes := router.NewDomainGroup("wallets", "/wallets")
	walletRoutes.Use(jwtMW, subscriptionGate)
	walletRoutes.POST("/earn", walletHandler.Earn)
	walletRoutes.POST("/redeem", walletHandler.Redeem)
	walletRoutes.POST("/adjust", middleware.RequireAdmin(), walletHandler.Adjust)

	// Loyalty program configuration
	programRoutes := router.NewDomainGroup("programs", "/programs")
	programRoutes.Use(jwtMW, subscriptionGate)
	programRoutes.POST("", programHandler.Create)
	programRoutes.GET("", programHandler.List)
	programRoutes.GET("/active", programHandler.GetActive)
	programRoutes.GET("/:id", programHandler.GetByID)
	programRoutes.PUT("/:id", programHandler.Update)
	programRoutes.POST("/:id/activate", programHandler.Activate)
	programRoutes.POST("/:id/deactivate", programHandler.Deactivate)

	// Reporting
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.Use(jwtMW)
	reportRoutes.GET("/loyalty", reportHandler.TenantReport)

	// Admin operations
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(jwtMW, middleware.RequireAdmin())
	adminRoutes.POST("/expiration/sweep", reportHandler.TriggerExpiration)

	// Billing (only mounted when Stripe is configured)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	if subscriptionHandler != nil {
		billingRoutes.Use(jwtMW)
		billingRoutes.POST("/subscription", subscriptionHandler.Subscribe)
		billingRoutes.GET("/subscription", subscriptionHandler.Status)
		billingRoutes.PUT("/subscription/plan", subscriptionHandler.ChangePlan)
		billingRoutes.DELETE("/subscription", subscriptionHandler.Cancel)
	}

	// Public system probes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Outbox administration
	outboxRoutes := router.NewDomainGroup("outbox", "/system/outbox")
	outboxRoutes.Use(jwtMW, middleware.RequireRoot())
	outboxRoutes.GET("/dead", outboxHandler.GetDeadLetterEntries)
	outboxRoutes.GET("/stats", outboxHandler.GetStats)
	outboxRoutes.GET("/:id", outboxHandler.GetEntry)
	outboxRoutes.POST("/:id/retry", outboxHandler.RetryDeadEntry)
	outboxRoutes.POST("/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	outboxRoutes.POST("/dead/migrate", outboxHandler.MigrateDeadEntries)

	r.Register(loginRoutes).
		Register(sessionRoutes).
		Register(signupRoutes).
		Register(tenantRoutes).
		Register(platformRoutes).
		Register(userRoutes).
		Register(customerRoutes).
		Register(vehicleRoutes).
		Register(walletRoutes).
		Register(programRoutes).
		Register(reportRoutes).
		Register(adminRoutes).
		Register(billingRoutes).
		Register(systemRoutes).
		Register(outboxRoutes)
	r.Setup()

	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
