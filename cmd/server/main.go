package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/foodorder/backend/internal/application/catalog"
	identityapp "github.com/foodorder/backend/internal/application/identity"
	orderingapp "github.com/foodorder/backend/internal/application/ordering"
	paymentapp "github.com/foodorder/backend/internal/application/payment"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/infrastructure/auth"
	"github.com/foodorder/backend/internal/infrastructure/cache"
	"github.com/foodorder/backend/internal/infrastructure/config"
	"github.com/foodorder/backend/internal/infrastructure/crypto"
	"github.com/foodorder/backend/internal/infrastructure/event"
	"github.com/foodorder/backend/internal/infrastructure/logger"
	"github.com/foodorder/backend/internal/infrastructure/persistence"
	"github.com/foodorder/backend/internal/infrastructure/storage"
	"github.com/foodorder/backend/internal/infrastructure/telemetry"
	"github.com/foodorder/backend/internal/interfaces/http/handler"
	"github.com/foodorder/backend/internal/interfaces/http/middleware"
	"github.com/foodorder/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/foodorder/backend/docs"
)

//	@title			Food Ordering API
//	@version		1.0
//	@description	Country-scoped food ordering backend with role based access control
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/foodorder/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Fields:     map[string]string{"service": cfg.App.Name, "env": cfg.App.Env, "version": version},
		Sample:     cfg.App.Env == "production",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	// OpenTelemetry: traces, metrics, log bridge and continuous profiling
	collector := telemetry.Collector{
		Endpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure: cfg.Telemetry.Insecure,
		Service: telemetry.Service{
			Name:        cfg.Telemetry.ServiceName,
			Version:     version,
			Environment: cfg.App.Env,
		},
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:       cfg.Telemetry.Enabled,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
		Collector:     collector,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:        cfg.Telemetry.MetricsEnabled,
		ExportInterval: time.Duration(cfg.Telemetry.MetricsInterval) * time.Second,
		Collector:      collector,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:   cfg.Telemetry.LogsEnabled,
		Collector: collector,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		log = loggerProvider.Bridge(log, zapcore.InfoLevel)
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
		Tags:            map[string]string{"env": cfg.App.Env, "version": version},
	}, log)
	if err != nil {
		log.Warn("Continuous profiling unavailable", zap.Error(err))
	}
	if profiler != nil && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting food ordering backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	gormLog := logger.NewGormLogger(log, logger.DefaultGormConfig(logger.GormLevel(cfg.Log.Level)))
	db, err := persistence.Open(ctx, &cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:               cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:              dbSystem,
		WithoutQueryVariables: !cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold:    200 * time.Millisecond,
	}, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		if _, err := telemetry.RegisterDBPoolMetrics(db.DB, meterProvider.Meter("foodorder/db"), dbSystem); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
	}

	// Redis backs token revocation and event deduplication when enabled
	var redisClient *redis.Client
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     10,
			MinIdleConns: 2,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		defer func() {
			_ = redisClient.Close()
		}()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unavailable, token revocation is per process", zap.Error(err))
		} else {
			blacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
			log.Info("Using Redis token blacklist", zap.String("addr", cfg.Redis.Addr()))
		}
		cancel()
	}

	var idempotencyStore shared.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = cache.NewIdempotencyStore(ctx, redisClient, log)
	} else {
		idempotencyStore = cache.NewIdempotencyStore(ctx, nil, log)
	}

	encryptionKey := cfg.Crypto.EncryptionKey
	if encryptionKey == "" {
		encryptionKey, err = crypto.GenerateKey()
		if err != nil {
			log.Fatal("Failed to generate encryption key", zap.Error(err))
		}
		log.Warn("No encryption key configured, stored CVVs will not survive a restart")
	}
	cipher, err := crypto.NewAESCipher(encryptionKey)
	if err != nil {
		log.Fatal("Invalid encryption key", zap.Error(err))
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	restaurantRepo := persistence.NewGormRestaurantRepository(db.DB)
	menuItemRepo := persistence.NewGormMenuItemRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentMethodRepo := persistence.NewGormPaymentMethodRepository(db.DB)
	orderReferences := persistence.NewGormOrderReferenceChecker(db.DB)

	eventBus := event.NewInMemoryEventBus(log)

	activityLogger := event.NewIdempotentHandler("order_activity",
		orderingapp.NewOrderActivityLogger(log), idempotencyStore, log)
	eventBus.Subscribe(activityLogger)

	orderMetrics, err := orderingapp.NewOrderMetrics(meterProvider.Meter("foodorder/orders"))
	if err != nil {
		log.Fatal("Failed to create order metrics", zap.Error(err))
	}
	eventBus.Subscribe(event.NewIdempotentHandler("order_metrics", orderMetrics, idempotencyStore, log))

	log.Info("Event handlers registered",
		zap.Strings("order_activity_events", activityLogger.EventTypes()),
		zap.Strings("order_metrics_events", orderMetrics.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, eventBus, log)
	userService := identityapp.NewUserService(userRepo, orderReferences, blacklist,
		cfg.JWT.RefreshTokenExpiration, eventBus, log)
	restaurantService := catalogapp.NewRestaurantService(restaurantRepo, orderReferences, log)
	menuItemService := catalogapp.NewMenuItemService(menuItemRepo, restaurantRepo, orderReferences, log)
	orderService := orderingapp.NewOrderService(orderRepo, restaurantRepo, menuItemRepo, paymentMethodRepo, eventBus, log)
	paymentMethodService := paymentapp.NewPaymentMethodService(paymentMethodRepo, cipher, log)

	var imageStorage catalogapp.ImageStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStore(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create object storage", zap.Error(err))
		}
		bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := s3Storage.EnsureBucket(bucketCtx); err != nil {
			log.Warn("Object storage bucket check failed, image uploads may fail", zap.Error(err))
		}
		cancel()
		imageStorage = s3Storage
		log.Info("Image uploads enabled",
			zap.String("bucket", s3Storage.Bucket()),
			zap.String("public_url", s3Storage.PublicURL("")))
	} else {
		log.Info("Object storage disabled, image upload endpoints answer 503")
	}
	menuImportService := catalogapp.NewMenuImportService(restaurantRepo, menuItemRepo, log)
	imageService := catalogapp.NewImageService(restaurantRepo, menuItemRepo, imageStorage,
		catalogapp.ImageServiceConfig{
			UploadURLExpiry: cfg.Storage.PresignExpiration,
			MaxImageSize:    cfg.Storage.MaxImageSize,
		}, log)

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService, log),
		User:          handler.NewUserHandler(userService, log),
		Restaurant:    handler.NewRestaurantHandler(restaurantService, log),
		MenuItem:      handler.NewMenuItemHandler(menuItemService, log),
		Order:         handler.NewOrderHandler(orderService, log),
		PaymentMethod: handler.NewPaymentMethodHandler(paymentMethodService, log),
		Image:         handler.NewImageHandler(imageService, log),
		MenuImport:    handler.NewMenuImportHandler(menuImportService, log),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	jwtConfig := middleware.DefaultAuthConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	jwtMiddleware := middleware.AuthenticateWithConfig(jwtConfig)

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction()

	engine := router.NewEngine(router.EngineConfig{
		Logger:         log,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Security:      security,
		MaxBodySize:   cfg.HTTP.MaxBodySize,
		MaxUploadSize: cfg.HTTP.MaxUploadSize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		Metrics: middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       meterProvider.IsEnabled(),
		},
		Swagger: middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		},
		SwaggerAuth: jwtMiddleware,
		Health:      handler.NewHealthHandler(db, cfg.App.Name, version),
	})

	authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateBurst)
	defer authLimiter.Stop()

	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = profiler != nil && profiler.IsEnabled()

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(jwtMiddleware, middleware.TracingAttributeInjector(), middleware.ProfilingWithConfig(profiling))
	r.Register(router.APIRoutes(handlers, router.APIOptions{
		AuthLimiter: middleware.RateLimit(authLimiter),
		Logger:      log,
	})...)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("api", r.BasePath()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
