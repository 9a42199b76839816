package router

import (
	"net/http"

	"github.com/foodorder/backend/internal/infrastructure/logger"
	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/foodorder/backend/internal/interfaces/http/handler"
	"github.com/foodorder/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// EngineConfig configures the gin engine and its global middleware stack
type EngineConfig struct {
	Logger         *zap.Logger
	AccessLog      logger.AccessLogConfig
	TrustedProxies []string
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	MaxBodySize    int64
	MaxUploadSize  int64
	Tracing        middleware.TracingConfig
	Metrics        middleware.HTTPMetricsConfig
	Swagger        middleware.SwaggerConfig
	// SwaggerAuth authenticates documentation requests when Swagger.RequireAuth is set
	SwaggerAuth gin.HandlerFunc
	Health      *handler.HealthHandler
}

// NewEngine creates a gin engine with the global middleware stack, the
// health endpoints and the documentation route. API routes are added
// separately through a Router.
//
// Middleware order:
//  1. RequestID - generate or propagate the request ID
//  2. Recovery - catch panics
//  3. Logger - log requests
//  4. Security headers
//  5. CORS
//  6. BodyLimit
//  7. Tracing, span status and HTTP metrics
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	accessLog := cfg.AccessLog
	if accessLog.SkipPaths == nil && accessLog.SlowThreshold == 0 {
		accessLog = logger.DefaultAccessLogConfig()
	}
	engine.Use(logger.AccessLog(log, accessLog))
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(middleware.BodyLimit(middleware.BodyLimitConfig{
		MaxBytes:          cfg.MaxBodySize,
		MaxMultipartBytes: cfg.MaxUploadSize,
	}))
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(cfg.Metrics))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", c.GetString(middleware.RequestIDContextKey)))
	})

	if cfg.Health != nil {
		engine.GET("/health", cfg.Health.Health)
		engine.GET("/api/v1/health", cfg.Health.Health)
	}

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, cfg.SwaggerAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	return engine
}
