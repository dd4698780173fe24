package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/uniedit/uploader/cmd/server/docs" // swagger docs
	"github.com/uniedit/uploader/internal/domain/credential"
	"github.com/uniedit/uploader/internal/infra/config"
	"github.com/uniedit/uploader/internal/port/inbound"
	"github.com/uniedit/uploader/internal/port/outbound"
	"github.com/uniedit/uploader/internal/utils/metrics"
	"github.com/uniedit/uploader/internal/utils/middleware"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Registry     *prometheus.Registry
	Metrics      *metrics.Metrics
	DB           *gorm.DB
	Redis        *goredis.Client
	RateLimiter  outbound.RateLimiterPort
	JWTValidator middleware.JWTValidator

	// Domains
	CredentialDomain credential.CredentialDomain

	// HTTP Handlers
	UploadHandler inbound.UploadHttpPort
}

// App represents the credential broker application.
type App struct {
	deps    *Dependencies
	router  *gin.Engine
	cleanup func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithDependencies(deps, cleanup), nil
}

// NewWithDependencies builds the application from already constructed dependencies.
func NewWithDependencies(deps *Dependencies, cleanup func()) *App {
	if cleanup == nil {
		cleanup = func() {}
	}
	a := &App{deps: deps, cleanup: cleanup}
	a.router = a.setupRouter()
	a.registerRoutes()
	return a
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.deps.Logger
}

// Stop releases database and redis connections.
func (a *App) Stop() {
	a.cleanup()
	_ = a.deps.Logger.Sync()
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	cfg := a.deps.Config

	// Set Gin mode based on environment
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.deps.Logger))
	r.Use(middleware.Metrics(a.deps.Metrics))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	r.Use(middleware.CORS(corsCfg))

	if a.rateLimited() && cfg.RateLimit.GlobalLimit > 0 {
		r.Use(middleware.RateLimitByIP(a.deps.RateLimiter, middleware.RateLimitConfig{
			Limit:    cfg.RateLimit.GlobalLimit,
			Window:   cfg.RateLimit.GlobalWindow,
			Recorder: a.deps.Metrics,
			Logger:   a.deps.Logger,
		}))
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.deps.Registry, promhttp.HandlerOpts{})))

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// registerRoutes mounts the authenticated upload API.
func (a *App) registerRoutes() {
	cfg := a.deps.Config

	handlers := []gin.HandlerFunc{middleware.RequireAuth(a.deps.JWTValidator)}
	if a.rateLimited() && cfg.RateLimit.IssueLimit > 0 {
		handlers = append(handlers, middleware.RateLimitByUser(a.deps.RateLimiter, middleware.RateLimitConfig{
			Limit:    cfg.RateLimit.IssueLimit,
			Window:   cfg.RateLimit.IssueWindow,
			Recorder: a.deps.Metrics,
			Logger:   a.deps.Logger,
		}))
	}

	api := a.router.Group("", handlers...)
	a.deps.UploadHandler.RegisterRoutes(api)
}

func (a *App) rateLimited() bool {
	return a.deps.Config.RateLimit.Enabled && a.deps.RateLimiter != nil
}
