package app

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/uniedit/uploader/internal/domain/credential"

	// Inbound adapters
	ginadapter "github.com/uniedit/uploader/internal/adapter/inbound/gin"

	// Ports
	"github.com/uniedit/uploader/internal/port/outbound"

	// Outbound adapters
	minioadapter "github.com/uniedit/uploader/internal/adapter/outbound/minio"
	"github.com/uniedit/uploader/internal/adapter/outbound/postgres"
	redisadapter "github.com/uniedit/uploader/internal/adapter/outbound/redis"
	s3adapter "github.com/uniedit/uploader/internal/adapter/outbound/s3"

	// Infrastructure
	"github.com/uniedit/uploader/internal/infra/auth"
	"github.com/uniedit/uploader/internal/infra/cache"
	"github.com/uniedit/uploader/internal/infra/config"
	"github.com/uniedit/uploader/internal/infra/database"

	// Utils
	"github.com/uniedit/uploader/internal/utils/logger"
	"github.com/uniedit/uploader/internal/utils/metrics"
	"github.com/uniedit/uploader/internal/utils/middleware"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideRateLimiter,
	ProvideJWTValidator,
)

// ProvideLogger creates a zap logger instance.
func ProvideLogger(cfg *config.Config) *zap.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideRegistry creates the prometheus registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.NewWithRegistry("uploader", reg)
}

// ProvideDatabase creates a database connection. It returns nil when the
// database is disabled.
func ProvideDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	if !cfg.Database.Enabled {
		return nil, func() {}, nil
	}
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional; connection
// failures are logged and yield nil.
func ProvideRedisClient(cfg *config.Config, log *zap.Logger) (*goredis.Client, func()) {
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(context.Background(), &cfg.Redis)
	if err != nil {
		log.Warn("Redis connection failed, continuing without rate limiting", zap.Error(err))
		return nil, func() {}
	}
	return client, func() {
		if err := cache.Close(client); err != nil {
			log.Warn("failed to close redis", zap.Error(err))
		}
	}
}

// ProvideRateLimiter creates a rate limiter.
func ProvideRateLimiter(client *goredis.Client) outbound.RateLimiterPort {
	if client == nil {
		return nil
	}
	return redisadapter.NewRateLimiter(client)
}

// ProvideJWTValidator creates the bearer token validator.
func ProvideJWTValidator(cfg *config.Config) (middleware.JWTValidator, error) {
	return auth.NewJWTValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
}

// ===== Credential Domain Providers =====

// CredentialSet provides credential domain dependencies.
var CredentialSet = wire.NewSet(
	ProvidePresigner,
	ProvideUploadRecordDB,
	ProvideCredentialMetrics,
	ProvideCredentialDomain,
)

// ProvidePresigner creates the object storage presigner for storage.driver.
func ProvidePresigner(cfg *config.Config) (outbound.PresignPort, error) {
	s := cfg.Storage
	switch s.Driver {
	case "", "s3", "r2":
		return s3adapter.NewPresigner(context.Background(), &s3adapter.Config{
			Endpoint:        s.Endpoint,
			Region:          s.Region,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
			Bucket:          s.Bucket,
			UsePathStyle:    s.UsePathStyle,
		})
	case "minio":
		region := s.Region
		if region == "auto" {
			region = ""
		}
		return minioadapter.NewPresigner(&minioadapter.Config{
			Endpoint:        s.Endpoint,
			Region:          region,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
			Bucket:          s.Bucket,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}

// ProvideUploadRecordDB creates the issuance record adapter. It returns nil
// when no database is configured.
func ProvideUploadRecordDB(db *gorm.DB, m *metrics.Metrics) outbound.UploadRecordDatabasePort {
	if db == nil {
		return nil
	}
	return postgres.NewUploadRecordAdapter(db, m)
}

// ProvideCredentialMetrics exposes metrics as the credential metrics port.
func ProvideCredentialMetrics(m *metrics.Metrics) outbound.CredentialMetricsPort {
	return m
}

// ProvideCredentialDomain creates the credential domain.
func ProvideCredentialDomain(
	presigner outbound.PresignPort,
	recordDB outbound.UploadRecordDatabasePort,
	credentialMetrics outbound.CredentialMetricsPort,
	cfg *config.Config,
	log *zap.Logger,
) credential.CredentialDomain {
	return credential.NewDomain(
		presigner,
		recordDB,
		credentialMetrics,
		&credential.Config{
			AllowedApps:   cfg.Broker.AllowedApps,
			URLExpiry:     cfg.Broker.URLExpiry,
			PublicBaseURL: cfg.Broker.PublicBaseURL,
		},
		log.Named("credential"),
	)
}

// ===== HTTP Handler Providers =====

// HandlerSet provides HTTP handlers.
var HandlerSet = wire.NewSet(
	ginadapter.NewUploadHandler,
)

// AppSet combines all provider sets.
var AppSet = wire.NewSet(
	InfraSet,
	CredentialSet,
	HandlerSet,
)
