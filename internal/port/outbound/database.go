package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/uniedit/uploader/internal/model"
)

// UploadRecordDatabasePort persists issued upload credentials.
type UploadRecordDatabasePort interface {
	// Create stores a new record.
	Create(ctx context.Context, record *model.UploadRecord) error
}

// RateLimiterPort defines rate limiting operations.
type RateLimiterPort interface {
	// Allow checks if a request is allowed within rate limits.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// GetRemaining returns remaining requests in window.
	GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}

// JWTClaims represents validated bearer token claims.
type JWTClaims struct {
	UserID uuid.UUID
	Email  string
}
