package outbound

import (
	"context"
	"time"
)

// PresignedUpload is a presigned PUT request for one object.
type PresignedUpload struct {
	URL       string
	Method    string
	Bucket    string
	Key       string
	ExpiresAt time.Time
}

// PresignPort issues presigned upload URLs against an object store.
type PresignPort interface {
	// PresignPut signs a PUT for key bound to contentType, valid for expiry.
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (*PresignedUpload, error)

	// ObjectURL returns the URL under which key is reachable once uploaded.
	ObjectURL(key string) string
}
