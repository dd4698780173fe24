// Package minio issues presigned uploads against a MinIO server.
package minio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/uniedit/uploader/internal/port/outbound"
)

// ErrIncompleteConfig is returned when required MinIO settings are missing.
var ErrIncompleteConfig = errors.New("incomplete MinIO configuration")

const defaultRegion = "us-east-1"

// Config holds MinIO connection settings. Endpoint may carry a scheme.
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Presigner issues presigned PUT URLs through minio-go.
type Presigner struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewPresigner creates a new MinIO presigner.
func NewPresigner(cfg *Config) (*Presigner, error) {
	if cfg == nil || cfg.Endpoint == "" || cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, ErrIncompleteConfig
	}

	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	// A fixed region avoids a bucket-location lookup on every presign.
	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	scheme := "http"
	if secure {
		scheme = "https"
	}

	return &Presigner{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: scheme + "://" + host,
	}, nil
}

// PresignPut signs a PUT for key. MinIO presigned PUTs do not bind the content type.
func (p *Presigner) PresignPut(ctx context.Context, key, _ string, expiry time.Duration) (*outbound.PresignedUpload, error) {
	u, err := p.client.PresignedPutObject(ctx, p.bucket, key, expiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &outbound.PresignedUpload{
		URL:       u.String(),
		Method:    http.MethodPut,
		Bucket:    p.bucket,
		Key:       key,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// ObjectURL returns the path-style URL of key.
func (p *Presigner) ObjectURL(key string) string {
	return p.baseURL + "/" + p.bucket + "/" + (&url.URL{Path: key}).EscapedPath()
}

func splitEndpoint(endpoint string) (host string, secure bool, err error) {
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), false, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse minio endpoint: %w", err)
	}
	return u.Host, u.Scheme == "https", nil
}

// Compile-time check
var _ outbound.PresignPort = (*Presigner)(nil)
