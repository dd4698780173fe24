package s3

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/uniedit/uploader/internal/port/outbound"
)

// ErrIncompleteConfig is returned when required storage settings are missing.
var ErrIncompleteConfig = errors.New("incomplete S3 configuration")

// Config holds S3-compatible storage configuration (AWS S3, R2).
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// Presigner issues presigned PUT URLs for an S3-compatible bucket.
type Presigner struct {
	presigner *s3.PresignClient
	bucket    string
	endpoint  string
	region    string
	pathStyle bool
}

// NewPresigner creates a new S3 presigner.
func NewPresigner(ctx context.Context, cfg *Config) (*Presigner, error) {
	if cfg == nil || cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, ErrIncompleteConfig
	}

	region := cfg.Region
	if region == "" {
		// R2 uses "auto"
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	// Custom endpoints (R2, local gateways) require path-style URLs.
	pathStyle := cfg.UsePathStyle || cfg.Endpoint != ""
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	return &Presigner{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		region:    region,
		pathStyle: pathStyle,
	}, nil
}

// PresignPut signs a PUT for key with the content type bound into the signature.
func (p *Presigner) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (*outbound.PresignedUpload, error) {
	req, err := p.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &outbound.PresignedUpload{
		URL:       req.URL,
		Method:    req.Method,
		Bucket:    p.bucket,
		Key:       key,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// ObjectURL returns the direct storage URL of key.
func (p *Presigner) ObjectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if p.endpoint != "" {
		return p.endpoint + "/" + p.bucket + "/" + escaped
	}
	if p.pathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", p.region, p.bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, escaped)
}

// Compile-time check
var _ outbound.PresignPort = (*Presigner)(nil)
