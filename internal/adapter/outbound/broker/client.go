// Package broker is the client side of the upload credential broker.
package broker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/uniedit/uploader/internal/adapter/outbound/authfetch"
	"github.com/uniedit/uploader/internal/domain/upload"
	"github.com/uniedit/uploader/internal/model"
	"github.com/uniedit/uploader/internal/port/outbound"
)

// ErrNoBaseURL is returned when the broker base URL is not configured.
var ErrNoBaseURL = errors.New("upload URL is not defined")

const generatePath = "generate-upload-url"

// Config contains broker client configuration.
type Config struct {
	BaseURL          string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// DefaultConfig returns the default broker client configuration.
func DefaultConfig() *Config {
	return &Config{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// Client acquires upload credentials from the broker.
type Client struct {
	fetch    *authfetch.Client
	endpoint string
	breaker  *gobreaker.CircuitBreaker[*model.UploadCredential]
	logger   *zap.Logger
}

// NewClient creates a new broker client.
func NewClient(fetch *authfetch.Client, cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	endpoint, err := url.JoinPath(cfg.BaseURL, generatePath)
	if err != nil {
		return nil, fmt.Errorf("parse broker url: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = DefaultConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        "credential-broker",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Caller cancellation and rejected requests say nothing about broker health.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return true
			}
			var apiErr *authfetch.APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Client{
		fetch:    fetch,
		endpoint: endpoint,
		breaker:  gobreaker.NewCircuitBreaker[*model.UploadCredential](settings),
		logger:   logger,
	}, nil
}

// AcquireCredential requests a presigned upload credential for one file.
func (c *Client) AcquireCredential(ctx context.Context, req *model.UploadCredentialRequest) (*model.UploadCredential, error) {
	cred, err := c.breaker.Execute(func() (*model.UploadCredential, error) {
		var out model.UploadCredential
		if err := c.fetch.DoJSON(ctx, http.MethodPost, c.endpoint, req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("credential broker unavailable", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %w", upload.ErrCredential, err)
	}

	if cred.UploadURL == "" || cred.FileURL == "" {
		return nil, fmt.Errorf("%w: incomplete credential response", upload.ErrCredential)
	}
	return cred, nil
}

// State returns the current breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Compile-time interface assertion.
var _ outbound.CredentialBrokerPort = (*Client)(nil)
