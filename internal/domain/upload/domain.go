package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uniedit/uploader/internal/model"
	"github.com/uniedit/uploader/internal/port/outbound"
)

// Domain orchestrates direct-to-storage uploads. It holds no per-upload state
// and is safe for concurrent use.
type Domain struct {
	broker    outbound.CredentialBrokerPort
	transport outbound.ObjectTransportPort
	cfg       *Config
	logger    *zap.Logger
}

// NewDomain creates a new upload domain.
func NewDomain(
	broker outbound.CredentialBrokerPort,
	transport outbound.ObjectTransportPort,
	cfg *Config,
	logger *zap.Logger,
) *Domain {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	copied := *cfg
	copied.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Domain{
		broker:    broker,
		transport: transport,
		cfg:       &copied,
		logger:    logger,
	}
}

// Config returns a copy of the effective configuration.
func (d *Domain) Config() Config {
	return *d.cfg
}

type uploadOptions struct {
	policy    Policy
	namespace Namespace
	progress  func(Progress)
}

// Option customises a single upload.
type Option func(*uploadOptions)

// WithProgress registers a sink receiving every progress snapshot in order.
func WithProgress(fn func(Progress)) Option {
	return func(o *uploadOptions) {
		o.progress = fn
	}
}

// WithPolicy overrides the domain's default policy for one upload.
func WithPolicy(p Policy) Option {
	return func(o *uploadOptions) {
		o.policy = p.normalized()
	}
}

// WithNamespace overrides the domain's default namespace for one upload.
func WithNamespace(ns Namespace) Option {
	return func(o *uploadOptions) {
		o.namespace = ns
	}
}

func (d *Domain) options(opts []Option) uploadOptions {
	o := uploadOptions{
		policy:    d.cfg.Policy,
		namespace: d.cfg.Namespace,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Upload validates file, acquires a credential and PUTs the bytes to object
// storage. It returns the public URL of the stored object. Any failure is an
// *UploadError; a validation failure produces no progress and no network call.
func (d *Domain) Upload(ctx context.Context, file model.UploadFile, opts ...Option) (string, error) {
	o := d.options(opts)

	if err := o.policy.Validate(file); err != nil {
		d.logger.Debug("upload rejected",
			zap.String("file_name", file.Name()),
			zap.Int64("file_size", file.Size()),
			zap.String("file_type", file.MimeType()),
			zap.Error(err),
		)
		return "", &UploadError{FileName: file.Name(), Err: err}
	}

	start := time.Now()
	reporter := newProgressReporter(o.progress, file.Size())

	publicURL, err := d.run(ctx, file, o.namespace, reporter)
	if err != nil {
		reporter.failed()
		d.logger.Warn("upload failed",
			zap.String("file_name", file.Name()),
			zap.Int64("file_size", file.Size()),
			zap.String("file_type", file.MimeType()),
			zap.Error(err),
		)
		return "", &UploadError{FileName: file.Name(), Err: err}
	}

	d.logger.Info("upload complete",
		zap.String("file_name", file.Name()),
		zap.Int64("file_size", file.Size()),
		zap.Duration("duration", time.Since(start)),
	)
	return publicURL, nil
}

func (d *Domain) run(ctx context.Context, file model.UploadFile, ns Namespace, reporter *progressReporter) (string, error) {
	reporter.initializing()
	if ctx.Err() != nil {
		return "", ErrCancelled
	}

	reporter.acquiringCredential()
	cred, err := d.broker.AcquireCredential(ctx, &model.UploadCredentialRequest{
		FileName: file.Name(),
		FileType: file.MimeType(),
		AppName:  ns.AppName,
		Folder:   ns.Folder,
	})
	if err != nil {
		return "", classify(ctx, err, ErrCredential)
	}

	d.logger.Debug("upload credential acquired",
		zap.String("file_key", cred.FileKey),
		zap.String("bucket", cred.BucketName),
		zap.Bool("has_upload_url", cred.UploadURL != ""),
	)

	if err := d.transport.PutObject(ctx, cred.UploadURL, file, reporter.transferring); err != nil {
		return "", classify(ctx, err, ErrTransport)
	}

	reporter.complete()
	return cred.FileURL, nil
}

// classify makes sure err matches either ErrCancelled or the given stage sentinel.
func classify(ctx context.Context, err, stage error) error {
	switch {
	case errors.Is(err, ErrCancelled):
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	case errors.Is(err, stage):
		return err
	default:
		return fmt.Errorf("%w: %v", stage, err)
	}
}
