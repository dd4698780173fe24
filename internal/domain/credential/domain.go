// Package credential issues presigned upload credentials on behalf of authenticated users.
package credential

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uniedit/uploader/internal/model"
	"github.com/uniedit/uploader/internal/port/outbound"
	"github.com/uniedit/uploader/internal/utils/requestctx"
)

const (
	statusSuccess  = "success"
	statusRejected = "rejected"
	statusError    = "error"
)

// CredentialDomain defines the credential domain service interface.
type CredentialDomain interface {
	// Issue validates the request and returns a presigned upload credential.
	Issue(ctx context.Context, userID uuid.UUID, req *model.UploadCredentialRequest) (*model.UploadCredential, error)

	// AllowedApps returns the configured application namespaces.
	AllowedApps() []string
}

// Domain implements the credential domain logic.
type Domain struct {
	presigner outbound.PresignPort
	recordDB  outbound.UploadRecordDatabasePort
	metrics   outbound.CredentialMetricsPort
	keys      *KeyBuilder
	config    *Config
	logger    *zap.Logger
}

// NewDomain creates a new credential domain. recordDB and metrics may be nil.
func NewDomain(
	presigner outbound.PresignPort,
	recordDB outbound.UploadRecordDatabasePort,
	metrics outbound.CredentialMetricsPort,
	config *Config,
	logger *zap.Logger,
) *Domain {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if len(cfg.AllowedApps) == 0 {
		cfg.AllowedApps = DefaultAllowedApps()
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = DefaultURLExpiry
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Domain{
		presigner: presigner,
		recordDB:  recordDB,
		metrics:   metrics,
		keys:      NewKeyBuilder(),
		config:    &cfg,
		logger:    logger,
	}
}

// AllowedApps returns the configured application namespaces.
func (d *Domain) AllowedApps() []string {
	return slices.Clone(d.config.AllowedApps)
}

// Issue validates the request and returns a presigned upload credential.
func (d *Domain) Issue(ctx context.Context, userID uuid.UUID, req *model.UploadCredentialRequest) (*model.UploadCredential, error) {
	fileName := strings.TrimSpace(req.FileName)
	fileType := strings.TrimSpace(req.FileType)
	app := strings.TrimSpace(req.AppName)

	if fileName == "" || fileType == "" {
		d.record(app, statusRejected, 0)
		return nil, fmt.Errorf("%w: fileName and fileType are required", ErrInvalidRequest)
	}
	if !slices.Contains(d.config.AllowedApps, app) {
		d.record(app, statusRejected, 0)
		return nil, fmt.Errorf("%w: %q", ErrAppNotAllowed, app)
	}
	folder, err := CleanFolder(req.Folder)
	if err != nil {
		d.record(app, statusRejected, 0)
		return nil, fmt.Errorf("%w: %q", err, req.Folder)
	}

	key := d.keys.Build(app, folder, fileName)

	start := time.Now()
	signed, err := d.presigner.PresignPut(ctx, key, fileType, d.config.URLExpiry)
	elapsed := time.Since(start)
	if err != nil {
		d.record(app, statusError, elapsed)
		d.logger.Error("presign failed", append(requestctx.LogFields(ctx),
			zap.String("user_id", userID.String()),
			zap.String("app", app),
			zap.String("key", key),
			zap.Error(err),
		)...)
		return nil, fmt.Errorf("%w: %w", ErrPresignFailed, err)
	}

	cred := &model.UploadCredential{
		UploadURL:  signed.URL,
		FileKey:    key,
		BucketName: signed.Bucket,
		FileURL:    d.fileURL(key),
		AppName:    app,
	}

	d.saveRecord(ctx, &model.UploadRecord{
		ID:          uuid.New(),
		UserID:      userID,
		AppName:     app,
		Folder:      folder,
		FileName:    fileName,
		ContentType: fileType,
		ObjectKey:   key,
		Bucket:      signed.Bucket,
		PublicURL:   cred.FileURL,
		ExpiresAt:   signed.ExpiresAt,
	})
	d.record(app, statusSuccess, elapsed)

	d.logger.Info("upload credential issued", append(requestctx.LogFields(ctx),
		zap.String("user_id", userID.String()),
		zap.String("app", app),
		zap.String("key", key),
		zap.Time("expires_at", signed.ExpiresAt),
	)...)

	return cred, nil
}

func (d *Domain) fileURL(key string) string {
	if d.config.PublicBaseURL == "" {
		return d.presigner.ObjectURL(key)
	}
	return strings.TrimRight(d.config.PublicBaseURL, "/") + "/" + key
}

// saveRecord stores the issuance. Failures are logged only.
func (d *Domain) saveRecord(ctx context.Context, rec *model.UploadRecord) {
	if d.recordDB == nil {
		return
	}
	if err := d.recordDB.Create(ctx, rec); err != nil {
		d.logger.Warn("failed to record upload issuance",
			zap.String("key", rec.ObjectKey),
			zap.Error(err),
		)
	}
}

func (d *Domain) record(app, status string, presign time.Duration) {
	if d.metrics != nil {
		d.metrics.RecordCredentialIssued(app, status, presign)
	}
}

// Compile-time check
var _ CredentialDomain = (*Domain)(nil)
