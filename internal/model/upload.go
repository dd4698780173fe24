package model

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// UploadFile is a binary payload owned by the caller. The pipeline only reads it.
type UploadFile interface {
	Name() string
	Size() int64
	MimeType() string
	// Open returns a fresh reader positioned at the first byte.
	Open() (io.ReadCloser, error)
}

// UploadCredentialRequest is the body sent to the credential broker.
type UploadCredentialRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileType string `json:"fileType" binding:"required"`
	AppName  string `json:"appName" binding:"required"`
	Folder   string `json:"folder"`
}

// UploadCredential is a time-boxed, single-object PUT authorization.
// It is never persisted by the client.
type UploadCredential struct {
	UploadURL  string `json:"uploadURL"`
	FileKey    string `json:"fileKey"`
	BucketName string `json:"bucketName"`
	FileURL    string `json:"fileURL"`
	AppName    string `json:"appName"`
}

// UploadRecord is the broker's audit row for an issued credential.
type UploadRecord struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	AppName     string    `json:"app_name" gorm:"index"`
	Folder      string    `json:"folder"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	ObjectKey   string    `json:"object_key" gorm:"uniqueIndex"`
	Bucket      string    `json:"bucket"`
	PublicURL   string    `json:"public_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the table name.
func (UploadRecord) TableName() string {
	return "upload_records"
}
