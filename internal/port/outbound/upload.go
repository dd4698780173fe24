package outbound

import (
	"context"

	"github.com/uniedit/uploader/internal/model"
)

// TransferProgress is a byte-level snapshot reported by an object transport.
type TransferProgress struct {
	Loaded     int64
	Total      int64
	Percentage float64
}

// CredentialBrokerPort obtains upload credentials from the trusted backend.
type CredentialBrokerPort interface {
	// AcquireCredential performs exactly one authenticated call. It never retries.
	AcquireCredential(ctx context.Context, req *model.UploadCredentialRequest) (*model.UploadCredential, error)
}

// ObjectTransportPort writes a payload to a credentialed destination.
type ObjectTransportPort interface {
	// PutObject uploads file to destinationURL. onProgress may be nil.
	// Cancelling ctx aborts the in-flight request.
	PutObject(ctx context.Context, destinationURL string, file model.UploadFile, onProgress func(TransferProgress)) error
}
