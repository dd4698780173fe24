package credential

import "errors"

var (
	// ErrAppNotAllowed is returned when the requested application namespace is not configured.
	ErrAppNotAllowed = errors.New("app not allowed")

	// ErrInvalidRequest is returned when required request fields are missing.
	ErrInvalidRequest = errors.New("invalid upload request")

	// ErrInvalidFolder is returned when the folder escapes its namespace.
	ErrInvalidFolder = errors.New("invalid folder")

	// ErrPresignFailed is returned when the storage backend could not sign the upload.
	ErrPresignFailed = errors.New("failed to presign upload")
)
