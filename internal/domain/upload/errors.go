package upload

import (
	"errors"
	"fmt"
)

var (
	// ErrSizeExceeded is returned when a file is larger than the policy allows.
	ErrSizeExceeded = errors.New("file size exceeded")

	// ErrTypeNotAllowed is returned when a file's MIME type is not in the allow-list.
	ErrTypeNotAllowed = errors.New("file type not allowed")

	// ErrExtensionNotAllowed is returned when a file's extension is not in the allow-list.
	ErrExtensionNotAllowed = errors.New("file extension not allowed")

	// ErrCredential is returned when an upload credential could not be acquired.
	ErrCredential = errors.New("upload credential unavailable")

	// ErrTransport is returned when the object PUT failed.
	ErrTransport = errors.New("object transfer failed")

	// ErrCancelled is returned when the caller aborted the upload.
	ErrCancelled = errors.New("upload was cancelled")
)

// ValidationError is a pre-flight rejection with a human readable message.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel describing the kind of rejection.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// UploadError wraps any failure of a single upload with the file name.
type UploadError struct {
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Upload failed for %q: Unknown error", e.FileName)
	}
	return fmt.Sprintf("Upload failed for %q: %v", e.FileName, e.Err)
}

// Unwrap returns the underlying cause.
func (e *UploadError) Unwrap() error {
	return e.Err
}
