package upload

import (
	"fmt"
	"slices"
	"strings"

	"github.com/uniedit/uploader/internal/model"
)

// DefaultMaxSizeBytes is the size limit applied when a policy does not set one.
const DefaultMaxSizeBytes int64 = 10 * 1024 * 1024

// Policy describes which files may be uploaded.
type Policy struct {
	// MaxSizeBytes is the largest accepted file size.
	MaxSizeBytes int64

	// AllowedMimeTypes restricts MIME types. Empty means unrestricted.
	AllowedMimeTypes []string

	// AllowedExtensions restricts file extensions, compared case-insensitively.
	// A leading dot is ignored. Empty means unrestricted.
	AllowedExtensions []string
}

// DefaultPolicy returns a 10MB policy with no type or extension restriction.
func DefaultPolicy() Policy {
	return Policy{MaxSizeBytes: DefaultMaxSizeBytes}
}

// normalized returns an independent copy with defaults applied.
func (p Policy) normalized() Policy {
	out := Policy{
		MaxSizeBytes:     p.MaxSizeBytes,
		AllowedMimeTypes: slices.Clone(p.AllowedMimeTypes),
	}
	if out.MaxSizeBytes <= 0 {
		out.MaxSizeBytes = DefaultMaxSizeBytes
	}
	for _, ext := range p.AllowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out.AllowedExtensions = append(out.AllowedExtensions, ext)
		}
	}
	return out
}

// Validate checks f against the policy without any I/O.
// Checks run size, then type, then extension; the first failure is returned.
func (p Policy) Validate(f model.UploadFile) error {
	p = p.normalized()

	if f.Size() > p.MaxSizeBytes {
		return &ValidationError{
			Kind: ErrSizeExceeded,
			Message: fmt.Sprintf("File size (%sMB) exceeds maximum allowed size (%sMB)",
				megabytes(f.Size()), megabytes(p.MaxSizeBytes)),
		}
	}

	if len(p.AllowedMimeTypes) > 0 && !slices.Contains(p.AllowedMimeTypes, f.MimeType()) {
		return &ValidationError{
			Kind: ErrTypeNotAllowed,
			Message: fmt.Sprintf("File type %q is not allowed. Allowed types: %s",
				f.MimeType(), strings.Join(p.AllowedMimeTypes, ", ")),
		}
	}

	if len(p.AllowedExtensions) > 0 {
		ext := Extension(f.Name())
		if ext == "" || !slices.Contains(p.AllowedExtensions, ext) {
			return &ValidationError{
				Kind: ErrExtensionNotAllowed,
				Message: fmt.Sprintf("File extension %q is not allowed. Allowed extensions: %s",
					ext, strings.Join(p.AllowedExtensions, ", ")),
			}
		}
	}

	return nil
}

// Extension returns the lower-cased text after the last dot of name,
// or "" when name has no dot.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

func megabytes(n int64) string {
	return fmt.Sprintf("%.2f", float64(n)/1024/1024)
}
