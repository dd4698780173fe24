package credential

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

const maxNameLength = 128

// KeyBuilder derives object keys for uploads.
type KeyBuilder struct {
	newID func() string
}

// NewKeyBuilder creates a key builder backed by random UUIDs.
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{newID: func() string { return uuid.NewString() }}
}

// Build returns <app>/<folder>/<id>-<name>. The folder segment is omitted when empty.
func (b *KeyBuilder) Build(app, folder, fileName string) string {
	name := b.newID() + "-" + SanitizeFileName(fileName)
	if folder == "" {
		return path.Join(app, name)
	}
	return path.Join(app, folder, name)
}

// CleanFolder normalises a folder path. It rejects traversal and absolute paths.
func CleanFolder(folder string) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return "", nil
	}
	if strings.HasPrefix(folder, "/") || strings.Contains(folder, "\\") {
		return "", ErrInvalidFolder
	}

	segments := strings.Split(folder, "/")
	cleaned := make([]string, 0, len(segments))
	for _, s := range segments {
		switch s {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidFolder
		}
		cleaned = append(cleaned, sanitizeSegment(s))
	}
	return strings.Join(cleaned, "/"), nil
}

// SanitizeFileName keeps the base name and replaces anything outside [A-Za-z0-9._-].
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}
	name = sanitizeSegment(name)
	if len(name) > maxNameLength {
		ext := path.Ext(name)
		if len(ext) >= maxNameLength {
			ext = ""
		}
		name = name[:maxNameLength-len(ext)] + ext
	}
	if strings.Trim(name, "._-") == "" {
		return "file"
	}
	return name
}

func sanitizeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
