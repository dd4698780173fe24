package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/uniedit/uploader/internal/model"
)

// bytesFile is an in-memory payload.
type bytesFile struct {
	name     string
	mimeType string
	data     []byte
}

// NewBytesFile wraps data as an upload file. data must not be modified afterwards.
func NewBytesFile(name, mimeType string, data []byte) model.UploadFile {
	return &bytesFile{name: name, mimeType: mimeType, data: data}
}

func (f *bytesFile) Name() string     { return f.name }
func (f *bytesFile) Size() int64      { return int64(len(f.data)) }
func (f *bytesFile) MimeType() string { return f.mimeType }

func (f *bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// localFile is a payload backed by a file on disk.
type localFile struct {
	path     string
	name     string
	size     int64
	mimeType string
}

// OpenLocalFile stats path and resolves its MIME type, first from the
// extension and then by sniffing the content.
func OpenLocalFile(path string) (model.UploadFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mimeType, err := detectMimeType(path)
	if err != nil {
		return nil, err
	}

	return &localFile{
		path:     path,
		name:     filepath.Base(path),
		size:     info.Size(),
		mimeType: mimeType,
	}, nil
}

func (f *localFile) Name() string     { return f.name }
func (f *localFile) Size() int64      { return f.size }
func (f *localFile) MimeType() string { return f.mimeType }

func (f *localFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

func detectMimeType(path string) (string, error) {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return baseMediaType(byExt), nil
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect mime type of %s: %w", path, err)
	}
	return baseMediaType(detected.String()), nil
}

// baseMediaType drops parameters such as charset.
func baseMediaType(v string) string {
	mediaType, _, err := mime.ParseMediaType(v)
	if err != nil {
		return v
	}
	return mediaType
}
