// Package objectput transfers file bytes to a presigned object-storage URL.
package objectput

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/uniedit/uploader/internal/domain/upload"
	"github.com/uniedit/uploader/internal/model"
	"github.com/uniedit/uploader/internal/port/outbound"
)

// Transport performs a single HTTP PUT per file.
type Transport struct {
	client *http.Client
	logger *zap.Logger
}

// NewTransport creates a new PUT transport. The client should not carry an
// overall timeout since large transfers may take long; use ctx instead.
func NewTransport(client *http.Client, logger *zap.Logger) *Transport {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{client: client, logger: logger}
}

// PutObject uploads the file body to destinationURL.
func (t *Transport) PutObject(ctx context.Context, destinationURL string, file model.UploadFile, onProgress func(outbound.TransferProgress)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", upload.ErrCancelled, err)
	}

	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", upload.ErrTransport, file.Name(), err)
	}
	defer rc.Close()

	size := file.Size()
	body := &progressReader{r: rc, total: size, onProgress: onProgress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, destinationURL, body)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", upload.ErrTransport, err)
	}
	req.ContentLength = size
	if size == 0 {
		req.Body = http.NoBody
	}
	req.Header.Set("Content-Type", file.MimeType())

	resp, err := t.client.Do(req)
	// The body may still be read after an early response; no progress after this point.
	body.stop()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", upload.ErrCancelled, ctx.Err())
		}
		t.logger.Warn("object upload network failure", zap.String("file", file.Name()), zap.Error(err))
		return fmt.Errorf("%w: Network error during upload: %w", upload.ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.logger.Warn("object storage rejected upload",
			zap.String("file", file.Name()),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: Failed to upload to storage: %s", upload.ErrTransport, resp.Status)
	}
	return nil
}

// progressReader counts bytes handed to the HTTP client.
type progressReader struct {
	r          io.Reader
	total      int64
	onProgress func(outbound.TransferProgress)

	mu      sync.Mutex
	loaded  int64
	stopped bool
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.mu.Lock()
		p.loaded += int64(n)
		if !p.stopped && p.onProgress != nil {
			p.onProgress(outbound.TransferProgress{
				Loaded:     p.loaded,
				Total:      p.total,
				Percentage: percentage(p.loaded, p.total),
			})
		}
		p.mu.Unlock()
	}
	return n, err
}

func (p *progressReader) stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}

func percentage(loaded, total int64) float64 {
	if total <= 0 {
		return 100
	}
	pct := math.Round(float64(loaded) / float64(total) * 100)
	return math.Min(pct, 100)
}

// Compile-time interface assertion.
var _ outbound.ObjectTransportPort = (*Transport)(nil)
