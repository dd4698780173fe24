package upload

import (
	"context"

	"github.com/uniedit/uploader/internal/model"
)

// Handle is a running upload that can be cancelled.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	url string
	err error
}

// StartUpload runs Upload in the background and returns immediately.
func (d *Domain) StartUpload(ctx context.Context, file model.UploadFile, opts ...Option) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()
		h.url, h.err = d.Upload(ctx, file, opts...)
	}()

	return h
}

// Cancel aborts the upload. It is a no-op once the upload has finished.
func (h *Handle) Cancel() {
	h.cancel()
}

// Done is closed when the upload reached a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the upload finished and returns its outcome.
func (h *Handle) Wait() (string, error) {
	<-h.done
	return h.url, h.err
}
