package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/uniedit/uploader/internal/model"
	"github.com/uniedit/uploader/internal/port/outbound"
)

// fakeBroker hands out unique credentials and fails for listed file names.
type fakeBroker struct {
	seq     atomic.Int64
	failFor map[string]bool
}

func (b *fakeBroker) AcquireCredential(_ context.Context, req *model.UploadCredentialRequest) (*model.UploadCredential, error) {
	if b.failFor[req.FileName] {
		return nil, errors.New("API Error: 500 - broker unavailable")
	}
	return credentialFor(fmt.Sprintf("%d-%s", b.seq.Add(1), req.FileName)), nil
}

// eventLog records start/end of each transfer.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) indexOf(e string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, v := range l.events {
		if v == e {
			return i
		}
	}
	return -1
}

type fakeTransport struct {
	log *eventLog
}

func (t *fakeTransport) PutObject(ctx context.Context, _ string, file model.UploadFile, onProgress func(outbound.TransferProgress)) error {
	t.log.add("start " + file.Name())
	defer t.log.add("end " + file.Name())

	select {
	case <-time.After(5 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	onProgress(outbound.TransferProgress{Loaded: file.Size(), Total: file.Size(), Percentage: 100})
	return nil
}

func batchFiles(n int) []model.UploadFile {
	files := make([]model.UploadFile, n)
	for i := range files {
		files[i] = NewBytesFile(fmt.Sprintf("file%d.png", i+1), "image/png", []byte("png"))
	}
	return files
}

func TestDomain_UploadAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("partial_failure_is_isolated", func(t *testing.T) {
		log := &eventLog{}
		broker := &fakeBroker{failFor: map[string]bool{"file3.png": true}}
		domain := NewDomain(broker, &fakeTransport{log: log}, DefaultConfig(), zap.NewNop())

		files := batchFiles(5)
		result := domain.UploadAll(context.Background(), files, WithConcurrency(2))

		require.Len(t, result.Succeeded, 4)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, 2, result.Failed[0].Index)
		assert.Equal(t, "file3.png", result.Failed[0].File.Name())
		assert.True(t, errors.Is(result.Failed[0].Err, ErrCredential))

		wantOrder := []string{"file1.png", "file2.png", "file4.png", "file5.png"}
		for i, url := range result.Succeeded {
			assert.Contains(t, url, wantOrder[i])
		}

		// Cohorts settle before the next one starts.
		assert.Less(t, log.indexOf("end file1.png"), log.indexOf("start file4.png"))
		assert.Less(t, log.indexOf("end file2.png"), log.indexOf("start file4.png"))
		assert.Less(t, log.indexOf("end file4.png"), log.indexOf("start file5.png"))
		assert.Equal(t, -1, log.indexOf("start file3.png"))
	})

	t.Run("every_file_reaches_terminal_state", func(t *testing.T) {
		broker := &fakeBroker{failFor: map[string]bool{"file1.png": true, "file7.png": true}}
		domain := NewDomain(broker, &fakeTransport{log: &eventLog{}}, DefaultConfig(), zap.NewNop())

		files := batchFiles(7)
		result := domain.UploadAll(context.Background(), files)

		assert.Equal(t, len(files), len(result.Succeeded)+len(result.Failed))
		assert.Len(t, result.Failed, 2)
	})

	t.Run("validation_failures_are_collected", func(t *testing.T) {
		broker := &fakeBroker{}
		domain := NewDomain(broker, &fakeTransport{log: &eventLog{}}, DefaultConfig(), zap.NewNop())

		files := []model.UploadFile{
			NewBytesFile("ok.png", "image/png", []byte("png")),
			NewBytesFile("bad.exe", "application/x-msdownload", []byte("MZ")),
		}
		result := domain.UploadAll(context.Background(), files,
			WithBatchPolicy(Policy{MaxSizeBytes: 1024, AllowedExtensions: []string{"png"}}),
		)

		assert.Len(t, result.Succeeded, 1)
		require.Len(t, result.Failed, 1)
		assert.True(t, errors.Is(result.Failed[0].Err, ErrExtensionNotAllowed))
	})

	t.Run("progress_reports_every_file", func(t *testing.T) {
		broker := &fakeBroker{}
		domain := NewDomain(broker, &fakeTransport{log: &eventLog{}}, DefaultConfig(), zap.NewNop())

		var (
			mu       sync.Mutex
			events   []BatchProgress
			inFlight atomic.Int32
			overlap  atomic.Bool
		)
		files := batchFiles(4)
		result := domain.UploadAll(context.Background(), files,
			WithConcurrency(4),
			WithBatchProgress(func(p BatchProgress) {
				if inFlight.Add(1) > 1 {
					overlap.Store(true)
				}
				defer inFlight.Add(-1)
				mu.Lock()
				events = append(events, p)
				mu.Unlock()
			}),
		)

		require.Len(t, result.Succeeded, 4)
		assert.False(t, overlap.Load())

		completedPerFile := map[int]bool{}
		for _, e := range events {
			assert.Equal(t, 4, e.Total)
			assert.Equal(t, files[e.FileIndex].Name(), e.FileName)
			assert.LessOrEqual(t, e.Completed, 4)
			if e.Progress.Phase == PhaseComplete {
				completedPerFile[e.FileIndex] = true
			}
		}
		assert.Len(t, completedPerFile, 4)
	})

	t.Run("empty_input", func(t *testing.T) {
		domain := NewDomain(&fakeBroker{}, &fakeTransport{log: &eventLog{}}, nil, nil)
		result := domain.UploadAll(context.Background(), nil)
		assert.Empty(t, result.Succeeded)
		assert.Empty(t, result.Failed)
	})

	t.Run("non_positive_concurrency_uses_default", func(t *testing.T) {
		log := &eventLog{}
		domain := NewDomain(&fakeBroker{}, &fakeTransport{log: log}, DefaultConfig(), zap.NewNop())

		result := domain.UploadAll(context.Background(), batchFiles(4), WithConcurrency(0))

		assert.Len(t, result.Succeeded, 4)
		assert.Less(t, log.indexOf("end file1.png"), log.indexOf("start file4.png"))
	})
}
