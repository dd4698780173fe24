package upload

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/uniedit/uploader/internal/model"
)

// BatchProgress is a progress event of one file inside a batch.
type BatchProgress struct {
	FileIndex int
	FileName  string
	Progress  Progress
	// Completed is the number of files uploaded successfully so far.
	Completed int
	Total     int
}

// BatchFailure describes a file that did not upload.
type BatchFailure struct {
	Index int
	File  model.UploadFile
	Err   error
}

// BatchResult aggregates the outcome of UploadAll.
// len(Succeeded)+len(Failed) always equals the number of input files.
type BatchResult struct {
	Succeeded []string
	Failed    []BatchFailure
}

type batchOptions struct {
	concurrency int
	policy      *Policy
	namespace   *Namespace
	progress    func(BatchProgress)
}

// BatchOption customises UploadAll.
type BatchOption func(*batchOptions)

// WithConcurrency sets the cohort size. Values below 1 use the default.
func WithConcurrency(n int) BatchOption {
	return func(o *batchOptions) {
		o.concurrency = n
	}
}

// WithBatchProgress registers a sink for every progress event of every file.
// Calls are serialised.
func WithBatchProgress(fn func(BatchProgress)) BatchOption {
	return func(o *batchOptions) {
		o.progress = fn
	}
}

// WithBatchPolicy overrides the policy for every file of the batch.
func WithBatchPolicy(p Policy) BatchOption {
	return func(o *batchOptions) {
		o.policy = &p
	}
}

// WithBatchNamespace overrides the namespace for every file of the batch.
func WithBatchNamespace(ns Namespace) BatchOption {
	return func(o *batchOptions) {
		o.namespace = &ns
	}
}

type fileOutcome struct {
	url string
	err error
}

// UploadAll uploads files in cohorts of the configured concurrency. A cohort
// must settle completely before the next one starts. Failures are collected
// per file and never stop sibling uploads.
func (d *Domain) UploadAll(ctx context.Context, files []model.UploadFile, opts ...BatchOption) *BatchResult {
	o := batchOptions{concurrency: d.cfg.Concurrency}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = DefaultConcurrency
	}

	var uploadOpts []Option
	if o.policy != nil {
		uploadOpts = append(uploadOpts, WithPolicy(*o.policy))
	}
	if o.namespace != nil {
		uploadOpts = append(uploadOpts, WithNamespace(*o.namespace))
	}

	var (
		mu        sync.Mutex
		completed int
	)
	outcomes := make([]fileOutcome, len(files))

	for start := 0; start < len(files); start += o.concurrency {
		end := min(start+o.concurrency, len(files))

		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			file := files[i]
			sink := func(p Progress) {
				if o.progress == nil {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				o.progress(BatchProgress{
					FileIndex: i,
					FileName:  file.Name(),
					Progress:  p,
					Completed: completed,
					Total:     len(files),
				})
			}

			fileOpts := append(slices.Clone(uploadOpts), WithProgress(sink))

			g.Go(func() error {
				url, err := d.Upload(ctx, file, fileOpts...)
				if err == nil {
					mu.Lock()
					completed++
					mu.Unlock()
				}
				outcomes[i] = fileOutcome{url: url, err: err}
				return nil
			})
		}
		_ = g.Wait()
	}

	result := &BatchResult{}
	for i, out := range outcomes {
		if out.err != nil {
			result.Failed = append(result.Failed, BatchFailure{Index: i, File: files[i], Err: out.err})
			continue
		}
		result.Succeeded = append(result.Succeeded, out.url)
	}

	if len(result.Failed) > 0 {
		d.logger.Warn("batch upload finished with failures",
			zap.Int("succeeded", len(result.Succeeded)),
			zap.Int("failed", len(result.Failed)),
		)
	}
	return result
}
