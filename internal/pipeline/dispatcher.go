// ABOUTME: Batch dispatcher running external calls per chunk under a concurrency bound
// ABOUTME: Processes batches sequentially, preserves chunk order, isolates per-chunk failures
package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/harper/chunkflow/internal/models"
)

const (
	// DefaultBatchSize is the number of chunks grouped per batch
	DefaultBatchSize = 10
	// DefaultConcurrency is the global in-flight call limit
	DefaultConcurrency = 4
)

// CallFunc processes one chunk against an external endpoint and returns
// the produced content. Errors should be classified ChunkErrors; anything
// else is treated as transient.
type CallFunc func(ctx context.Context, chunk models.Chunk) (string, error)

// ProgressFunc is notified after every chunk completes, from the worker
// goroutine that finished it. Consumers must keep it cheap; it runs on
// the hot path of the workers, not of the dispatch loop.
type ProgressFunc func(completed, total int, result models.ChunkResult)

// Options tunes a dispatch run
type Options struct {
	BatchSize   int
	Concurrency int
	OnProgress  ProgressFunc
}

func (o Options) withDefaults() Options {
	if o.BatchSize < 1 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Concurrency < 1 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

// Dispatch partitions chunks into sequential batches and runs call for
// every chunk of a batch concurrently, bounded globally by
// opts.Concurrency. A batch must fully complete before the next one
// starts. One failed chunk never cancels its siblings; it becomes a
// Failure result. Context cancellation stops new batches from being
// submitted while in-flight calls finish naturally.
//
// The returned slice always has exactly one result per chunk, ordered
// by chunk index.
func Dispatch(ctx context.Context, chunks []models.Chunk, call CallFunc, opts Options) []models.ChunkResult {
	opts = opts.withDefaults()

	results := make([]models.ChunkResult, len(chunks))
	sem := make(chan struct{}, opts.Concurrency)
	var completed int64

	for batchStart := 0; batchStart < len(chunks); batchStart += opts.BatchSize {
		if ctx.Err() != nil {
			// Mark everything not yet submitted; in-flight work is already done here
			for i := batchStart; i < len(chunks); i++ {
				results[i] = models.ChunkResult{
					Index: chunks[i].Index,
					Err: &models.ChunkError{
						Kind:    models.ErrChunkProcessingFailed,
						Message: "pipeline canceled before chunk was dispatched",
					},
				}
			}
			break
		}

		batchEnd := batchStart + opts.BatchSize
		if batchEnd > len(chunks) {
			batchEnd = len(chunks)
		}

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			sem <- struct{}{}
			wg.Add(1)
			go func(slot int, chunk models.Chunk) {
				defer wg.Done()
				defer func() { <-sem }()

				results[slot] = runCall(ctx, call, chunk)

				done := int(atomic.AddInt64(&completed, 1))
				if opts.OnProgress != nil {
					opts.OnProgress(done, len(chunks), results[slot])
				}
			}(i, chunks[i])
		}
		wg.Wait()
	}

	return results
}

// runCall executes one external call and converts its outcome into a ChunkResult
func runCall(ctx context.Context, call CallFunc, chunk models.Chunk) models.ChunkResult {
	content, err := call(ctx, chunk)
	if err == nil {
		return models.ChunkResult{Index: chunk.Index, Content: content}
	}

	var ce *models.ChunkError
	if !errors.As(err, &ce) {
		ce = &models.ChunkError{Kind: models.KindOf(err), Message: err.Error()}
	}
	return models.ChunkResult{Index: chunk.Index, Err: ce}
}
