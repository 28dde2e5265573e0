// ABOUTME: Tests for the batch dispatcher
// ABOUTME: Covers ordering under random completion, concurrency bounds, batch barriers, and failure isolation
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harper/chunkflow/internal/models"
)

func makeChunks(n int) []models.Chunk {
	chunks := make([]models.Chunk, n)
	for i := range chunks {
		chunks[i] = models.Chunk{
			ChunkID: fmt.Sprintf("chunk_%03d", i),
			Index:   i,
			Unit:    models.ChunkUnitTokens,
			Content: fmt.Sprintf("content %d", i),
		}
	}
	return chunks
}

func TestDispatch_OrderPreservedUnderRandomCompletion(t *testing.T) {
	const n = 8
	chunks := makeChunks(n)

	// Later chunks finish first: completion order is the reverse of index order
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		time.Sleep(time.Duration(n-c.Index) * 2 * time.Millisecond)
		return fmt.Sprintf("result %d", c.Index), nil
	}

	results := Dispatch(context.Background(), chunks, call, Options{BatchSize: n, Concurrency: n})

	if len(results) != n {
		t.Fatalf("expected %d results, got %d", n, len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result at position %d has index %d", i, r.Index)
		}
		if want := fmt.Sprintf("result %d", i); r.Content != want {
			t.Errorf("result %d content = %q, want %q", i, r.Content, want)
		}
	}
}

func TestDispatch_ConcurrencyBound(t *testing.T) {
	const limit = 3
	chunks := makeChunks(20)

	var inflight, peak int64
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		cur := atomic.AddInt64(&inflight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inflight, -1)
		return "ok", nil
	}

	// Batch larger than the concurrency limit: the semaphore must still hold
	Dispatch(context.Background(), chunks, call, Options{BatchSize: 20, Concurrency: limit})

	if p := atomic.LoadInt64(&peak); p > limit {
		t.Errorf("observed %d concurrent calls, limit is %d", p, limit)
	}
}

func TestDispatch_BatchBarrier(t *testing.T) {
	const batchSize = 3
	chunks := makeChunks(6)

	var firstBatchDone int64
	var violation int64
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		if c.Index >= batchSize && atomic.LoadInt64(&firstBatchDone) != batchSize {
			atomic.StoreInt64(&violation, 1)
		}
		time.Sleep(2 * time.Millisecond)
		if c.Index < batchSize {
			atomic.AddInt64(&firstBatchDone, 1)
		}
		return "ok", nil
	}

	Dispatch(context.Background(), chunks, call, Options{BatchSize: batchSize, Concurrency: 6})

	if atomic.LoadInt64(&violation) == 1 {
		t.Error("a second-batch chunk started before the first batch completed")
	}
}

func TestDispatch_PartialFailureIsolation(t *testing.T) {
	chunks := makeChunks(5)

	call := func(ctx context.Context, c models.Chunk) (string, error) {
		if c.Index == 2 {
			return "", models.NewChunkError(models.ErrTransient, "endpoint exploded")
		}
		return fmt.Sprintf("ok %d", c.Index), nil
	}

	results := Dispatch(context.Background(), chunks, call, Options{BatchSize: 2, Concurrency: 2})

	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, r := range results {
		if i == 2 {
			if !r.Failed() {
				t.Error("chunk 2 should have failed")
			} else if r.Err.Kind != models.ErrTransient {
				t.Errorf("chunk 2 error kind = %q, want %q", r.Err.Kind, models.ErrTransient)
			}
			continue
		}
		if r.Failed() {
			t.Errorf("chunk %d should have succeeded, got %v", i, r.Err)
		}
	}
}

func TestDispatch_ProgressEvents(t *testing.T) {
	const n = 7
	chunks := makeChunks(n)

	var mu sync.Mutex
	var seen []int
	opts := Options{
		BatchSize:   3,
		Concurrency: 2,
		OnProgress: func(completed, total int, r models.ChunkResult) {
			if total != n {
				t.Errorf("progress total = %d, want %d", total, n)
			}
			mu.Lock()
			seen = append(seen, completed)
			mu.Unlock()
		},
	}

	call := func(ctx context.Context, c models.Chunk) (string, error) { return "ok", nil }
	Dispatch(context.Background(), chunks, call, opts)

	if len(seen) != n {
		t.Fatalf("expected %d progress events, got %d", n, len(seen))
	}
	sort.Ints(seen)
	for i, v := range seen {
		if v != i+1 {
			t.Errorf("completed counts should be 1..%d, got %v", n, seen)
			break
		}
	}
}

func TestDispatch_CancellationStopsNewBatches(t *testing.T) {
	chunks := makeChunks(6)
	ctx, cancel := context.WithCancel(context.Background())

	var calls int64
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		atomic.AddInt64(&calls, 1)
		cancel() // user interrupt during the first batch
		return "ok", nil
	}

	results := Dispatch(ctx, chunks, call, Options{BatchSize: 2, Concurrency: 2})

	if got := atomic.LoadInt64(&calls); got > 2 {
		t.Errorf("expected at most 2 calls (first batch only), got %d", got)
	}
	if len(results) != 6 {
		t.Fatalf("expected one result per chunk, got %d", len(results))
	}
	for i := 2; i < 6; i++ {
		if !results[i].Failed() {
			t.Errorf("undispatched chunk %d should carry a failure result", i)
			continue
		}
		if results[i].Err.Kind != models.ErrChunkProcessingFailed {
			t.Errorf("chunk %d error kind = %q, want %q", i, results[i].Err.Kind, models.ErrChunkProcessingFailed)
		}
	}
}

func TestDispatch_UnclassifiedErrorBecomesTransient(t *testing.T) {
	chunks := makeChunks(1)
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		return "", fmt.Errorf("plain network error")
	}

	results := Dispatch(context.Background(), chunks, call, Options{})
	if !results[0].Failed() {
		t.Fatal("expected a failure result")
	}
	if results[0].Err.Kind != models.ErrTransient {
		t.Errorf("error kind = %q, want %q", results[0].Err.Kind, models.ErrTransient)
	}
}

func TestDispatch_NoChunks(t *testing.T) {
	results := Dispatch(context.Background(), nil, func(ctx context.Context, c models.Chunk) (string, error) {
		t.Error("call should never run without chunks")
		return "", nil
	}, Options{})
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
