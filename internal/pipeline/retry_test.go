// ABOUTME: Tests for the retry wrapper policy
// ABOUTME: Covers attempt exhaustion, auth short-circuit, rate-limit backoff doubling, and cancellation
package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harper/chunkflow/internal/models"
)

// stubBackoff replaces the backoff schedule for the duration of a test
func stubBackoff(t *testing.T, d time.Duration) {
	t.Helper()
	orig := backoffDelay
	backoffDelay = func(initial time.Duration, attempt int) time.Duration { return d }
	t.Cleanup(func() { backoffDelay = orig })
}

func TestWithRetry_TransientExhaustion(t *testing.T) {
	stubBackoff(t, 0)

	var calls int64
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		atomic.AddInt64(&calls, 1)
		return "", models.NewChunkError(models.ErrTransient, "503 from upstream")
	}

	_, err := WithRetry(call, 3, time.Second)(context.Background(), models.Chunk{Index: 0})

	if got := atomic.LoadInt64(&calls); got != 3 {
		t.Errorf("expected exactly 3 invocations, got %d", got)
	}
	ce, ok := err.(*models.ChunkError)
	if !ok {
		t.Fatalf("expected *ChunkError, got %T", err)
	}
	if ce.Kind != models.ErrTransient {
		t.Errorf("error kind = %q, want %q", ce.Kind, models.ErrTransient)
	}
	if ce.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", ce.Attempts)
	}
}

func TestWithRetry_NoRetryOnAuthFailure(t *testing.T) {
	stubBackoff(t, 0)

	var calls int64
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		atomic.AddInt64(&calls, 1)
		return "", models.NewChunkError(models.ErrAuthentication, "401 unauthorized")
	}

	_, err := WithRetry(call, 5, time.Second)(context.Background(), models.Chunk{Index: 0})

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("auth failure must not be retried: expected 1 invocation, got %d", got)
	}
	ce, ok := err.(*models.ChunkError)
	if !ok {
		t.Fatalf("expected *ChunkError, got %T", err)
	}
	if ce.Kind != models.ErrAuthentication {
		t.Errorf("error kind = %q, want %q", ce.Kind, models.ErrAuthentication)
	}
	if ce.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", ce.Attempts)
	}
}

func TestWithRetry_SuccessAfterTransientFailures(t *testing.T) {
	stubBackoff(t, 0)

	var calls int64
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		if atomic.AddInt64(&calls, 1) < 3 {
			return "", models.NewChunkError(models.ErrTransient, "flaky")
		}
		return "finally", nil
	}

	content, err := WithRetry(call, 5, time.Second)(context.Background(), models.Chunk{Index: 0})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if content != "finally" {
		t.Errorf("content = %q, want %q", content, "finally")
	}
	if got := atomic.LoadInt64(&calls); got != 3 {
		t.Errorf("expected 3 invocations, got %d", got)
	}
}

func TestWithRetry_RateLimitDoublesBackoff(t *testing.T) {
	stubBackoff(t, 20*time.Millisecond)

	var calls int64
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		if atomic.AddInt64(&calls, 1) == 1 {
			return "", models.NewChunkError(models.ErrRateLimited, "429")
		}
		return "ok", nil
	}

	start := time.Now()
	_, err := WithRetry(call, 3, time.Second)(context.Background(), models.Chunk{Index: 0})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	// The 20ms stub delay must have been doubled for the rate-limited retry
	if elapsed < 40*time.Millisecond {
		t.Errorf("elapsed = %v, want at least 40ms (doubled backoff)", elapsed)
	}
}

func TestWithRetry_ContextCanceledDuringBackoff(t *testing.T) {
	stubBackoff(t, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		cancel()
		return "", models.NewChunkError(models.ErrTransient, "flaky")
	}

	done := make(chan error, 1)
	go func() {
		_, err := WithRetry(call, 3, time.Second)(ctx, models.Chunk{Index: 0})
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error after cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retry wrapper did not honor context cancellation during backoff")
	}
}

func TestWithRetry_ZeroAttemptsMeansOne(t *testing.T) {
	stubBackoff(t, 0)

	var calls int64
	call := func(ctx context.Context, c models.Chunk) (string, error) {
		atomic.AddInt64(&calls, 1)
		return "", models.NewChunkError(models.ErrTransient, "flaky")
	}

	_, err := WithRetry(call, 0, time.Second)(context.Background(), models.Chunk{Index: 0})
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("expected 1 invocation, got %d", got)
	}
}
