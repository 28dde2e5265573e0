// ABOUTME: Retry wrapper applying the backoff policy to a single external call
// ABOUTME: Auth failures return immediately, rate limits get doubled backoff
package pipeline

import (
	"context"
	"time"

	"github.com/harper/chunkflow/internal/models"
	"github.com/harper/chunkflow/internal/util"
)

// backoffDelay is a seam so tests can run without real sleeps
var backoffDelay = util.Backoff

// WithRetry wraps call so each invocation is attempted up to maxAttempts
// times. AuthenticationError is never retried. RateLimited failures wait
// twice the computed backoff. Everything else is treated as transient
// and retried until attempts run out, at which point the returned error
// carries the final classification and the attempt count.
func WithRetry(call CallFunc, maxAttempts int, initialDelay time.Duration) CallFunc {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return func(ctx context.Context, chunk models.Chunk) (string, error) {
		var lastErr error

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if attempt > 1 {
				delay := backoffDelay(initialDelay, attempt-1)
				if models.KindOf(lastErr) == models.ErrRateLimited {
					delay *= 2
				}
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return "", &models.ChunkError{
						Kind:     models.ErrTransient,
						Message:  "canceled while waiting to retry: " + ctx.Err().Error(),
						Attempts: attempt - 1,
					}
				}
			}

			content, err := call(ctx, chunk)
			if err == nil {
				return content, nil
			}
			lastErr = err

			if models.KindOf(err) == models.ErrAuthentication {
				return "", &models.ChunkError{
					Kind:     models.ErrAuthentication,
					Message:  err.Error(),
					Attempts: attempt,
				}
			}
		}

		return "", &models.ChunkError{
			Kind:     models.KindOf(lastErr),
			Message:  lastErr.Error(),
			Attempts: maxAttempts,
		}
	}
}
