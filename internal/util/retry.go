// ABOUTME: Backoff schedule for retrying external API calls
// ABOUTME: Exponential growth from an initial delay with up to one second of jitter
package util

import (
	"math/rand/v2"
	"time"
)

// maxBackoff bounds the exponential term so long retry chains stay sane
const maxBackoff = 30 * time.Second

// Backoff returns the delay before retry attempt n (1-indexed):
// initialDelay * 2^(n-1) plus random jitter in [0, 1s).
func Backoff(initialDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || initialDelay <= 0 {
		return 0
	}
	// Cap the shift to avoid overflow for absurd attempt counts
	if attempt > 30 {
		attempt = 30
	}
	backoff := initialDelay * time.Duration(1<<uint(attempt-1))
	if backoff > maxBackoff || backoff < 0 {
		backoff = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(time.Second)))
	return backoff + jitter
}
