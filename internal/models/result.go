// ABOUTME: Result types for the chunk pipeline including the error taxonomy
// ABOUTME: Every submitted chunk yields exactly one ChunkResult, success or failure
package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline and external-call failures
type ErrorKind string

const (
	// ErrInvalidConfiguration means chunk size/overlap parameters are inconsistent
	ErrInvalidConfiguration ErrorKind = "INVALID_CONFIGURATION"
	// ErrAuthentication means the external call rejected credentials; never retried
	ErrAuthentication ErrorKind = "AUTHENTICATION_ERROR"
	// ErrRateLimited means the external call was throttled; retried with extended backoff
	ErrRateLimited ErrorKind = "RATE_LIMITED"
	// ErrTransient covers network errors, 5xx responses, timeouts, malformed responses
	ErrTransient ErrorKind = "TRANSIENT_ERROR"
	// ErrChunkProcessingFailed is the terminal per-chunk failure after retries are exhausted
	ErrChunkProcessingFailed ErrorKind = "CHUNK_PROCESSING_FAILED"
)

// ChunkError is a classified failure from processing one chunk
type ChunkError struct {
	Kind     ErrorKind
	Message  string
	Attempts int
}

func (e *ChunkError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("%s after %d attempt(s): %s", e.Kind, e.Attempts, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewChunkError creates a classified error
func NewChunkError(kind ErrorKind, message string) *ChunkError {
	return &ChunkError{Kind: kind, Message: message}
}

// KindOf extracts the ErrorKind from an error chain.
// Unclassified errors are treated as transient (retryable).
func KindOf(err error) ErrorKind {
	var ce *ChunkError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ErrTransient
}

// ChunkResult is the outcome of processing one chunk. Exactly one of
// Content (success) or Err (failure) is meaningful; Failed() tells which.
type ChunkResult struct {
	Index    int            `json:"index"`
	Content  string         `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Err      *ChunkError    `json:"-"`
}

// Failed reports whether this chunk ended in failure
func (r ChunkResult) Failed() bool {
	return r.Err != nil
}

// PipelineResult is the merged output of one pipeline run
type PipelineResult struct {
	Text          string `json:"text"`
	Total         int    `json:"total"`
	Succeeded     int    `json:"succeeded"`
	Failed        int    `json:"failed"`
	FailedIndexes []int  `json:"failed_indexes,omitempty"`
}
