// ABOUTME: Tests for ChunkResult, PipelineResult, and error classification
// ABOUTME: Verifies ErrorKind extraction through wrapped error chains
package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "classified auth error",
			err:  NewChunkError(ErrAuthentication, "401 unauthorized"),
			want: ErrAuthentication,
		},
		{
			name: "classified rate limit",
			err:  NewChunkError(ErrRateLimited, "429 too many requests"),
			want: ErrRateLimited,
		},
		{
			name: "wrapped classified error",
			err:  fmt.Errorf("calling endpoint: %w", NewChunkError(ErrAuthentication, "bad key")),
			want: ErrAuthentication,
		},
		{
			name: "plain error defaults to transient",
			err:  errors.New("connection reset by peer"),
			want: ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChunkError_Error(t *testing.T) {
	plain := NewChunkError(ErrTransient, "server hiccup")
	if !strings.Contains(plain.Error(), "server hiccup") {
		t.Errorf("Error() = %q, should contain message", plain.Error())
	}
	if strings.Contains(plain.Error(), "attempt") {
		t.Errorf("Error() = %q, should not mention attempts when zero", plain.Error())
	}

	exhausted := &ChunkError{Kind: ErrTransient, Message: "server hiccup", Attempts: 3}
	if !strings.Contains(exhausted.Error(), "3 attempt") {
		t.Errorf("Error() = %q, should mention attempt count", exhausted.Error())
	}
}

func TestChunkResult_Failed(t *testing.T) {
	success := ChunkResult{Index: 0, Content: "transcribed text"}
	if success.Failed() {
		t.Error("result with content should not be failed")
	}

	failure := ChunkResult{Index: 1, Err: NewChunkError(ErrTransient, "boom")}
	if !failure.Failed() {
		t.Error("result with error should be failed")
	}
}
