// ABOUTME: Shared chunker plumbing for text and audio splitting
// ABOUTME: Validates size parameters and mints chunk IDs
package chunker

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/harper/chunkflow/internal/models"
)

// validateSizes enforces maxSize > overlap >= 0 before any splitting starts
func validateSizes(maxSize, overlap int) error {
	if maxSize <= 0 {
		return models.NewChunkError(models.ErrInvalidConfiguration,
			fmt.Sprintf("max chunk size must be positive, got %d", maxSize))
	}
	if overlap < 0 {
		return models.NewChunkError(models.ErrInvalidConfiguration,
			fmt.Sprintf("overlap must not be negative, got %d", overlap))
	}
	if overlap >= maxSize {
		return models.NewChunkError(models.ErrInvalidConfiguration,
			fmt.Sprintf("overlap (%d) must be smaller than max chunk size (%d)", overlap, maxSize))
	}
	return nil
}

// generateChunkID generates a unique chunk ID
func generateChunkID() string {
	return "chunk_" + uuid.New().String()
}
