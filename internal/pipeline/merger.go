// ABOUTME: Result merger reassembling per-chunk outputs into one ordered document
// ABOUTME: Failed chunks leave a visible placeholder instead of silently disappearing
package pipeline

import (
	"fmt"
	"strings"

	"github.com/harper/chunkflow/internal/models"
)

// Merge concatenates successful chunk contents in index order and
// replaces failures with a visible placeholder so gaps stay detectable.
// It is a pure function of its input: same results, same output.
func Merge(results []models.ChunkResult) models.PipelineResult {
	parts := make([]string, 0, len(results))
	out := models.PipelineResult{Total: len(results)}

	for _, r := range results {
		if r.Failed() {
			out.Failed++
			out.FailedIndexes = append(out.FailedIndexes, r.Index)
			parts = append(parts, fmt.Sprintf("[CHUNK %d FAILED]", r.Index))
			continue
		}
		out.Succeeded++
		parts = append(parts, r.Content)
	}

	out.Text = strings.Join(parts, "\n\n")
	return out
}
