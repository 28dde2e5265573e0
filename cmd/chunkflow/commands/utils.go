// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Input reading, config loading, and pipeline execution with progress output
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harper/chunkflow/internal/config"
	"github.com/harper/chunkflow/internal/models"
	"github.com/harper/chunkflow/internal/pipeline"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Shared override flags: zero or negative means "use the config value"
var (
	flagBatchSize     int
	flagConcurrency   int
	flagMaxTokens     int
	flagOverlapTokens int
	flagChunkMs       int
	flagOverlapMs     int
	flagCollection    string
)

// addDispatchFlags registers batch tuning flags on a pipeline command
func addDispatchFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagBatchSize, "batch-size", 0, "Chunks per batch (default from config)")
	cmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Concurrent API calls (default from config)")
}

// addTextChunkFlags registers token sizing flags on a text command
func addTextChunkFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "Maximum chunk size in tokens (default from config)")
	cmd.Flags().IntVar(&flagOverlapTokens, "overlap-tokens", -1, "Token overlap between chunks (default from config)")
}

// addAudioChunkFlags registers window sizing flags on an audio command
func addAudioChunkFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagChunkMs, "chunk-ms", 0, "Window length in milliseconds (default from config)")
	cmd.Flags().IntVar(&flagOverlapMs, "overlap-ms", -1, "Window overlap in milliseconds (default from config)")
}

// addCollectionFlag registers the Qdrant collection override
func addCollectionFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagCollection, "collection", "", "Qdrant collection name (default from config)")
}

// applyFlagOverrides folds set flags into the loaded config and
// re-validates the combination
func applyFlagOverrides(cfg *config.Config) error {
	if flagBatchSize > 0 {
		cfg.BatchSize = flagBatchSize
	}
	if flagConcurrency > 0 {
		cfg.Concurrency = flagConcurrency
	}
	if flagMaxTokens > 0 {
		cfg.MaxChunkTokens = flagMaxTokens
	}
	if flagOverlapTokens >= 0 {
		cfg.OverlapTokens = flagOverlapTokens
	}
	if flagChunkMs > 0 {
		cfg.ChunkMillis = flagChunkMs
	}
	if flagOverlapMs >= 0 {
		cfg.OverlapMillis = flagOverlapMs
	}
	if flagCollection != "" {
		cfg.QdrantCollection = flagCollection
	}
	return cfg.Validate()
}

// loadConfig loads .env (when present) and the environment configuration
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	return config.Load()
}

// readInput resolves command input: explicit file, positional argument,
// then stdin as a last resort
func readInput(args []string, file string) (string, error) {
	var text string
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	} else if len(args) > 0 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no input provided")
	}
	return text, nil
}

// dispatchOptions builds pipeline options with progress reporting on stderr
func dispatchOptions(cfg *config.Config) pipeline.Options {
	opts := pipeline.Options{
		BatchSize:   cfg.BatchSize,
		Concurrency: cfg.Concurrency,
	}
	if !quiet {
		opts.OnProgress = func(completed, total int, r models.ChunkResult) {
			if r.Failed() {
				fmt.Fprintf(os.Stderr, "chunk %d failed: %v\n", r.Index, r.Err)
			}
			if verbose || r.Failed() || completed == total {
				fmt.Fprintf(os.Stderr, "processed %d/%d chunks\n", completed, total)
			}
		}
	}
	return opts
}

// processChunks runs the full dispatch-retry-merge pipeline over chunks
func processChunks(ctx context.Context, cfg *config.Config, chunks []models.Chunk, call pipeline.CallFunc) models.PipelineResult {
	wrapped := pipeline.WithRetry(call, cfg.MaxAttempts, cfg.RetryDelay)
	results := pipeline.Dispatch(ctx, chunks, wrapped, dispatchOptions(cfg))
	return pipeline.Merge(results)
}

// writeOutput writes text to the given file, or stdout when path is empty
func writeOutput(out io.Writer, path, text string) error {
	if path == "" {
		fmt.Fprintln(out, text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// reportFailures summarizes failed chunks on stderr and returns an error
// when nothing succeeded
func reportFailures(result models.PipelineResult) error {
	if result.Failed > 0 && !quiet {
		fmt.Fprintf(os.Stderr, "%d of %d chunks failed (indexes %v)\n",
			result.Failed, result.Total, result.FailedIndexes)
	}
	if result.Total > 0 && result.Succeeded == 0 {
		return fmt.Errorf("all %d chunks failed", result.Total)
	}
	return nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
