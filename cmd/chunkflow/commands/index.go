// ABOUTME: CLI command to embed document chunks and store them in Qdrant
// ABOUTME: Builds the knowledge collection that search and ask --rag query
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/harper/chunkflow/internal/chunker"
	"github.com/harper/chunkflow/internal/llm"
	"github.com/harper/chunkflow/internal/pipeline"
	"github.com/harper/chunkflow/internal/qdrant"
	"github.com/spf13/cobra"
)

var (
	indexFile   string
	indexSource string
)

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [text]",
		Short: "Embed a document and store its chunks for search",
		Long: `Chunk a document, embed each chunk, and upsert the vectors into
the configured Qdrant collection.

The collection is created on first use. Each point stores the chunk
text and its source so search results can cite where they came from.

Examples:
  chunkflow index --file handbook.txt
  chunkflow index --source "Q3 report" --file q3.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIndex,
	}

	cmd.Flags().StringVar(&indexFile, "file", "", "Read text from file")
	cmd.Flags().StringVar(&indexSource, "source", "", "Source label stored with each chunk")
	addTextChunkFlags(cmd)
	addDispatchFlags(cmd)
	addCollectionFlag(cmd)

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cfg); err != nil {
		return err
	}

	client, err := llm.New(cfg)
	if err != nil {
		return err
	}

	text, err := readInput(args, indexFile)
	if err != nil {
		return err
	}
	source := indexSource
	if source == "" && indexFile != "" {
		source = indexFile
	}

	chunks, err := chunker.SplitText(text, cfg.MaxChunkTokens, cfg.OverlapTokens)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("nothing to index")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := qdrant.New(cfg.QdrantURL, os.Getenv("QDRANT_API_KEY"))
	if err := store.EnsureCollection(ctx, cfg.QdrantCollection, cfg.VectorDimension); err != nil {
		return err
	}

	// Embed every chunk through the pipeline, then decode the vectors
	// from the successful results
	wrapped := pipeline.WithRetry(client.Embedder(), cfg.MaxAttempts, cfg.RetryDelay)
	results := pipeline.Dispatch(ctx, chunks, wrapped, dispatchOptions(cfg))

	points := make([]qdrant.Point, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
			continue
		}
		vector, err := llm.DecodeVector(r.Content)
		if err != nil {
			return fmt.Errorf("chunk %d: %w", r.Index, err)
		}
		points = append(points, qdrant.Point{
			ID:     uuid.New().String(),
			Vector: vector,
			Payload: map[string]any{
				"text":        chunks[r.Index].Content,
				"chunk_index": r.Index,
				"source":      source,
			},
		})
	}

	if len(points) == 0 {
		return fmt.Errorf("all %d chunks failed to embed", len(chunks))
	}
	if err := store.Upsert(ctx, cfg.QdrantCollection, points); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d chunks into %q", len(points), cfg.QdrantCollection)
	if failed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d failed)", failed)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
