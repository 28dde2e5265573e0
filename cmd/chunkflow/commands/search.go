// ABOUTME: CLI command for semantic search over indexed chunks
// ABOUTME: Embeds the query and prints nearest chunks with scores and sources
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/harper/chunkflow/internal/llm"
	"github.com/harper/chunkflow/internal/qdrant"
	"github.com/spf13/cobra"
)

var searchLimit int

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed chunks by meaning",
		Long: `Search previously indexed chunks by semantic similarity.

Examples:
  chunkflow search "parental leave policy"
  chunkflow search --limit 10 "deployment checklist" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum number of results")
	addCollectionFlag(cmd)

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	vectors, err := client.EmbedTexts(cmd.Context(), []string{args[0]})
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}

	store := qdrant.New(cfg.QdrantURL, os.Getenv("QDRANT_API_KEY"))
	hits, err := store.Search(cmd.Context(), cfg.QdrantCollection, vectors[0], searchLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		payload, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(payload))
		return nil
	}

	if len(hits) == 0 {
		fmt.Fprintln(out, "no matches")
		return nil
	}
	for i, hit := range hits {
		fmt.Fprintf(out, "%d. [%.3f] %s\n", i+1, hit.Score, truncate(hit.Text(), 120))
		if source, ok := hit.Payload["source"].(string); ok && source != "" {
			fmt.Fprintf(out, "   source: %s\n", source)
		}
	}
	return nil
}
