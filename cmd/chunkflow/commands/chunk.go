// ABOUTME: CLI command to split text into chunks without calling any API
// ABOUTME: Useful for previewing chunk boundaries and tuning sizes
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/harper/chunkflow/internal/chunker"
	"github.com/spf13/cobra"
)

var chunkFile string

// NewChunkCmd creates the chunk command
func NewChunkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunk [text]",
		Short: "Split text into overlapping chunks",
		Long: `Split text into overlapping chunks along natural boundaries.

Runs the chunker locally without any API calls, so you can inspect
where a document would be cut before processing it.

Examples:
  chunkflow chunk --file document.txt
  chunkflow chunk --max-tokens 256 --overlap-tokens 32 --file notes.md
  cat report.txt | chunkflow chunk --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChunk,
	}

	cmd.Flags().StringVar(&chunkFile, "file", "", "Read text from file")
	addTextChunkFlags(cmd)

	return cmd
}

func runChunk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cfg); err != nil {
		return err
	}

	text, err := readInput(args, chunkFile)
	if err != nil {
		return err
	}

	chunks, err := chunker.SplitText(text, cfg.MaxChunkTokens, cfg.OverlapTokens)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		payload, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(payload))
		return nil
	}

	fmt.Fprintf(out, "%d chunks (max %d tokens, overlap %d)\n\n", len(chunks), cfg.MaxChunkTokens, cfg.OverlapTokens)
	for _, c := range chunks {
		fmt.Fprintf(out, "[%d] tokens %d-%d (overlap %d): %s\n",
			c.Index, c.StartOffset, c.EndOffset, c.OverlapWithPrevious, truncate(c.Content, 80))
	}
	return nil
}
