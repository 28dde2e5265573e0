// ABOUTME: CLI command to extract atomic facts from large documents
// ABOUTME: Chunks the input and runs each chunk through a fact-extraction prompt
package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/chunkflow/internal/chunker"
	"github.com/harper/chunkflow/internal/llm"
	"github.com/spf13/cobra"
)

var (
	extractFile         string
	extractInstructions string
	extractOutput       string
)

// NewExtractCmd creates the extract command
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Extract facts from a document of any size",
		Long: `Extract atomic facts from a document by chunking it and running
each chunk through an extraction prompt in parallel batches.

Chunk overlap keeps statements that straddle a boundary visible to
at least one chunk. Custom instructions replace the default
fact-extraction prompt.

Examples:
  chunkflow extract --file report.pdf.txt
  chunkflow extract --instructions "List every person mentioned, one per line" --file minutes.txt
  cat article.txt | chunkflow extract`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().StringVar(&extractFile, "file", "", "Read text from file")
	cmd.Flags().StringVar(&extractInstructions, "instructions", "", "Custom extraction instructions")
	cmd.Flags().StringVar(&extractOutput, "output", "", "Write results to a file instead of stdout")
	addTextChunkFlags(cmd)
	addDispatchFlags(cmd)

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
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

	text, err := readInput(args, extractFile)
	if err != nil {
		return err
	}

	chunks, err := chunker.SplitText(text, cfg.MaxChunkTokens, cfg.OverlapTokens)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := processChunks(ctx, cfg, chunks, client.Extractor(extractInstructions))
	if err := reportFailures(result); err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), extractOutput, result.Text)
}
