// ABOUTME: CLI command to ask a question with streamed output
// ABOUTME: Optionally grounds the answer in indexed chunks retrieved by similarity
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/harper/chunkflow/internal/llm"
	"github.com/harper/chunkflow/internal/qdrant"
	"github.com/spf13/cobra"
)

var (
	askRAG   bool
	askLimit int
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question, streaming the answer",
		Long: `Ask a question and stream the answer token by token.

With --rag, the question is first embedded and the nearest indexed
chunks are supplied as context, so the answer is grounded in your
own documents.

Examples:
  chunkflow ask "What is exponential backoff?"
  chunkflow ask --rag "What does the handbook say about remote work?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().BoolVar(&askRAG, "rag", false, "Ground the answer in indexed chunks")
	cmd.Flags().IntVar(&askLimit, "limit", 5, "Number of context chunks to retrieve with --rag")
	addCollectionFlag(cmd)

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	question := args[0]
	systemPrompt := ""
	userPrompt := question

	if askRAG {
		vectors, err := client.EmbedTexts(ctx, []string{question})
		if err != nil {
			return fmt.Errorf("embedding question: %w", err)
		}
		store := qdrant.New(cfg.QdrantURL, os.Getenv("QDRANT_API_KEY"))
		hits, err := store.Search(ctx, cfg.QdrantCollection, vectors[0], askLimit)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			return fmt.Errorf("no indexed chunks found; run `chunkflow index` first")
		}

		var b strings.Builder
		b.WriteString("Context passages:\n\n")
		for i, hit := range hits {
			fmt.Fprintf(&b, "[%d] %s\n\n", i+1, hit.Text())
		}
		fmt.Fprintf(&b, "Question: %s", question)

		systemPrompt = llm.RAGSystemPrompt
		userPrompt = b.String()
		if verbose {
			fmt.Fprintf(os.Stderr, "using %d context chunks\n", len(hits))
		}
	}

	out := cmd.OutOrStdout()
	_, err = client.StreamCompletion(ctx, systemPrompt, userPrompt, func(delta string) {
		fmt.Fprint(out, delta)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}
