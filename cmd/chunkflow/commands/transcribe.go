// ABOUTME: CLI command to transcribe long recordings through chunked API calls
// ABOUTME: Splits WAV audio into overlapping windows, transcribes in batches, merges in order
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/chunkflow/internal/audio"
	"github.com/harper/chunkflow/internal/chunker"
	"github.com/harper/chunkflow/internal/config"
	"github.com/harper/chunkflow/internal/llm"
	"github.com/spf13/cobra"
)

var (
	transcribeLanguage string
	transcribePrompt   string
	transcribeRework   bool
	transcribeOutput   string
)

// NewTranscribeCmd creates the transcribe command
func NewTranscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <audio.wav>",
		Short: "Transcribe a recording of any length",
		Long: `Transcribe a WAV recording by splitting it into overlapping windows
and sending each through the transcription API in parallel batches.

Window boundaries overlap so speech cut mid-word at one boundary is
intact in the neighboring window. With --rework, the merged transcript
is chunked again and rewritten into clean prose chunk by chunk.

Examples:
  chunkflow transcribe meeting.wav
  chunkflow transcribe --language en --rework interview.wav
  chunkflow transcribe --output transcript.txt lecture.wav`,
		Args: cobra.ExactArgs(1),
		RunE: runTranscribe,
	}

	cmd.Flags().StringVar(&transcribeLanguage, "language", "", "Language hint for the transcription model")
	cmd.Flags().StringVar(&transcribePrompt, "prompt", "", "Context prompt passed to the transcription model")
	cmd.Flags().BoolVar(&transcribeRework, "rework", false, "Rewrite the merged transcript into clean prose")
	cmd.Flags().StringVar(&transcribeOutput, "output", "", "Write the transcript to a file instead of stdout")
	addAudioChunkFlags(cmd)
	addDispatchFlags(cmd)

	return cmd
}

func runTranscribe(cmd *cobra.Command, args []string) error {
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

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading audio file: %w", err)
	}
	pcm, sampleRate, err := audio.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	chunks, err := chunker.SplitAudio(pcm, sampleRate, cfg.ChunkMillis, cfg.OverlapMillis)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("recording contains no audio")
	}
	if !quiet {
		fmt.Fprintf(os.Stderr, "transcribing %d windows of up to %dms\n", len(chunks), cfg.ChunkMillis)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := processChunks(ctx, cfg, chunks, client.Transcriber(sampleRate, transcribeLanguage, transcribePrompt))
	if err := reportFailures(result); err != nil {
		return err
	}

	text := result.Text
	if transcribeRework {
		if !quiet {
			fmt.Fprintln(os.Stderr, "reworking transcript...")
		}
		reworked, err := reworkText(ctx, cfg, client, text)
		if err != nil {
			return err
		}
		text = reworked
	}

	return writeOutput(cmd.OutOrStdout(), transcribeOutput, text)
}

// reworkText re-chunks a merged transcript and rewrites each chunk into
// clean prose through the same pipeline
func reworkText(ctx context.Context, cfg *config.Config, client *llm.Client, text string) (string, error) {
	chunks, err := chunker.SplitText(text, cfg.MaxChunkTokens, cfg.OverlapTokens)
	if err != nil {
		return "", err
	}
	result := processChunks(ctx, cfg, chunks, client.Reworker())
	if err := reportFailures(result); err != nil {
		return "", err
	}
	return result.Text, nil
}
