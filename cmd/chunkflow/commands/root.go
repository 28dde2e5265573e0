// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines the chunkflow command tree and shared output settings
package commands

import (
	"github.com/spf13/cobra"
)

// Global flags shared by all commands
var (
	verbose bool
	quiet   bool
	format  string
)

const banner = `
 ██████╗██╗  ██╗██╗   ██╗███╗   ██╗██╗  ██╗███████╗██╗      ██████╗ ██╗    ██╗
██╔════╝██║  ██║██║   ██║████╗  ██║██║ ██╔╝██╔════╝██║     ██╔═══██╗██║    ██║
██║     ███████║██║   ██║██╔██╗ ██║█████╔╝ █████╗  ██║     ██║   ██║██║ █╗ ██║
██║     ██╔══██║██║   ██║██║╚██╗██║██╔═██╗ ██╔══╝  ██║     ██║   ██║██║███╗██║
╚██████╗██║  ██║╚██████╔╝██║ ╚████║██║  ██╗██║     ███████╗╚██████╔╝╚███╔███╔╝
 ╚═════╝╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝  ╚═╝╚═╝     ╚══════╝ ╚═════╝  ╚══╝╚══╝ `

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chunkflow",
		Short: "Chunked document and audio processing through LLM APIs",
		Long: banner + `

Chunkflow splits documents and recordings into overlapping chunks,
pushes them through LLM APIs in bounded parallel batches with retry,
and merges the results back in order.

Transcribe long recordings, extract facts from large documents, or
index them for semantic search without hitting API size limits.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&format, "format", "auto", "Output format: auto, text, or json")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Register subcommands
	rootCmd.AddCommand(NewChunkCmd())
	rootCmd.AddCommand(NewTranscribeCmd())
	rootCmd.AddCommand(NewExtractCmd())
	rootCmd.AddCommand(NewIndexCmd())
	rootCmd.AddCommand(NewSearchCmd())
	rootCmd.AddCommand(NewAskCmd())
	rootCmd.AddCommand(NewMCPCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
