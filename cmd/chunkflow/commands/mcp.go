// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to chunk text and search indexed knowledge via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/chunkflow/internal/llm"
	"github.com/harper/chunkflow/internal/mcp"
	"github.com/harper/chunkflow/internal/qdrant"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs chunkflow as an MCP (Model Context Protocol) server, exposing
text chunking and knowledge search to LLM agents over stdio.

Knowledge search requires OPENAI_API_KEY and a reachable Qdrant
instance; the chunk_text tool works without either.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  chunkflow mcp

  # Configure in the host's MCP config:
  # {
  #   "mcpServers": {
  #     "chunkflow": {
  #       "command": "chunkflow",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Knowledge search is optional: without an API key the server still
	// serves chunk_text
	var embedder mcp.Embedder
	var searcher mcp.Searcher
	if cfg.APIKey != "" {
		client, err := llm.New(cfg)
		if err != nil {
			log.Printf("Warning: failed to initialize API client: %v", err)
		} else {
			embedder = client
			searcher = qdrant.New(cfg.QdrantURL, os.Getenv("QDRANT_API_KEY"))
		}
	} else {
		log.Println("Warning: OPENAI_API_KEY not set - knowledge_search will be unavailable")
	}

	server := mcpserver.NewMCPServer(
		"Chunkflow",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, cfg, embedder, searcher)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("chunkflow MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
