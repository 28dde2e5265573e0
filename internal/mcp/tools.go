// ABOUTME: MCP tool definitions and registration for the chunkflow server
// ABOUTME: Exposes text chunking and knowledge search over stdio transport
package mcp

import (
	"context"

	"github.com/harper/chunkflow/internal/config"
	"github.com/harper/chunkflow/internal/qdrant"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Embedder turns texts into vectors for knowledge search.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Searcher queries a vector collection for nearest neighbors.
type Searcher interface {
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]qdrant.Hit, error)
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, cfg *config.Config, embedder Embedder, searcher Searcher) *Handlers {
	handlers := &Handlers{
		cfg:      cfg,
		embedder: embedder,
		searcher: searcher,
	}

	// 1. chunk_text - Split a document into overlapping chunks
	server.AddTool(mcp.Tool{
		Name:        "chunk_text",
		Description: "Split a text document into overlapping chunks along natural boundaries (paragraphs, sentences). Returns the chunk list with token offsets.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Document text to chunk",
				},
				"max_tokens": map[string]interface{}{
					"type":        "number",
					"description": "Maximum chunk size in whitespace tokens (default: configured value)",
				},
				"overlap_tokens": map[string]interface{}{
					"type":        "number",
					"description": "Token overlap between consecutive chunks (default: configured value)",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.ChunkText)

	// 2. knowledge_search - Semantic search over indexed chunks
	server.AddTool(mcp.Tool{
		Name:        "knowledge_search",
		Description: "Search previously indexed document chunks by semantic similarity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.KnowledgeSearch)

	return handlers
}
