// ABOUTME: MCP tool handler implementations for the chunkflow server
// ABOUTME: Wraps the chunker and vector search behind tool-call argument parsing
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/chunkflow/internal/chunker"
	"github.com/harper/chunkflow/internal/config"
	"github.com/harper/chunkflow/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	cfg      *config.Config
	embedder Embedder
	searcher Searcher
}

type chunkTextResponse struct {
	ChunkCount int            `json:"chunk_count"`
	Chunks     []models.Chunk `json:"chunks"`
}

type searchResult struct {
	Text  string         `json:"text"`
	Score float64        `json:"score"`
	Meta  map[string]any `json:"metadata,omitempty"`
}

// ChunkText handles the chunk_text tool
func (h *Handlers) ChunkText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	maxTokens := request.GetInt("max_tokens", h.cfg.MaxChunkTokens)
	overlapTokens := request.GetInt("overlap_tokens", h.cfg.OverlapTokens)

	chunks, err := chunker.SplitText(text, maxTokens, overlapTokens)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chunking failed: %v", err)), nil
	}

	payload, err := json.Marshal(chunkTextResponse{ChunkCount: len(chunks), Chunks: chunks})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// KnowledgeSearch handles the knowledge_search tool
func (h *Handlers) KnowledgeSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.embedder == nil || h.searcher == nil {
		return mcp.NewToolResultError("knowledge search is unavailable: no API key or vector store configured"), nil
	}

	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)

	vectors, err := h.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("embedding query failed: %v", err)), nil
	}

	hits, err := h.searcher.Search(ctx, h.cfg.QdrantCollection, vectors[0], maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	results := make([]searchResult, 0, len(hits))
	for _, hit := range hits {
		meta := make(map[string]any, len(hit.Payload))
		for k, v := range hit.Payload {
			if k == "text" {
				continue
			}
			meta[k] = v
		}
		if len(meta) == 0 {
			meta = nil
		}
		results = append(results, searchResult{Text: hit.Text(), Score: hit.Score, Meta: meta})
	}

	payload, err := json.Marshal(map[string]any{"results": results})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
