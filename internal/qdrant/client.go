// ABOUTME: Minimal Qdrant HTTP client for storing and searching chunk embeddings
// ABOUTME: Talks to the REST API directly; collections use cosine distance
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is an HTTP client for one Qdrant instance.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// Point is one embedded chunk ready for upsert.
type Point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Hit is one search result with its similarity score.
type Hit struct {
	ID      any            `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// Text returns the stored chunk text from the hit payload, if present.
func (h Hit) Text() string {
	if s, ok := h.Payload["text"].(string); ok {
		return s
	}
	return ""
}

// New creates a client for the given base URL. apiKey may be empty for
// unauthenticated local instances.
func New(baseURL, apiKey string) *Client {
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// EnsureCollection creates the collection with cosine distance if it does
// not already exist. Qdrant treats the PUT as idempotent for matching
// configurations.
func (c *Client) EnsureCollection(ctx context.Context, collection string, dimension int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return c.doRequest(ctx, http.MethodPut, "/collections/"+collection, body, nil)
}

// Upsert writes points into the collection, replacing any with matching IDs.
func (c *Client) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	return c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/points", collection), body, nil)
}

// Search returns the limit nearest points to the query vector with payloads.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 5
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var response struct {
		Result []Hit `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/search", collection)
	if err := c.doRequest(ctx, http.MethodPost, path, body, &response); err != nil {
		return nil, err
	}
	return response.Result, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("qdrant: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("qdrant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("qdrant: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Status struct {
				Error string `json:"error"`
			} `json:"status"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Status.Error != "" {
			return fmt.Errorf("qdrant: %s (status %d)", apiErr.Status.Error, resp.StatusCode)
		}
		return fmt.Errorf("qdrant: request failed with status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("qdrant: decode response: %w", err)
		}
	}
	return nil
}
