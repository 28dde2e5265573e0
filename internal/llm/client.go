// ABOUTME: OpenAI-compatible API client for transcription, chat, and embeddings
// ABOUTME: Single-attempt calls with per-call timeouts; retries belong to the pipeline layer
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/harper/chunkflow/internal/config"
	"github.com/harper/chunkflow/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// Client wraps the OpenAI API for the pipeline. Every call is a single
// attempt bounded by the configured timeout; the retry wrapper decides
// whether a failure is worth another try.
type Client struct {
	api  *openai.Client
	cfg  *config.Config
	http *http.Client
}

// New creates a client against the configured base URL.
func New(cfg *config.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.APIBaseURL

	return &Client{
		api:  openai.NewClientWithConfig(oc),
		cfg:  cfg,
		http: &http.Client{},
	}, nil
}

// classify maps an API error onto the pipeline error taxonomy. Anything
// without a recognizable status code is treated as transient so the retry
// wrapper gives the network the benefit of the doubt.
func classify(err error) *models.ChunkError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err.Error())
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err.Error())
	}
	return models.NewChunkError(models.ErrTransient, err.Error())
}

func classifyStatus(status int, message string) *models.ChunkError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return models.NewChunkError(models.ErrAuthentication, message)
	case status == http.StatusTooManyRequests:
		return models.NewChunkError(models.ErrRateLimited, message)
	default:
		return models.NewChunkError(models.ErrTransient, message)
	}
}

// callCtx bounds a single API attempt by the configured timeout.
func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.Timeout)
}
