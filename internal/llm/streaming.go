// ABOUTME: Streaming chat completion over raw SSE for incremental output
// ABOUTME: Feeds response bytes through the stream scanner and emits deltas as they land
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/harper/chunkflow/internal/stream"
)

type streamRequest struct {
	Model       string          `json:"model"`
	Messages    []streamMessage `json:"messages"`
	Temperature float32         `json:"temperature"`
	Stream      bool            `json:"stream"`
}

type streamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type streamDelta struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamCompletion sends a chat completion with streaming enabled and calls
// onDelta for every content fragment as it arrives. It returns the full
// assembled response. systemPrompt may be empty.
func (c *Client) StreamCompletion(ctx context.Context, systemPrompt, userPrompt string, onDelta func(string)) (string, error) {
	messages := []streamMessage{}
	if systemPrompt != "" {
		messages = append(messages, streamMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, streamMessage{Role: "user", Content: userPrompt})

	body, err := json.Marshal(streamRequest{
		Model:       c.cfg.ChatModel,
		Messages:    messages,
		Temperature: 0.7,
		Stream:      true,
	})
	if err != nil {
		return "", err
	}

	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	url := strings.TrimSuffix(c.cfg.APIBaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(cctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", classifyStatus(resp.StatusCode,
			fmt.Sprintf("streaming completion: status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))))
	}

	var full strings.Builder
	err = stream.Decode(resp.Body, func(data string) error {
		var delta streamDelta
		if err := json.Unmarshal([]byte(data), &delta); err != nil {
			// Skip malformed frames rather than aborting the stream
			return nil
		}
		for _, choice := range delta.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			full.WriteString(choice.Delta.Content)
			if onDelta != nil {
				onDelta(choice.Delta.Content)
			}
		}
		return nil
	})
	if err != nil {
		return "", classify(err)
	}
	return full.String(), nil
}
