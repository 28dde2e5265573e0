// ABOUTME: Per-chunk call adapters bridging the API client to the dispatcher
// ABOUTME: Each adapter returns a single-attempt func(ctx, chunk) for the pipeline to wrap
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/chunkflow/internal/audio"
	"github.com/harper/chunkflow/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// Transcriber returns a chunk call that sends the chunk's PCM audio to the
// transcription endpoint as a WAV file. sampleRate must match the source
// recording; language and prompt are optional hints passed through.
func (c *Client) Transcriber(sampleRate int, language, prompt string) func(context.Context, models.Chunk) (string, error) {
	return func(ctx context.Context, chunk models.Chunk) (string, error) {
		wav, err := audio.Encode(chunk.Audio, sampleRate)
		if err != nil {
			return "", models.NewChunkError(models.ErrChunkProcessingFailed, err.Error())
		}

		cctx, cancel := c.callCtx(ctx)
		defer cancel()

		resp, err := c.api.CreateTranscription(cctx, openai.AudioRequest{
			Model:    c.cfg.TranscribeModel,
			FilePath: fmt.Sprintf("chunk_%04d.wav", chunk.Index),
			Reader:   bytes.NewReader(wav),
			Language: language,
			Prompt:   prompt,
		})
		if err != nil {
			return "", classify(err)
		}
		return strings.TrimSpace(resp.Text), nil
	}
}

// Reworker returns a chunk call that cleans a raw transcript fragment into
// readable prose via chat completion.
func (c *Client) Reworker() func(context.Context, models.Chunk) (string, error) {
	return c.chatProcessor(reworkSystemPrompt, 0.3)
}

// Extractor returns a chunk call that pulls atomic facts out of a document
// fragment. instructions, when non-empty, replaces the default prompt.
func (c *Client) Extractor(instructions string) func(context.Context, models.Chunk) (string, error) {
	system := extractSystemPrompt
	if instructions != "" {
		system = instructions
	}
	return c.chatProcessor(system, 0.1)
}

func (c *Client) chatProcessor(systemPrompt string, temperature float32) func(context.Context, models.Chunk) (string, error) {
	return func(ctx context.Context, chunk models.Chunk) (string, error) {
		cctx, cancel := c.callCtx(ctx)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(cctx, openai.ChatCompletionRequest{
			Model:       c.cfg.ChatModel,
			Temperature: temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: chunk.Content},
			},
		})
		if err != nil {
			return "", classify(err)
		}
		if len(resp.Choices) == 0 {
			return "", models.NewChunkError(models.ErrTransient, "completion returned no choices")
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}
}

// Embedder returns a chunk call that embeds the chunk content and carries
// the vector through the string-typed result as JSON. DecodeVector recovers
// it on the consumer side.
func (c *Client) Embedder() func(context.Context, models.Chunk) (string, error) {
	return func(ctx context.Context, chunk models.Chunk) (string, error) {
		vectors, err := c.EmbedTexts(ctx, []string{chunk.Content})
		if err != nil {
			return "", err
		}
		return EncodeVector(vectors[0])
	}
}

// EmbedTexts embeds a batch of texts in one API call.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.api.CreateEmbeddings(cctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, models.NewChunkError(models.ErrTransient,
			fmt.Sprintf("embedding response has %d vectors for %d inputs", len(resp.Data), len(texts)))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, models.NewChunkError(models.ErrTransient,
				fmt.Sprintf("embedding response index %d out of range", d.Index))
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// EncodeVector serializes an embedding for transport through a chunk result.
func EncodeVector(v []float32) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", models.NewChunkError(models.ErrChunkProcessingFailed, err.Error())
	}
	return string(b), nil
}

// DecodeVector recovers an embedding from a chunk result's content.
func DecodeVector(content string) ([]float32, error) {
	var v []float32
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return nil, fmt.Errorf("decoding embedding vector: %w", err)
	}
	return v, nil
}
