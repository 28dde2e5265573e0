// ABOUTME: Centralized configuration for the chunkflow pipeline CLI
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for a pipeline invocation
type Config struct {
	// API settings
	APIKey          string
	APIBaseURL      string
	ChatModel       string
	TranscribeModel string
	EmbeddingModel  string
	Timeout         time.Duration

	// Retry settings
	MaxAttempts int
	RetryDelay  time.Duration

	// Chunking settings
	MaxChunkTokens int
	OverlapTokens  int
	ChunkMillis    int
	OverlapMillis  int

	// Dispatch settings
	BatchSize   int
	Concurrency int

	// Qdrant settings
	QdrantURL        string
	QdrantCollection string
	VectorDimension  int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		APIKey:           os.Getenv("OPENAI_API_KEY"),
		APIBaseURL:       getEnv("CHUNKFLOW_API_URL", "https://api.openai.com/v1"),
		ChatModel:        getEnv("CHUNKFLOW_CHAT_MODEL", "gpt-4o-mini"),
		TranscribeModel:  getEnv("CHUNKFLOW_TRANSCRIBE_MODEL", "whisper-1"),
		EmbeddingModel:   getEnv("CHUNKFLOW_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:          getEnvDuration("CHUNKFLOW_TIMEOUT", 3*time.Minute),
		MaxAttempts:      getEnvInt("CHUNKFLOW_MAX_ATTEMPTS", 3),
		RetryDelay:       getEnvDuration("CHUNKFLOW_RETRY_DELAY", 2*time.Second),
		MaxChunkTokens:   getEnvInt("CHUNKFLOW_CHUNK_TOKENS", 512),
		OverlapTokens:    getEnvInt("CHUNKFLOW_OVERLAP_TOKENS", 64),
		ChunkMillis:      getEnvInt("CHUNKFLOW_CHUNK_MS", 60000),
		OverlapMillis:    getEnvInt("CHUNKFLOW_OVERLAP_MS", 5000),
		BatchSize:        getEnvInt("CHUNKFLOW_BATCH_SIZE", 10),
		Concurrency:      getEnvInt("CHUNKFLOW_CONCURRENCY", 4),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "chunkflow"),
		VectorDimension:  getEnvInt("VECTOR_DIMENSION", 1536),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxChunkTokens <= 0 {
		return fmt.Errorf("CHUNKFLOW_CHUNK_TOKENS must be positive, got %d", c.MaxChunkTokens)
	}
	if c.OverlapTokens < 0 || c.OverlapTokens >= c.MaxChunkTokens {
		return fmt.Errorf("CHUNKFLOW_OVERLAP_TOKENS must be in [0, %d), got %d", c.MaxChunkTokens, c.OverlapTokens)
	}
	if c.ChunkMillis <= 0 {
		return fmt.Errorf("CHUNKFLOW_CHUNK_MS must be positive, got %d", c.ChunkMillis)
	}
	if c.OverlapMillis < 0 || c.OverlapMillis >= c.ChunkMillis {
		return fmt.Errorf("CHUNKFLOW_OVERLAP_MS must be in [0, %d), got %d", c.ChunkMillis, c.OverlapMillis)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("CHUNKFLOW_MAX_ATTEMPTS must be 1-10, got %d", c.MaxAttempts)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("CHUNKFLOW_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("CHUNKFLOW_CONCURRENCY must be positive, got %d", c.Concurrency)
	}
	if c.VectorDimension < 1 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
