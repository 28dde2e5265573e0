// ABOUTME: Tests for the chunk command
// ABOUTME: Runs the chunker end to end through the CLI with text and JSON output

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/chunkflow/internal/models"
)

// resetChunkFlags restores the command's package-level flag state
func resetChunkFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		chunkFile = ""
		flagMaxTokens = 0
		flagOverlapTokens = -1
		format = "auto"
		quiet = false
		verbose = false
	})
}

func TestChunkCmd_Structure(t *testing.T) {
	cmd := NewChunkCmd()

	if !strings.HasPrefix(cmd.Use, "chunk") {
		t.Errorf("Use = %q, want chunk prefix", cmd.Use)
	}
	for _, flagName := range []string{"file", "max-tokens", "overlap-tokens"} {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("--%s flag not found", flagName)
		}
	}
}

func TestChunkCmd_TextOutput(t *testing.T) {
	resetChunkFlags(t)

	root := NewRootCmd()
	var output bytes.Buffer
	root.SetOut(&output)
	root.SetErr(&output)
	root.SetArgs([]string{
		"chunk",
		"alpha beta gamma delta epsilon zeta eta theta",
		"--max-tokens", "4",
		"--overlap-tokens", "1",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	outputStr := output.String()
	if !strings.Contains(outputStr, "chunks (max 4 tokens, overlap 1)") {
		t.Errorf("output missing chunk summary:\n%s", outputStr)
	}
	if !strings.Contains(outputStr, "alpha beta gamma delta") {
		t.Errorf("output missing first chunk content:\n%s", outputStr)
	}
}

func TestChunkCmd_JSONOutput(t *testing.T) {
	resetChunkFlags(t)

	root := NewRootCmd()
	var output bytes.Buffer
	root.SetOut(&output)
	root.SetErr(&output)
	root.SetArgs([]string{
		"chunk",
		"one two three four five six",
		"--max-tokens", "3",
		"--overlap-tokens", "0",
		"--format", "json",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var chunks []models.Chunk
	if err := json.Unmarshal(output.Bytes(), &chunks); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, output.String())
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].Content != "one two three" || chunks[1].Content != "four five six" {
		t.Errorf("chunks = %q and %q", chunks[0].Content, chunks[1].Content)
	}
}

func TestChunkCmd_FileInput(t *testing.T) {
	resetChunkFlags(t)

	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("words in a file for chunking"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := NewRootCmd()
	var output bytes.Buffer
	root.SetOut(&output)
	root.SetErr(&output)
	root.SetArgs([]string{"chunk", "--file", path, "--max-tokens", "10", "--overlap-tokens", "0"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(output.String(), "words in a file") {
		t.Errorf("output missing file content:\n%s", output.String())
	}
}

func TestChunkCmd_InvalidSizes(t *testing.T) {
	resetChunkFlags(t)

	root := NewRootCmd()
	var output bytes.Buffer
	root.SetOut(&output)
	root.SetErr(&output)
	root.SetArgs([]string{"chunk", "some text", "--max-tokens", "2", "--overlap-tokens", "2"})

	if err := root.Execute(); err == nil {
		t.Error("expected an error when overlap >= max")
	}
}
