// ABOUTME: Tests for transcribe command structure
// ABOUTME: Verifies flags, argument validation, and early input errors

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNewTranscribeCmd(t *testing.T) {
	cmd := NewTranscribeCmd()

	if cmd.Use != "transcribe <audio.wav>" {
		t.Errorf("Use = %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	for _, flagName := range []string{"language", "prompt", "rework", "output"} {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("--%s flag not found", flagName)
		}
	}
}

func TestTranscribeCmd_RequiresExactlyOneArg(t *testing.T) {
	for _, args := range [][]string{{"transcribe"}, {"transcribe", "a.wav", "b.wav"}} {
		root := NewRootCmd()
		var output bytes.Buffer
		root.SetOut(&output)
		root.SetErr(&output)
		root.SetArgs(args)

		if err := root.Execute(); err == nil {
			t.Errorf("args %v should be rejected", args)
		}
	}
}

func TestTranscribeCmd_MissingFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	root := NewRootCmd()
	var output bytes.Buffer
	root.SetOut(&output)
	root.SetErr(&output)
	root.SetArgs([]string{"transcribe", filepath.Join(t.TempDir(), "missing.wav")})

	if err := root.Execute(); err == nil {
		t.Error("expected an error for a missing audio file")
	}
}

func TestTranscribeCmd_RejectsNonWAV(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	path := filepath.Join(t.TempDir(), "not-audio.wav")
	if err := os.WriteFile(path, []byte("this is not a wav file at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := NewRootCmd()
	var output bytes.Buffer
	root.SetOut(&output)
	root.SetErr(&output)
	root.SetArgs([]string{"transcribe", path})

	if err := root.Execute(); err == nil {
		t.Error("expected an error for a non-WAV file")
	}
}

func TestTranscribeCmd_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	root := NewRootCmd()
	var output bytes.Buffer
	root.SetOut(&output)
	root.SetErr(&output)
	root.SetArgs([]string{"transcribe", "any.wav"})

	if err := root.Execute(); err == nil {
		t.Error("expected an error without an API key")
	}
}
