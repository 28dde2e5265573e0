// ABOUTME: Tests for extract command structure
// ABOUTME: Verifies flags and early error paths

package commands

import (
	"bytes"
	"testing"
)

func TestNewExtractCmd(t *testing.T) {
	cmd := NewExtractCmd()

	if cmd.Use != "extract [text]" {
		t.Errorf("Use = %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	for _, flagName := range []string{"file", "instructions", "output"} {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("--%s flag not found", flagName)
		}
	}
}

func TestExtractCmd_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	root := NewRootCmd()
	var output bytes.Buffer
	root.SetOut(&output)
	root.SetErr(&output)
	root.SetArgs([]string{"extract", "some document text"})

	if err := root.Execute(); err == nil {
		t.Error("expected an error without an API key")
	}
}
