// Package ai tests
package ai

import (
	"strings"
	"testing"

	"github.com/soroush/shazam/internal/types"
)

func mustRequest(t *testing.T, prompt string) types.GenerationRequest {
	t.Helper()
	req, err := types.NewGenerationRequest(prompt, types.DefaultGenerationParams())
	if err != nil {
		t.Fatalf("NewGenerationRequest(%q) failed: %v", prompt, err)
	}
	return req
}

func TestBuildPrompt_Layout(t *testing.T) {
	prompt := BuildPrompt(mustRequest(t, "list python files"))

	if !strings.HasPrefix(prompt, Preamble) {
		t.Error("expected prompt to start with the preamble")
	}
	if !strings.HasSuffix(prompt, "User: list python files\nAssistant: ") {
		t.Errorf("unexpected prompt tail: %q", prompt[len(prompt)-40:])
	}

	examplesAt := strings.Index(prompt, "Examples:")
	requestAt := strings.LastIndex(prompt, "User: list python files")
	if examplesAt < len(Preamble)-1 || examplesAt > requestAt {
		t.Error("expected few-shot block between preamble and request")
	}
}

func TestBuildPrompt_ContainsExamples(t *testing.T) {
	prompt := BuildPrompt(mustRequest(t, "anything"))

	for _, ex := range FewShotExamples {
		pair := "User: " + ex.Request + "\nAssistant: " + ex.Command + "\n"
		if !strings.Contains(prompt, pair) {
			t.Errorf("expected prompt to contain example %q", pair)
		}
	}
}

func TestBuildPrompt_Rules(t *testing.T) {
	for _, rule := range []string{"ONLY the shell command", "No markdown", "one line"} {
		if !strings.Contains(strings.ToLower(Preamble), strings.ToLower(rule)) {
			t.Errorf("expected preamble to state %q", rule)
		}
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := mustRequest(t, "show disk usage")
	first := BuildPrompt(req)

	params := types.DefaultGenerationParams()
	params.Temperature = 1.5
	other, err := types.NewGenerationRequest("show disk usage", params)
	if err != nil {
		t.Fatal(err)
	}

	if BuildPrompt(req) != first {
		t.Error("BuildPrompt should be deterministic")
	}
	if BuildPrompt(other) != first {
		t.Error("sampling parameters should not change the prompt text")
	}
}

func TestBuildPrompt_UsesTrimmedRequest(t *testing.T) {
	prompt := BuildPrompt(mustRequest(t, "  whoami  "))
	if !strings.HasSuffix(prompt, "User: whoami\nAssistant: ") {
		t.Errorf("expected trimmed request in prompt, got tail %q", prompt[len(prompt)-30:])
	}
}
