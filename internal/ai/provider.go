// Package ai provides the prompt builder and the text-completion providers
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/soroush/shazam/internal/types"
)

// Provider is the generation gateway: it turns a prompt into raw completion
// text. Implementations must return a *ProviderError on failure.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends the prompt with the given sampling parameters and returns
	// the raw completion text
	Complete(ctx context.Context, prompt string, params types.GenerationParams) (string, error)

	// ListModels returns available models
	ListModels(ctx context.Context) ([]string, error)
}

// ErrNoChoices is returned when a provider answers without any completion
var ErrNoChoices = errors.New("no completion returned")

// ProviderError reports that the model was unavailable or failed during
// inference
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// ProviderType represents the type of AI provider
type ProviderType string

const (
	ProviderOpenAI   ProviderType = "openai"
	ProviderOllama   ProviderType = "ollama"
	ProviderLMStudio ProviderType = "lmstudio"
	ProviderLlamaCpp ProviderType = "llamacpp"
	ProviderGeneric  ProviderType = "generic"
)
