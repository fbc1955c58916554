// Package ai provides OpenAI-compatible provider implementations
package ai

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/soroush/shazam/internal/types"
)

const (
	defaultOpenAIEndpoint   = "https://api.openai.com/v1"
	defaultOpenAIModel      = "gpt-3.5-turbo-instruct"
	defaultLMStudioEndpoint = "http://localhost:1234/v1"
	defaultLlamaCppEndpoint = "http://localhost:8080/v1"
	defaultLocalModel       = "local-model"
)

// OpenAIProvider talks to any server exposing the OpenAI completions API.
// This covers OpenAI itself, LM Studio, llama.cpp server and similar.
type OpenAIProvider struct {
	client   *openai.Client
	model    string
	name     string
	endpoint string
}

// NewOpenAIProvider creates a provider for the hosted OpenAI API
func NewOpenAIProvider(apiKey, endpoint, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return newOpenAICompatible(string(ProviderOpenAI), apiKey, endpoint, model), nil
}

// NewLMStudioProvider creates a provider for a local LM Studio server
func NewLMStudioProvider(endpoint, model string) (*OpenAIProvider, error) {
	if endpoint == "" {
		endpoint = defaultLMStudioEndpoint
	}
	if model == "" {
		model = defaultLocalModel // LM Studio uses the loaded model
	}
	return newOpenAICompatible(string(ProviderLMStudio), "lm-studio", endpoint, model), nil
}

// NewLlamaCppProvider creates a provider for a llama.cpp server
func NewLlamaCppProvider(endpoint, model string) (*OpenAIProvider, error) {
	if endpoint == "" {
		endpoint = defaultLlamaCppEndpoint
	}
	if model == "" {
		model = defaultLocalModel
	}
	return newOpenAICompatible(string(ProviderLlamaCpp), "llamacpp", endpoint, model), nil
}

// NewGenericOpenAIProvider creates a provider for any OpenAI-compatible API
func NewGenericOpenAIProvider(apiKey, endpoint, model string) (*OpenAIProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required for generic provider")
	}
	if apiKey == "" {
		apiKey = "no-key"
	}
	if model == "" {
		model = "default"
	}
	return newOpenAICompatible(string(ProviderGeneric), apiKey, endpoint, model), nil
}

func newOpenAICompatible(name, apiKey, endpoint, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(endpoint, "/")

	return &OpenAIProvider{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		name:     name,
		endpoint: cfg.BaseURL,
	}
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

// Model returns the configured model name
func (p *OpenAIProvider) Model() string {
	return p.model
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, params types.GenerationParams) (string, error) {
	resp, err := p.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       p.model,
		Prompt:      prompt,
		MaxTokens:   params.MaxTokens,
		Temperature: requestTemperature(params.Temperature),
		TopP:        float32(params.TopP),
		Stop:        params.StopSequences,
	})
	if err != nil {
		return "", newProviderError(p.name, "completion", err)
	}

	if len(resp.Choices) == 0 {
		return "", newProviderError(p.name, "completion", ErrNoChoices)
	}

	return resp.Choices[0].Text, nil
}

// requestTemperature converts t for the request body. go-openai omits a zero
// temperature, which would leave the server default in place.
func requestTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func (p *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	resp, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, newProviderError(p.name, "list models", err)
	}

	models := make([]string, 0, len(resp.Models))
	for _, model := range resp.Models {
		// The hosted API lists chat models too; only instruct models accept
		// plain completions
		if p.name == string(ProviderOpenAI) && !strings.Contains(model.ID, "instruct") {
			continue
		}
		models = append(models, model.ID)
	}
	sort.Strings(models)
	return models, nil
}
