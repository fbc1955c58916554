// Package ai provides factory functions for creating AI providers
package ai

import (
	"fmt"

	"github.com/soroush/shazam/internal/config"
)

// NewProvider creates a new AI provider by name
func NewProvider(providerType, apiKey, endpoint, model string) (Provider, error) {
	switch ProviderType(providerType) {
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, endpoint, model)
	case ProviderOllama:
		return NewOllamaProvider(endpoint, model)
	case ProviderLMStudio:
		return NewLMStudioProvider(endpoint, model)
	case ProviderLlamaCpp:
		return NewLlamaCppProvider(endpoint, model)
	case ProviderGeneric:
		return NewGenericOpenAIProvider(apiKey, endpoint, model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerType)
	}
}

// NewProviderFromSnapshot creates a provider from a configuration snapshot
func NewProviderFromSnapshot(snap config.Snapshot) (Provider, error) {
	p := snap.Provider
	return NewProvider(p.Name, snap.APIKey(), p.Endpoint, p.Model)
}

// ModelName returns the model a provider is bound to, if it exposes one
func ModelName(p Provider) string {
	if m, ok := p.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}

// AvailableProviders returns a list of available provider types
func AvailableProviders() []string {
	return []string{
		string(ProviderOpenAI),
		string(ProviderOllama),
		string(ProviderLMStudio),
		string(ProviderLlamaCpp),
		string(ProviderGeneric),
	}
}

// RecommendedModels returns recommended models for each provider
func RecommendedModels() map[string][]string {
	return map[string][]string{
		string(ProviderOpenAI): {
			"gpt-3.5-turbo-instruct",
		},
		string(ProviderOllama): {
			"llama3.2",
			"qwen2.5-coder",
			"codellama",
			"mistral",
		},
		string(ProviderLMStudio): {
			defaultLocalModel, // Use whatever is loaded
		},
		string(ProviderLlamaCpp): {
			defaultLocalModel,
		},
	}
}
