// Package ai provides Ollama provider implementation for local models
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/soroush/shazam/internal/types"
)

const (
	defaultOllamaEndpoint = "http://localhost:11434"
	defaultOllamaModel    = "llama3.2"
)

// OllamaProvider implements the Provider interface for Ollama
type OllamaProvider struct {
	endpoint string
	model    string
	client   *http.Client
}

// OllamaGenerateRequest represents an Ollama generate API request. Raw mode
// disables the model's chat template so the prompt is sent verbatim.
type OllamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Raw     bool           `json:"raw"`
	Stream  bool           `json:"stream"`
	Options *OllamaOptions `json:"options,omitempty"`
}

// OllamaOptions represents model options
type OllamaOptions struct {
	Temperature float64  `json:"temperature"`
	NumPredict  int      `json:"num_predict,omitempty"`
	TopP        float64  `json:"top_p,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// OllamaGenerateResponse represents an Ollama generate API response
type OllamaGenerateResponse struct {
	Model      string `json:"model"`
	CreatedAt  string `json:"created_at"`
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`
	EvalCount  int    `json:"eval_count,omitempty"`
}

// OllamaModelsResponse represents the response from listing models
type OllamaModelsResponse struct {
	Models []OllamaModel `json:"models"`
}

// OllamaModel represents a model in Ollama
type OllamaModel struct {
	Name       string `json:"name"`
	ModifiedAt string `json:"modified_at"`
	Size       int64  `json:"size"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(endpoint, model string) (*OllamaProvider, error) {
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}
	if model == "" {
		model = defaultOllamaModel
	}

	return &OllamaProvider{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		model:    model,
		client:   &http.Client{},
	}, nil
}

func (p *OllamaProvider) Name() string {
	return string(ProviderOllama)
}

// Model returns the configured model name
func (p *OllamaProvider) Model() string {
	return p.model
}

func (p *OllamaProvider) Complete(ctx context.Context, prompt string, params types.GenerationParams) (string, error) {
	reqBody := OllamaGenerateRequest{
		Model:  p.model,
		Prompt: prompt,
		Raw:    true,
		Stream: false,
		Options: &OllamaOptions{
			Temperature: params.Temperature,
			NumPredict:  params.MaxTokens,
			TopP:        params.TopP,
			Stop:        params.StopSequences,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", newProviderError(p.Name(), "generate", fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", newProviderError(p.Name(), "generate", fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", newProviderError(p.Name(), "generate", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", newProviderError(p.Name(), "generate", readOllamaError(resp))
	}

	var genResp OllamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", newProviderError(p.Name(), "generate", fmt.Errorf("failed to decode response: %w", err))
	}

	return genResp.Response, nil
}

func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/api/tags", nil)
	if err != nil {
		return nil, newProviderError(p.Name(), "list models", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, newProviderError(p.Name(), "list models", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newProviderError(p.Name(), "list models", readOllamaError(resp))
	}

	var modelsResp OllamaModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, newProviderError(p.Name(), "list models", fmt.Errorf("failed to decode response: %w", err))
	}

	models := make([]string, len(modelsResp.Models))
	for i, m := range modelsResp.Models {
		models[i] = m.Name
	}
	return models, nil
}

// readOllamaError turns a non-200 response into an error, preferring the
// server's own message
func readOllamaError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr ollamaError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("ollama API error: %s - %s", resp.Status, apiErr.Error)
	}
	return fmt.Errorf("ollama API error: %s - %s", resp.Status, strings.TrimSpace(string(body)))
}
