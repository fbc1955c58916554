// Package config - Interactive setup wizard
package config

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Wizard walks the user through provider and model settings
type Wizard struct {
	reader *bufio.Reader
	out    io.Writer

	// Probe reports whether an endpoint answers; nil skips the check
	Probe func(endpoint string) bool
}

// NewWizard creates a wizard reading answers from in and writing to out
func NewWizard(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{
		reader: bufio.NewReader(in),
		out:    out,
		Probe:  testConnection,
	}
}

// RunWizard runs the interactive setup wizard and saves the result
func RunWizard(store *Store, in io.Reader, out io.Writer) (*Config, error) {
	return NewWizard(in, out).Run(store)
}

// Run asks every question, starting from the values in the config file, then
// saves the answers. Environment overrides are never written back.
func (w *Wizard) Run(store *Store) (*Config, error) {
	cfg, err := store.FileConfig()
	if err != nil {
		return nil, err
	}

	w.println()
	w.println("🚀 Welcome to shazam setup!")
	w.println("Let's configure your AI assistant...")
	w.println()

	w.println("Select your AI provider:")
	w.println()
	w.println("  1) Ollama        - Local models, free (llama3.2, qwen2.5-coder, ...)")
	w.println("  2) LM Studio     - Local models with GUI")
	w.println("  3) llama.cpp     - Local llama.cpp server")
	w.println("  4) OpenAI        - Hosted instruct models (requires API key)")
	w.println("  5) Other         - Any OpenAI-compatible completions API")
	w.println()

	switch w.ask("Choice [1-5]", "1") {
	case "1":
		w.configureLocal(cfg, "ollama", "Ollama server endpoint", "http://localhost:11434", "llama3.2")
	case "2":
		w.configureLocal(cfg, "lmstudio", "LM Studio endpoint", "http://localhost:1234/v1", "local-model")
	case "3":
		w.configureLocal(cfg, "llamacpp", "llama.cpp server endpoint", "http://localhost:8080/v1", "local-model")
	case "4":
		w.configureOpenAI(cfg)
	case "5":
		w.configureGeneric(cfg)
	default:
		w.println("Invalid choice, using Ollama defaults.")
		cfg.Provider = ProviderConfig{Name: "ollama", Endpoint: "http://localhost:11434", Model: "llama3.2"}
	}

	if w.Probe != nil {
		w.println()
		if w.Probe(cfg.Provider.Endpoint) {
			w.println("🔍 Testing connection... ✓ Connected!")
		} else {
			w.println("🔍 Testing connection... ✗ Could not connect")
			w.println("   (Configuration will be saved anyway, you can fix it later)")
		}
	}

	w.println()
	if name := w.ask(fmt.Sprintf("🤖 Enter your assistant's name (current: %s)", cfg.CommandName), ""); name != "" {
		cfg.CommandName = name
		w.printf("✅ Assistant name set: %s\n", name)
	}

	w.println("🔧 Advanced settings (press Enter to use defaults):")

	if answer := w.ask(fmt.Sprintf("Max tokens (%d)", cfg.ModelParams.MaxTokens), ""); answer != "" {
		if n, err := strconv.Atoi(answer); err == nil && isDigits(answer) && n > 0 {
			cfg.ModelParams.MaxTokens = n
		}
	}

	if answer := w.ask(fmt.Sprintf("Temperature (%g)", cfg.ModelParams.Temperature), ""); answer != "" {
		if temp, err := strconv.ParseFloat(answer, 64); err == nil && temp >= 0 && temp <= 2 {
			cfg.ModelParams.Temperature = temp
		}
	}

	if err := store.Apply(cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	w.println()
	w.println("🎉 Setup complete! You can now use your assistant.")
	w.printf("💡 Try: %s 'list files in current directory'\n", cfg.CommandName)
	w.printf("💡 Or with auto-run: %s -r 'show disk usage'\n", cfg.CommandName)

	return cfg, nil
}

func (w *Wizard) configureLocal(cfg *Config, name, label, endpoint, model string) {
	cfg.Provider.Name = name
	cfg.Provider.APIKey = ""
	cfg.Provider.APIKeyEnv = ""

	w.println()
	cfg.Provider.Endpoint = w.ask(fmt.Sprintf("%s [%s]", label, endpoint), endpoint)
	cfg.Provider.Model = w.ask(fmt.Sprintf("Model [%s]", model), model)
}

func (w *Wizard) configureOpenAI(cfg *Config) {
	cfg.Provider.Name = "openai"
	cfg.Provider.Endpoint = "https://api.openai.com/v1"

	w.println()
	w.println("OpenAI requires an API key from https://platform.openai.com")
	cfg.Provider.APIKeyEnv = w.ask("API key environment variable [OPENAI_API_KEY]", "OPENAI_API_KEY")
	cfg.Provider.Model = w.ask("Model [gpt-3.5-turbo-instruct]", "gpt-3.5-turbo-instruct")
}

func (w *Wizard) configureGeneric(cfg *Config) {
	cfg.Provider.Name = "generic"

	w.println()
	cfg.Provider.Endpoint = w.ask("API endpoint URL", "")
	cfg.Provider.Model = w.ask("Model name", "")
	cfg.Provider.APIKeyEnv = w.ask("API key environment variable (leave empty if none)", "")
}

// ask prints a prompt and returns the trimmed answer, or def when empty
func (w *Wizard) ask(prompt, def string) string {
	fmt.Fprintf(w.out, "%s: ", prompt)
	answer, _ := w.reader.ReadString('\n')
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def
	}
	return answer
}

func (w *Wizard) println(a ...interface{}) {
	fmt.Fprintln(w.out, a...)
}

func (w *Wizard) printf(format string, a ...interface{}) {
	fmt.Fprintf(w.out, format, a...)
}

func testConnection(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(endpoint)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
