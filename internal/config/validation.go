// Package config - Configuration validation
package config

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s\n  Hint: %s", e.Field, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains all validation errors
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a formatted string of all errors and warnings
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", e.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", w.Error()))
		}
	}

	return sb.String()
}

func (r *ValidationResult) addError(field, message, hint string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message, Hint: hint})
}

func (r *ValidationResult) addWarning(field, message, hint string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Message: message, Hint: hint})
}

// KnownProviders lists the provider names the factory understands
var KnownProviders = []string{"openai", "ollama", "lmstudio", "llamacpp", "generic"}

// Validate validates the configuration and returns all errors and warnings
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateProvider(cfg, result)
	validateModelParams(cfg, result)
	validateSafety(cfg, result)
	validateShell(cfg, result)
	validateHistory(cfg, result)
	validateLogging(cfg, result)

	return result
}

// ValidateStore validates the effective configuration of a store
func ValidateStore(s *Store) (*ValidationResult, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	return Validate(cfg), nil
}

func validateProvider(cfg *Config, result *ValidationResult) {
	providerName := strings.ToLower(cfg.Provider.Name)
	known := strings.Join(KnownProviders, ", ")

	if providerName == "" {
		result.addError("provider.name", "provider name is required",
			"Set provider.name to one of: "+known)
		return
	}
	if !containsString(KnownProviders, providerName) {
		result.addError("provider.name", fmt.Sprintf("unknown provider '%s'", providerName),
			"Known providers: "+known)
		return
	}

	endpoint := cfg.Provider.Endpoint
	if endpoint == "" {
		if providerName == "generic" {
			result.addError("provider.endpoint", "endpoint URL is required for this provider",
				"Set provider.endpoint to your API endpoint URL")
		}
	} else if _, err := url.ParseRequestURI(endpoint); err != nil {
		result.addError("provider.endpoint", fmt.Sprintf("invalid endpoint URL: %s", endpoint),
			"Endpoint should be a valid URL like http://localhost:11434")
	}

	if providerName != "openai" {
		return
	}

	if cfg.Provider.APIKey != "" {
		result.addWarning("provider.api_key", "API key stored in plain text",
			"Use api_key_env instead for better security")
		return
	}

	if cfg.Provider.APIKeyEnv != "" {
		if os.Getenv(cfg.Provider.APIKeyEnv) == "" {
			result.addError("provider.api_key_env",
				fmt.Sprintf("environment variable %s is not set", cfg.Provider.APIKeyEnv),
				fmt.Sprintf("Export the variable: export %s=your_api_key", cfg.Provider.APIKeyEnv))
		}
		return
	}

	if os.Getenv(EnvPrefix+"_API_KEY") == "" && os.Getenv("OPENAI_API_KEY") == "" {
		result.addError("provider.api_key", "OpenAI requires an API key",
			"Set api_key_env: OPENAI_API_KEY and export the variable")
	}
}

func validateModelParams(cfg *Config, result *ValidationResult) {
	p := cfg.ModelParams

	if p.MaxTokens <= 0 {
		result.addError("model_params.max_tokens", "max_tokens must be positive", "")
	} else if p.MaxTokens > 4096 {
		result.addWarning("model_params.max_tokens", fmt.Sprintf("very high max_tokens: %d", p.MaxTokens),
			"A single command rarely needs more than a few hundred tokens")
	}

	if p.Temperature < 0 || p.Temperature > 2 {
		result.addError("model_params.temperature",
			fmt.Sprintf("temperature out of range: %.2f", p.Temperature),
			"Temperature must be between 0 and 2")
	}

	if p.TopP <= 0 || p.TopP > 1 {
		result.addError("model_params.top_p", fmt.Sprintf("top_p out of range: %.2f", p.TopP),
			"top_p must be greater than 0 and at most 1")
	}

	if len(p.StopSequences) == 0 {
		result.addWarning("model_params.stop_sequences", "no stop sequences configured",
			"Defaults will be used")
	}

	if p.TimeoutSeconds < 0 {
		result.addError("model_params.timeout_seconds", "timeout_seconds cannot be negative", "")
	} else if p.TimeoutSeconds == 0 {
		result.addWarning("model_params.timeout_seconds", "generation has no timeout",
			"A stuck model will block until interrupted")
	}
}

func validateSafety(cfg *Config, result *ValidationResult) {
	if len(cfg.Safety.DangerousCommands) == 0 {
		result.addWarning("safety.dangerous_commands", "no dangerous command patterns configured",
			"Only the chaining check will flag commands")
	}
	for _, p := range cfg.Safety.DangerousCommands {
		if strings.TrimSpace(p) == "" {
			result.addWarning("safety.dangerous_commands", "empty pattern is ignored", "")
			break
		}
	}

	if len(cfg.Safety.SafePipeTargets) == 0 {
		result.addWarning("safety.safe_pipe_targets", "no safe pipe targets configured",
			"Every piped command will be flagged as dangerous")
	}

	if !cfg.Safety.RequireConfirmation {
		result.addWarning("safety.require_confirmation", "safe commands run without confirmation",
			"Dangerous commands still ask before running")
	}
}

func validateShell(cfg *Config, result *ValidationResult) {
	switch cfg.Shell.Mode {
	case ShellModeSystem, "":
	case ShellModeBuiltin:
		if cfg.Shell.Path != "" {
			result.addWarning("shell.path", "shell.path is ignored in builtin mode", "")
		}
		return
	default:
		result.addError("shell.mode", fmt.Sprintf("invalid shell mode: %s", cfg.Shell.Mode),
			"Valid modes: system, builtin")
		return
	}

	if cfg.Shell.Path != "" {
		if _, err := exec.LookPath(cfg.Shell.Path); err != nil {
			result.addError("shell.path", fmt.Sprintf("shell not found: %s", cfg.Shell.Path),
				"Set shell.path to an installed shell or use shell.mode: builtin")
		}
	}
}

func validateHistory(cfg *Config, result *ValidationResult) {
	if !cfg.History.Enabled {
		return
	}

	if cfg.History.DBPath == "" {
		result.addError("history.db_path", "history is enabled but db_path is empty", "")
	}

	if cfg.History.RetentionDays < 1 {
		result.addWarning("history.retention_days", "retention_days is very low",
			"Consider setting to at least 7 for useful history")
	}
}

func validateLogging(cfg *Config, result *ValidationResult) {
	if cfg.Logging.Enabled && cfg.Logging.Path == "" {
		result.addError("logging.path", "logging is enabled but path is empty", "")
	}
}

// ValidateConfigFile validates a configuration file at the given path
func ValidateConfigFile(path string) (*ValidationResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	store, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return ValidateStore(store)
}

func containsString(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
