package config

import (
	"os"
	"time"

	"github.com/soroush/shazam/internal/types"
)

// Snapshot is the part of the configuration a generation cycle reads. It is
// taken once at cycle start and shares no memory with the Store.
type Snapshot struct {
	CommandName string
	Provider    ProviderConfig
	ModelParams ModelParamsConfig
	Safety      SafetyConfig
	Shell       ShellConfig
}

// Snapshot copies the cycle-relevant settings out of c
func (c *Config) Snapshot() Snapshot {
	s := Snapshot{
		CommandName: c.CommandName,
		Provider:    c.Provider,
		ModelParams: c.ModelParams,
		Safety:      c.Safety,
		Shell:       c.Shell,
	}
	s.ModelParams.StopSequences = cloneStrings(c.ModelParams.StopSequences)
	s.Safety.DangerousCommands = cloneStrings(c.Safety.DangerousCommands)
	s.Safety.SafePipeTargets = cloneStrings(c.Safety.SafePipeTargets)
	return s
}

// DefaultSnapshot returns a snapshot of the default configuration
func DefaultSnapshot() Snapshot {
	return DefaultConfig().Snapshot()
}

// GenerationParams returns the sampling parameters. An unset stop sequence
// list falls back to the defaults.
func (s Snapshot) GenerationParams() types.GenerationParams {
	stops := cloneStrings(s.ModelParams.StopSequences)
	if len(stops) == 0 {
		stops = types.DefaultStopSequences()
	}
	return types.GenerationParams{
		MaxTokens:     s.ModelParams.MaxTokens,
		Temperature:   s.ModelParams.Temperature,
		TopP:          s.ModelParams.TopP,
		StopSequences: stops,
	}
}

// Timeout bounds a single provider call; zero means no bound
func (s Snapshot) Timeout() time.Duration {
	if s.ModelParams.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.ModelParams.TimeoutSeconds) * time.Second
}

// APIKey resolves the provider API key
func (s Snapshot) APIKey() string {
	// 1. Configured environment variable
	if s.Provider.APIKeyEnv != "" {
		if key := os.Getenv(s.Provider.APIKeyEnv); key != "" {
			return key
		}
	}

	// 2. Direct API key in config
	if s.Provider.APIKey != "" {
		return s.Provider.APIKey
	}

	// 3. Common environment variables
	if key := os.Getenv(EnvPrefix + "_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}
