// Package config handles shazam configuration management
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/soroush/shazam/internal/safety"
	"github.com/soroush/shazam/internal/types"
)

const (
	// EnvPrefix is prepended to every environment override, e.g.
	// SHAZAM_PROVIDER_NAME overrides provider.name
	EnvPrefix = "SHAZAM"

	configDirName  = "shazam"
	configFileName = "config.yaml"
)

// Config represents the complete application configuration
type Config struct {
	// Assistant name shown in hints
	CommandName string `yaml:"command_name" mapstructure:"command_name"`

	Provider    ProviderConfig    `yaml:"provider" mapstructure:"provider"`
	ModelParams ModelParamsConfig `yaml:"model_params" mapstructure:"model_params"`
	Safety      SafetyConfig      `yaml:"safety" mapstructure:"safety"`
	Shell       ShellConfig       `yaml:"shell" mapstructure:"shell"`
	History     HistoryConfig     `yaml:"history" mapstructure:"history"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// ProviderConfig holds AI provider settings
type ProviderConfig struct {
	Name     string `yaml:"name" mapstructure:"name"`         // openai, ollama, lmstudio, llamacpp, generic
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"` // empty means the provider default
	Model    string `yaml:"model" mapstructure:"model"`

	// Prefer api_key_env over api_key
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	APIKeyEnv string `yaml:"api_key_env" mapstructure:"api_key_env"`
}

// ModelParamsConfig holds the sampling parameters sent with every completion
type ModelParamsConfig struct {
	MaxTokens      int      `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature    float64  `yaml:"temperature" mapstructure:"temperature"`
	TopP           float64  `yaml:"top_p" mapstructure:"top_p"`
	StopSequences  []string `yaml:"stop_sequences" mapstructure:"stop_sequences"`
	TimeoutSeconds int      `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// SafetyConfig holds safety-related settings
type SafetyConfig struct {
	DangerousCommands   []string `yaml:"dangerous_commands" mapstructure:"dangerous_commands"`
	SafePipeTargets     []string `yaml:"safe_pipe_targets" mapstructure:"safe_pipe_targets"`
	RequireConfirmation bool     `yaml:"require_confirmation" mapstructure:"require_confirmation"`
	StrictChaining      bool     `yaml:"strict_chaining" mapstructure:"strict_chaining"`
}

// ShellConfig holds shell settings
type ShellConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"` // system, builtin
	Path string `yaml:"path" mapstructure:"path"` // empty means $SHELL, then sh
}

// HistoryConfig holds history settings
type HistoryConfig struct {
	Enabled       bool   `yaml:"enabled" mapstructure:"enabled"`
	DBPath        string `yaml:"db_path" mapstructure:"db_path"`
	RetentionDays int    `yaml:"retention_days" mapstructure:"retention_days"`
}

// LoggingConfig holds diagnostic log settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
	Debug   bool   `yaml:"debug" mapstructure:"debug"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", configDirName)
	stateDir := filepath.Join(homeDir, ".local", "state", configDirName)

	return &Config{
		CommandName: "jarvis",

		Provider: ProviderConfig{
			Name: "ollama",
		},

		ModelParams: ModelParamsConfig{
			MaxTokens:      types.DefaultMaxTokens,
			Temperature:    types.DefaultTemperature,
			TopP:           types.DefaultTopP,
			StopSequences:  types.DefaultStopSequences(),
			TimeoutSeconds: 60,
		},

		Safety: SafetyConfig{
			DangerousCommands:   safety.DefaultDangerousCommands(),
			SafePipeTargets:     safety.DefaultSafePipeTargets(),
			RequireConfirmation: true,
		},

		Shell: ShellConfig{
			Mode: ShellModeSystem,
		},

		History: HistoryConfig{
			Enabled:       true,
			DBPath:        filepath.Join(dataDir, "history.db"),
			RetentionDays: 30,
		},

		Logging: LoggingConfig{
			Path: filepath.Join(stateDir, "shazam.log"),
		},
	}
}

// Shell modes
const (
	ShellModeSystem  = "system"
	ShellModeBuiltin = "builtin"
)

// values flattens the config into dotted keys
func (c *Config) values() map[string]interface{} {
	return map[string]interface{}{
		"command_name": c.CommandName,

		"provider.name":        c.Provider.Name,
		"provider.endpoint":    c.Provider.Endpoint,
		"provider.model":       c.Provider.Model,
		"provider.api_key":     c.Provider.APIKey,
		"provider.api_key_env": c.Provider.APIKeyEnv,

		"model_params.max_tokens":      c.ModelParams.MaxTokens,
		"model_params.temperature":     c.ModelParams.Temperature,
		"model_params.top_p":           c.ModelParams.TopP,
		"model_params.stop_sequences":  cloneStrings(c.ModelParams.StopSequences),
		"model_params.timeout_seconds": c.ModelParams.TimeoutSeconds,

		"safety.dangerous_commands":   cloneStrings(c.Safety.DangerousCommands),
		"safety.safe_pipe_targets":    cloneStrings(c.Safety.SafePipeTargets),
		"safety.require_confirmation": c.Safety.RequireConfirmation,
		"safety.strict_chaining":      c.Safety.StrictChaining,

		"shell.mode": c.Shell.Mode,
		"shell.path": c.Shell.Path,

		"history.enabled":        c.History.Enabled,
		"history.db_path":        c.History.DBPath,
		"history.retention_days": c.History.RetentionDays,

		"logging.enabled": c.Logging.Enabled,
		"logging.path":    c.Logging.Path,
		"logging.debug":   c.Logging.Debug,
	}
}

// Keys returns every settable configuration key, sorted
func Keys() []string {
	defaults := DefaultConfig().values()
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultPath returns the user configuration file location
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, configDirName, configFileName)
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", configDirName, configFileName)
}

// Store is the configuration provider: dotted-key reads and writes over the
// config file. Reads see environment overrides; writes and saves do not, so
// an override is never persisted.
type Store struct {
	v        *viper.Viper // file + env, for reads
	file     *viper.Viper // file only, for persistence
	defaults map[string]interface{}
	path     string
	exists   bool
}

// Load reads the configuration file at path (DefaultPath when empty). A
// missing file is not an error; IsFirstRun reports it.
func Load(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}

	s := &Store{
		v:        newViper(path),
		file:     newViper(path),
		defaults: DefaultConfig().values(),
		path:     path,
	}

	for key, value := range s.defaults {
		s.v.SetDefault(key, value)
		s.file.SetDefault(key, value)
	}

	s.v.SetEnvPrefix(EnvPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	s.v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		s.exists = true
		if err := s.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := s.file.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	return s, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	return v
}

// Path returns the configuration file location
func (s *Store) Path() string {
	return s.path
}

// IsFirstRun reports whether no configuration file has been written yet
func (s *Store) IsFirstRun() bool {
	return !s.exists
}

// Get returns the value at a dotted key, or def when the key is unknown
func (s *Store) Get(key string, def interface{}) interface{} {
	key = normalizeKey(key)
	if key == "" || !s.v.IsSet(key) {
		return def
	}
	return s.v.Get(key)
}

// IsKnownKey reports whether key names a settable leaf value
func (s *Store) IsKnownKey(key string) bool {
	_, ok := s.defaults[normalizeKey(key)]
	return ok
}

// Set converts value to the key's type, stores it and saves the file
func (s *Store) Set(key string, value interface{}) error {
	key = normalizeKey(key)
	def, ok := s.defaults[key]
	if !ok {
		return fmt.Errorf("unknown key: %s", key)
	}

	converted, err := convertValue(def, value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	s.v.Set(key, converted)
	s.file.Set(key, converted)
	return s.Save()
}

// Apply replaces every value with the ones in cfg and saves the file
func (s *Store) Apply(cfg *Config) error {
	for key, value := range cfg.values() {
		s.v.Set(key, value)
		s.file.Set(key, value)
	}
	return s.Save()
}

// Config decodes the effective configuration, environment overrides included
func (s *Store) Config() (*Config, error) {
	return decode(s.v)
}

// FileConfig decodes only what the configuration file holds, without
// environment overrides
func (s *Store) FileConfig() (*Config, error) {
	return decode(s.file)
}

// Snapshot returns an immutable copy of the effective configuration for one
// generation cycle
func (s *Store) Snapshot() (Snapshot, error) {
	cfg, err := s.Config()
	if err != nil {
		return Snapshot{}, err
	}
	return cfg.Snapshot(), nil
}

// Save writes the configuration file
func (s *Store) Save() error {
	cfg, err := decode(s.file)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// May hold an API key
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	s.exists = true
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// ParseValue converts a command-line value: true/false become bools, digit
// strings become ints, digits with dots become floats, anything else stays a
// string
func ParseValue(raw string) interface{} {
	lower := strings.ToLower(raw)
	if lower == "true" || lower == "false" {
		return lower == "true"
	}

	if isDigits(raw) {
		if i, err := strconv.Atoi(raw); err == nil {
			return i
		}
	}

	if strings.Contains(raw, ".") && isDigits(strings.ReplaceAll(raw, ".", "")) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}

	return raw
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// convertValue coerces value to the type of def
func convertValue(def, value interface{}) (interface{}, error) {
	switch def.(type) {
	case string:
		return fmt.Sprintf("%v", value), nil

	case int:
		switch val := value.(type) {
		case int:
			return val, nil
		case int64:
			return int(val), nil
		case float64:
			if val != float64(int(val)) {
				return nil, fmt.Errorf("expected an integer, got %v", val)
			}
			return int(val), nil
		case string:
			i, err := strconv.Atoi(strings.TrimSpace(val))
			if err != nil {
				return nil, fmt.Errorf("expected an integer, got %q", val)
			}
			return i, nil
		}

	case float64:
		switch val := value.(type) {
		case float64:
			return val, nil
		case int:
			return float64(val), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				return nil, fmt.Errorf("expected a number, got %q", val)
			}
			return f, nil
		}

	case bool:
		switch val := value.(type) {
		case bool:
			return val, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(val))
			if err != nil {
				return nil, fmt.Errorf("expected true or false, got %q", val)
			}
			return b, nil
		}

	case []string:
		switch val := value.(type) {
		case []string:
			return cloneStrings(val), nil
		case string:
			return splitList(val), nil
		}
	}

	return nil, fmt.Errorf("unsupported value %v (%T)", value, value)
}

// splitList splits a comma-separated list, dropping empty items
func splitList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
