// Package config tests
package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soroush/shazam/internal/types"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Load(filepath.Join(t.TempDir(), "shazam", "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CommandName != "jarvis" {
		t.Errorf("Expected default CommandName 'jarvis', got '%s'", cfg.CommandName)
	}
	if cfg.Provider.Name != "ollama" {
		t.Errorf("Expected default Provider.Name 'ollama', got '%s'", cfg.Provider.Name)
	}

	if cfg.ModelParams.MaxTokens != 150 {
		t.Errorf("Expected default MaxTokens 150, got %d", cfg.ModelParams.MaxTokens)
	}
	if cfg.ModelParams.Temperature != 0.1 {
		t.Errorf("Expected default Temperature 0.1, got %f", cfg.ModelParams.Temperature)
	}
	if cfg.ModelParams.TopP != 0.9 {
		t.Errorf("Expected default TopP 0.9, got %f", cfg.ModelParams.TopP)
	}
	if !reflect.DeepEqual(cfg.ModelParams.StopSequences, []string{"\n\n", "User:", "Assistant:"}) {
		t.Errorf("unexpected default stop sequences: %q", cfg.ModelParams.StopSequences)
	}

	if len(cfg.Safety.DangerousCommands) != 8 {
		t.Errorf("Expected 8 default dangerous commands, got %d", len(cfg.Safety.DangerousCommands))
	}
	if !cfg.Safety.RequireConfirmation {
		t.Error("Expected RequireConfirmation to default to true")
	}
	if cfg.Safety.StrictChaining {
		t.Error("Expected StrictChaining to default to false")
	}

	if cfg.Shell.Mode != ShellModeSystem {
		t.Errorf("Expected default shell mode 'system', got '%s'", cfg.Shell.Mode)
	}
	if !cfg.History.Enabled || cfg.History.DBPath == "" {
		t.Error("Expected history enabled with a db path")
	}
	if cfg.Logging.Enabled {
		t.Error("Expected logging disabled by default")
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	want := []string{"command_name", "model_params.max_tokens", "safety.dangerous_commands", "shell.mode"}

	for _, k := range want {
		found := false
		for _, key := range keys {
			if key == k {
				found = true
			}
		}
		if !found {
			t.Errorf("expected key %s in %v", k, keys)
		}
	}

	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	store := tempStore(t)

	if !store.IsFirstRun() {
		t.Error("expected first run when no config file exists")
	}
	if got := store.Get("model_params.max_tokens", 0); got != 150 {
		t.Errorf("expected default max_tokens 150, got %v", got)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("Load should not create the config file")
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
provider:
  name: openai
  model: gpt-3.5-turbo-instruct
model_params:
  max_tokens: 42
safety:
  dangerous_commands:
    - terraform destroy
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.IsFirstRun() {
		t.Error("existing file should not be a first run")
	}

	cfg, err := store.Config()
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}
	if cfg.Provider.Name != "openai" || cfg.ModelParams.MaxTokens != 42 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	// Keys missing from the file keep their defaults
	if cfg.ModelParams.Temperature != 0.1 {
		t.Errorf("expected default temperature, got %f", cfg.ModelParams.Temperature)
	}
	if !reflect.DeepEqual(cfg.Safety.DangerousCommands, []string{"terraform destroy"}) {
		t.Errorf("expected configured patterns, got %v", cfg.Safety.DangerousCommands)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("provider: [unclosed"), 0600)

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestStore_Get(t *testing.T) {
	store := tempStore(t)

	if got := store.Get("does.not.exist", "fallback"); got != "fallback" {
		t.Errorf("expected fallback for unknown key, got %v", got)
	}
	if got := store.Get("  Safety.Require_Confirmation ", false); got != true {
		t.Errorf("expected keys to be case-insensitive, got %v", got)
	}
	if _, ok := store.Get("safety", nil).(map[string]interface{}); !ok {
		t.Error("expected a section key to return a map")
	}
}

func TestStore_SetPersists(t *testing.T) {
	store := tempStore(t)

	if err := store.Set("model_params.temperature", 0.5); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if store.IsFirstRun() {
		t.Error("Set should write the config file")
	}

	reloaded, err := Load(store.Path())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	cfg, _ := reloaded.Config()
	if cfg.ModelParams.Temperature != 0.5 {
		t.Errorf("expected persisted temperature 0.5, got %f", cfg.ModelParams.Temperature)
	}
	if cfg.ModelParams.MaxTokens != 150 {
		t.Errorf("expected other values untouched, got max_tokens %d", cfg.ModelParams.MaxTokens)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected config file mode 0600, got %v", info.Mode().Perm())
	}
}

func TestStore_SetConvertsValues(t *testing.T) {
	store := tempStore(t)

	tests := []struct {
		key   string
		value interface{}
		check func(*Config) bool
	}{
		{"model_params.max_tokens", "200", func(c *Config) bool { return c.ModelParams.MaxTokens == 200 }},
		{"model_params.top_p", 1, func(c *Config) bool { return c.ModelParams.TopP == 1.0 }},
		{"safety.strict_chaining", "true", func(c *Config) bool { return c.Safety.StrictChaining }},
		{"command_name", 42, func(c *Config) bool { return c.CommandName == "42" }},
		{"safety.dangerous_commands", "rm -rf /, mkfs,,", func(c *Config) bool {
			return reflect.DeepEqual(c.Safety.DangerousCommands, []string{"rm -rf /", "mkfs"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := store.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%s, %v) failed: %v", tt.key, tt.value, err)
			}
			cfg, err := store.Config()
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(cfg) {
				t.Errorf("Set(%s, %v) not reflected in config", tt.key, tt.value)
			}
		})
	}
}

func TestStore_SetRejects(t *testing.T) {
	store := tempStore(t)

	tests := []struct {
		key   string
		value interface{}
	}{
		{"nope", "x"},
		{"provider", "x"},
		{"model_params.max_tokens", "many"},
		{"model_params.max_tokens", 1.5},
		{"safety.require_confirmation", "maybe"},
		{"model_params.temperature", true},
	}

	for _, tt := range tests {
		if err := store.Set(tt.key, tt.value); err == nil {
			t.Errorf("expected Set(%s, %v) to fail", tt.key, tt.value)
		}
	}
	if !store.IsFirstRun() {
		t.Error("rejected values should not write the file")
	}
}

func TestStore_EnvOverride(t *testing.T) {
	t.Setenv("SHAZAM_PROVIDER_NAME", "lmstudio")
	t.Setenv("SHAZAM_MODEL_PARAMS_MAX_TOKENS", "99")

	store := tempStore(t)

	cfg, err := store.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Name != "lmstudio" || cfg.ModelParams.MaxTokens != 99 {
		t.Errorf("env overrides not applied: %s %d", cfg.Provider.Name, cfg.ModelParams.MaxTokens)
	}
	if store.Get("provider.name", "") != "lmstudio" {
		t.Errorf("Get should see env override, got %v", store.Get("provider.name", ""))
	}

	fileCfg, err := store.FileConfig()
	if err != nil {
		t.Fatal(err)
	}
	if fileCfg.Provider.Name != "ollama" || fileCfg.ModelParams.MaxTokens != 150 {
		t.Errorf("FileConfig should ignore env overrides: %s %d", fileCfg.Provider.Name, fileCfg.ModelParams.MaxTokens)
	}

	// Overrides are never written back
	if err := store.Set("command_name", "friday"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	var saved Config
	if err := yaml.Unmarshal(data, &saved); err != nil {
		t.Fatal(err)
	}
	if saved.Provider.Name != "ollama" || saved.ModelParams.MaxTokens != 150 {
		t.Errorf("env override leaked into file: %s %d", saved.Provider.Name, saved.ModelParams.MaxTokens)
	}
	if saved.CommandName != "friday" {
		t.Errorf("expected saved command name, got %s", saved.CommandName)
	}
}

func TestStore_Apply(t *testing.T) {
	store := tempStore(t)

	cfg := DefaultConfig()
	cfg.Provider = ProviderConfig{Name: "llamacpp", Endpoint: "http://box:8080/v1", Model: "m"}
	cfg.Safety.SafePipeTargets = []string{"jq"}

	if err := store.Apply(cfg); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	reloaded, _ := Load(store.Path())
	got, _ := reloaded.Config()
	if got.Provider != cfg.Provider {
		t.Errorf("expected provider %+v, got %+v", cfg.Provider, got.Provider)
	}
	if !reflect.DeepEqual(got.Safety.SafePipeTargets, []string{"jq"}) {
		t.Errorf("expected safe pipes [jq], got %v", got.Safety.SafePipeTargets)
	}
}

func TestSnapshot_Isolation(t *testing.T) {
	store := tempStore(t)

	snap, err := store.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	snap.Safety.DangerousCommands[0] = "changed"
	snap.ModelParams.StopSequences[0] = "changed"

	cfg, _ := store.Config()
	if cfg.Safety.DangerousCommands[0] != "rm -rf /" {
		t.Error("snapshot shares pattern memory with the store")
	}

	cfg.Safety.DangerousCommands[0] = "again"
	again := cfg.Snapshot()
	cfg.Safety.DangerousCommands[0] = "mutated after snapshot"
	if again.Safety.DangerousCommands[0] != "again" {
		t.Error("snapshot shares pattern memory with its config")
	}
}

func TestSnapshot_GenerationParams(t *testing.T) {
	snap := DefaultSnapshot()
	params := snap.GenerationParams()

	if err := params.Validate(); err != nil {
		t.Errorf("default params invalid: %v", err)
	}
	if !reflect.DeepEqual(params, types.DefaultGenerationParams()) {
		t.Errorf("expected default params, got %+v", params)
	}

	snap.ModelParams.StopSequences = nil
	if got := snap.GenerationParams().StopSequences; !reflect.DeepEqual(got, types.DefaultStopSequences()) {
		t.Errorf("expected default stop sequences when unset, got %q", got)
	}
}

func TestSnapshot_Timeout(t *testing.T) {
	snap := DefaultSnapshot()
	if snap.Timeout() != 60*time.Second {
		t.Errorf("expected 60s, got %v", snap.Timeout())
	}

	snap.ModelParams.TimeoutSeconds = 0
	if snap.Timeout() != 0 {
		t.Errorf("expected no timeout, got %v", snap.Timeout())
	}
}

func TestSnapshot_APIKey(t *testing.T) {
	t.Setenv("SHAZAM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("MY_KEY", "from-env")

	snap := DefaultSnapshot()
	if snap.APIKey() != "" {
		t.Errorf("expected no key, got %q", snap.APIKey())
	}

	snap.Provider.APIKey = "plain"
	if snap.APIKey() != "plain" {
		t.Errorf("expected plain key, got %q", snap.APIKey())
	}

	snap.Provider.APIKeyEnv = "MY_KEY"
	if snap.APIKey() != "from-env" {
		t.Errorf("expected env key to win, got %q", snap.APIKey())
	}

	t.Setenv("OPENAI_API_KEY", "fallback")
	snap = DefaultSnapshot()
	if snap.APIKey() != "fallback" {
		t.Errorf("expected OPENAI_API_KEY fallback, got %q", snap.APIKey())
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want interface{}
	}{
		{"true", true},
		{"FALSE", false},
		{"42", 42},
		{"0.5", 0.5},
		{"2.", 2.0},
		{"1.2.3", "1.2.3"},
		{"-1", "-1"},
		{"llama3.2", "llama3.2"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseValue(tt.raw); got != tt.want {
				t.Errorf("ParseValue(%q) = %v (%T), want %v (%T)", tt.raw, got, got, tt.want, tt.want)
			}
		})
	}
}
