// Application state and initialization for shazam CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/soroush/shazam/internal/ai"
	"github.com/soroush/shazam/internal/config"
	"github.com/soroush/shazam/internal/engine"
	"github.com/soroush/shazam/internal/history"
	"github.com/soroush/shazam/internal/logging"
	"github.com/soroush/shazam/internal/types"
)

var (
	// Version info - set during build via ldflags
	version = "dev"
	commit  = "none"

	// Command flags
	autoRun    bool
	runSetup   bool
	configFlag string
	configFile string
	debugLogs  bool
)

// app holds what a command needs after initialization
type app struct {
	store    *config.Store
	logger   *zap.Logger
	history  *history.Store
	closeLog func() error
}

// initializeApp loads the configuration and opens the log and history
func initializeApp() (*app, error) {
	store, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	cfg, err := store.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Logging, debugLogs)
	if err != nil {
		// Non-fatal, continue without diagnostics
		fmt.Fprintf(os.Stderr, "Warning: Could not open log file: %v\n", err)
		logger, closeLog = zap.NewNop(), func() error { return nil }
	}

	a := &app{store: store, logger: logger, closeLog: closeLog}

	if cfg.History.Enabled && !store.IsFirstRun() {
		a.history, err = openHistory(cfg.History)
		if err != nil {
			// Non-fatal, continue without history
			fmt.Fprintf(os.Stderr, "Warning: Could not initialize history: %v\n", err)
			logger.Warn("history unavailable", zap.Error(err))
		}
	}

	return a, nil
}

func openHistory(cfg config.HistoryConfig) (*history.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, err
	}
	store, err := history.NewStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if cfg.RetentionDays > 0 {
		if _, err := store.Cleanup(cfg.RetentionDays); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

// close releases the history database and flushes the log
func (a *app) close() {
	if a.history != nil {
		a.history.Close()
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}

// newProvider creates the generation provider for a snapshot
func newProvider(snap config.Snapshot) (ai.Provider, error) {
	provider, err := ai.NewProviderFromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}
	return provider, nil
}

// record stores a finished cycle in the history, if enabled
func (a *app) record(out engine.Outcome, provider ai.Provider) {
	if a.history == nil || !out.Done() {
		return
	}

	cwd, _ := os.Getwd()
	entry := &types.HistoryEntry{
		Timestamp:    time.Now(),
		Prompt:       out.Prompt,
		Command:      out.Command,
		Dangerous:    out.Verdict.Dangerous,
		DangerReason: out.Verdict.Reason,
		State:        out.State,
		Executed:     out.Executed,
		ExitCode:     out.ExitCode,
		DurationMs:   out.Duration.Milliseconds(),
		Message:      out.Message,
		WorkingDir:   cwd,
		Provider:     provider.Name(),
		Model:        ai.ModelName(provider),
	}
	if err := a.history.Add(entry); err != nil {
		a.logger.Warn("failed to record history", zap.Error(err))
	}
}
