// Package logging builds the diagnostic logger. Diagnostics go to a file,
// never to the terminal the user is reading.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/soroush/shazam/internal/config"
)

// New returns a JSON file logger for cfg, or a no-op logger when logging is
// disabled. debug forces logging on at debug level. The returned function
// flushes and closes the log file.
func New(cfg config.LoggingConfig, debug bool) (*zap.Logger, func() error, error) {
	if !cfg.Enabled && !debug && !cfg.Debug {
		return zap.NewNop(), func() error { return nil }, nil
	}
	if cfg.Path == "" {
		return nil, nil, fmt.Errorf("logging.path is not set")
	}

	f, err := OpenLogFile(cfg.Path)
	if err != nil {
		return nil, nil, err
	}

	level := zapcore.InfoLevel
	if debug || cfg.Debug {
		level = zapcore.DebugLevel
	}

	logger := NewWithCore(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(f),
		level,
	))

	closeFn := func() error {
		_ = logger.Sync()
		return f.Close()
	}
	return logger, closeFn, nil
}

// NewWithCore wraps core with the fields every shazam log line carries
func NewWithCore(core zapcore.Core) *zap.Logger {
	return zap.New(core).With(zap.Int("pid", os.Getpid()))
}

// OpenLogFile opens path for appending, creating its directory
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	return ec
}
