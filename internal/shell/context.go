// Package shell provides shell command execution and context detection
package shell

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/soroush/shazam/internal/types"
)

// GetSystemContext gathers information about the current system
func GetSystemContext() types.SystemContext {
	ctx := types.SystemContext{
		OS:    runtime.GOOS,
		Shell: getShell(),
	}

	if dir, err := os.Getwd(); err == nil {
		ctx.CurrentDir = dir
	}

	if home, err := os.UserHomeDir(); err == nil {
		ctx.HomeDir = home
	}

	if u, err := user.Current(); err == nil {
		ctx.Username = u.Username
	}

	return ctx
}

// getShell returns the current shell name
func getShell() string {
	return filepath.Base(ShellPath())
}

// ShellPath returns the user's login shell, falling back to sh
func ShellPath() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "sh"
}
