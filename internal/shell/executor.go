package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Executor runs a single command string to completion.
//
// A command that runs and exits non-zero returns its exit code and a nil
// error. A non-nil error means the command could not be run at all; the code
// is then -1.
type Executor interface {
	Run(ctx context.Context, command string) (int, error)
}

// Executor modes
const (
	ModeSystem  = "system"
	ModeBuiltin = "builtin"
)

// NewExecutor returns the executor for a shell mode, wired to the process's
// standard streams
func NewExecutor(mode, shellPath string) (Executor, error) {
	switch mode {
	case ModeSystem, "":
		return NewSystemExecutor(shellPath), nil
	case ModeBuiltin:
		return NewInterpExecutor(), nil
	default:
		return nil, fmt.Errorf("unknown shell mode: %s", mode)
	}
}

// SystemExecutor runs commands through an external shell with -c
type SystemExecutor struct {
	Shell  string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewSystemExecutor creates an executor for shellPath, or the user's shell
// when empty
func NewSystemExecutor(shellPath string) *SystemExecutor {
	if shellPath == "" {
		shellPath = ShellPath()
	}
	return &SystemExecutor{
		Shell:  shellPath,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (e *SystemExecutor) Run(ctx context.Context, command string) (int, error) {
	cmd := exec.CommandContext(ctx, e.Shell, "-c", command)
	cmd.Dir = e.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("command interrupted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return -1, fmt.Errorf("failed to start %s: %w", e.Shell, err)
}

// InterpExecutor runs commands with the built-in POSIX shell interpreter,
// for hosts without a usable system shell
type InterpExecutor struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewInterpExecutor creates an interpreter executor on the standard streams
func NewInterpExecutor() *InterpExecutor {
	return &InterpExecutor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (e *InterpExecutor) Run(ctx context.Context, command string) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return -1, fmt.Errorf("failed to parse command: %w", err)
	}

	opts := []interp.RunnerOption{
		interp.StdIO(e.Stdin, e.Stdout, e.Stderr),
	}
	if e.Dir != "" {
		opts = append(opts, interp.Dir(e.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return -1, fmt.Errorf("failed to create interpreter: %w", err)
	}

	err = runner.Run(ctx, prog)
	if err == nil {
		return 0, nil
	}

	if status, ok := interp.IsExitStatus(err); ok {
		return int(status), nil
	}

	return -1, err
}
