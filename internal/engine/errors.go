package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRequest is returned by Start when the request is blank
	ErrEmptyRequest = errors.New("request is empty")

	// ErrEmptyGeneration means the sanitized completion had no command in it
	ErrEmptyGeneration = errors.New("could not generate a command")

	// ErrDangerDeclined means the user refused to run a dangerous command
	ErrDangerDeclined = errors.New("dangerous command declined")

	// ErrInterrupted means the cycle was interrupted before execution
	ErrInterrupted = errors.New("cycle interrupted")

	// ErrCycleActive is returned by Start while another cycle is unfinished
	ErrCycleActive = errors.New("a cycle is already in progress")

	// ErrNotAwaiting is returned by Confirm or Interrupt outside of
	// AwaitingConfirmation
	ErrNotAwaiting = errors.New("no command is awaiting confirmation")
)

// ExitError reports a command that ran and exited non-zero
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// ExecError reports a command that could not be run at all
type ExecError struct {
	Command string
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("failed to execute %q: %v", e.Command, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
