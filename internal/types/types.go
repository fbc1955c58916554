// Package types provides shared type definitions for shazam
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Generation parameter defaults
const (
	DefaultMaxTokens   = 150
	DefaultTemperature = 0.1
	DefaultTopP        = 0.9
)

// DefaultStopSequences returns the stop sequences used when none are configured
func DefaultStopSequences() []string {
	return []string{"\n\n", "User:", "Assistant:"}
}

// ErrEmptyPrompt is returned when a request has no text after trimming
var ErrEmptyPrompt = errors.New("prompt is empty")

// GenerationParams holds the sampling parameters passed through to the provider
type GenerationParams struct {
	MaxTokens     int      `json:"max_tokens" yaml:"max_tokens"`
	Temperature   float64  `json:"temperature" yaml:"temperature"`
	TopP          float64  `json:"top_p" yaml:"top_p"`
	StopSequences []string `json:"stop_sequences" yaml:"stop_sequences"`
}

// DefaultGenerationParams returns the default sampling parameters
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		MaxTokens:     DefaultMaxTokens,
		Temperature:   DefaultTemperature,
		TopP:          DefaultTopP,
		StopSequences: DefaultStopSequences(),
	}
}

// Validate checks the parameter ranges
func (p GenerationParams) Validate() error {
	if p.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be greater than 0, got %d", p.MaxTokens)
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %g", p.Temperature)
	}
	if p.TopP <= 0 || p.TopP > 1 {
		return fmt.Errorf("top_p must be within (0, 1], got %g", p.TopP)
	}
	return nil
}

// Clone returns a copy that shares no memory with p
func (p GenerationParams) Clone() GenerationParams {
	c := p
	if p.StopSequences != nil {
		c.StopSequences = make([]string, len(p.StopSequences))
		copy(c.StopSequences, p.StopSequences)
	}
	return c
}

// GenerationRequest is a validated user request plus its sampling parameters.
// Build it with NewGenerationRequest and treat it as read-only afterwards.
type GenerationRequest struct {
	UserPrompt string
	GenerationParams
}

// NewGenerationRequest trims the prompt and validates the parameters
func NewGenerationRequest(prompt string, params GenerationParams) (GenerationRequest, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return GenerationRequest{}, ErrEmptyPrompt
	}
	if err := params.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return GenerationRequest{
		UserPrompt:       prompt,
		GenerationParams: params.Clone(),
	}, nil
}

// DangerVerdict is the result of classifying a candidate command
type DangerVerdict struct {
	Dangerous bool   `json:"dangerous"`
	Reason    string `json:"reason,omitempty"`
}

// CycleState is a state of the generate-confirm-execute cycle
type CycleState int

const (
	StateIdle CycleState = iota
	StateGenerating
	StateSanitizing
	StateClassifying
	StateAwaitingConfirmation
	StateExecuting
	StateSucceeded
	StateFailed
	StateCancelled
)

func (s CycleState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateGenerating:
		return "GENERATING"
	case StateSanitizing:
		return "SANITIZING"
	case StateClassifying:
		return "CLASSIFYING"
	case StateAwaitingConfirmation:
		return "AWAITING_CONFIRMATION"
	case StateExecuting:
		return "EXECUTING"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateFailed:
		return "FAILED"
	case StateCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the cycle has ended
func (s CycleState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// ParseCycleState converts a stored state name back to a CycleState
func ParseCycleState(s string) CycleState {
	for st := StateIdle; st <= StateCancelled; st++ {
		if st.String() == s {
			return st
		}
	}
	return StateIdle
}

// SystemContext contains information about the current system state
type SystemContext struct {
	OS         string `json:"os"`
	Shell      string `json:"shell"`
	CurrentDir string `json:"current_dir"`
	HomeDir    string `json:"home_dir"`
	Username   string `json:"username"`
}

// HistoryEntry records one finished cycle
type HistoryEntry struct {
	ID           string     `json:"id"`
	Timestamp    time.Time  `json:"timestamp"`
	Prompt       string     `json:"prompt"`
	Command      string     `json:"command"`
	Dangerous    bool       `json:"dangerous"`
	DangerReason string     `json:"danger_reason,omitempty"`
	State        CycleState `json:"state"`
	Executed     bool       `json:"executed"`
	ExitCode     int        `json:"exit_code"`
	DurationMs   int64      `json:"duration_ms"`
	Message      string     `json:"message,omitempty"`
	WorkingDir   string     `json:"working_dir"`
	Provider     string     `json:"provider"`
	Model        string     `json:"model"`
}
