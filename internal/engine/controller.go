// Package engine drives one natural-language request through generation,
// sanitizing, danger classification, confirmation and execution.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soroush/shazam/internal/ai"
	"github.com/soroush/shazam/internal/config"
	"github.com/soroush/shazam/internal/safety"
	"github.com/soroush/shazam/internal/sanitize"
	"github.com/soroush/shazam/internal/shell"
	"github.com/soroush/shazam/internal/types"
)

// ConfirmKind tells the caller which answer the controller is waiting for
type ConfirmKind int

const (
	// ConfirmNone means nothing is awaited
	ConfirmNone ConfirmKind = iota
	// ConfirmDanger is a yes/no question about a dangerous command
	ConfirmDanger
	// ConfirmRun is a plain acknowledgment before running the command
	ConfirmRun
)

func (k ConfirmKind) String() string {
	switch k {
	case ConfirmDanger:
		return "danger"
	case ConfirmRun:
		return "run"
	default:
		return "none"
	}
}

// Outcome describes where a cycle stands after a controller call
type Outcome struct {
	State    types.CycleState
	Prompt   string
	Command  string
	Verdict  types.DangerVerdict
	Awaiting ConfirmKind
	Executed bool
	ExitCode int
	Duration time.Duration
	Message  string
	Err      error
}

// Done reports whether the cycle has finished
func (o Outcome) Done() bool {
	return o.State.Terminal()
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the diagnostic logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransitionHook registers fn to be called after every state change
func WithTransitionHook(fn func(from, to types.CycleState)) Option {
	return func(c *Controller) {
		c.onTransition = fn
	}
}

// Controller is the generate-confirm-execute state machine. It is not safe
// for concurrent use; one caller drives one cycle at a time.
type Controller struct {
	provider     ai.Provider
	executor     shell.Executor
	snap         config.Snapshot
	classifier   *safety.Classifier
	logger       *zap.Logger
	onTransition func(from, to types.CycleState)

	state    types.CycleState
	prompt   string
	command  string
	verdict  types.DangerVerdict
	awaiting ConfirmKind
	autoRun  bool
}

// New creates a controller. The snapshot is fixed for the controller's
// lifetime.
func New(provider ai.Provider, executor shell.Executor, snap config.Snapshot, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		executor: executor,
		snap:     snap,
		classifier: safety.NewClassifier(snap.Safety.DangerousCommands,
			safety.WithSafePipes(snap.Safety.SafePipeTargets),
			safety.WithStrictChaining(snap.Safety.StrictChaining)),
		logger: zap.NewNop(),
		state:  types.StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current cycle state
func (c *Controller) State() types.CycleState {
	return c.state
}

// Command returns the candidate command of the current cycle, if any
func (c *Controller) Command() string {
	return c.command
}

// Start runs a new cycle up to its first suspension point: a confirmation
// request or a terminal state. A finished cycle is discarded.
func (c *Controller) Start(ctx context.Context, request string, autoRun bool) (Outcome, error) {
	if !c.state.Terminal() && c.state != types.StateIdle {
		return c.outcome("", nil), ErrCycleActive
	}

	request = strings.TrimSpace(request)
	if request == "" {
		return Outcome{State: c.state}, ErrEmptyRequest
	}

	c.reset()
	c.prompt = request
	c.autoRun = autoRun
	c.logger.Debug("cycle started", zap.String("prompt", request), zap.Bool("auto_run", autoRun))

	c.transition(types.StateGenerating)
	raw, err := c.generate(ctx)
	if err != nil {
		if ctx.Err() != nil {
			c.transition(types.StateCancelled)
			return c.outcome("Command generation cancelled", ErrInterrupted), nil
		}
		c.logger.Warn("generation failed", zap.Error(err))
		c.transition(types.StateFailed)
		return c.outcome(fmt.Sprintf("Error generating command: %v", err), err), nil
	}

	c.transition(types.StateSanitizing)
	c.command = sanitize.Clean(raw)
	c.logger.Debug("completion sanitized", zap.String("raw", raw), zap.String("command", c.command))
	if c.command == "" {
		c.transition(types.StateFailed)
		return c.outcome("Could not generate command for: "+request, ErrEmptyGeneration), nil
	}

	c.transition(types.StateClassifying)
	c.verdict = c.classifier.Classify(c.command)
	if c.verdict.Dangerous {
		c.logger.Info("dangerous command detected",
			zap.String("command", c.command),
			zap.String("reason", c.verdict.Reason))
	}

	switch {
	case c.verdict.Dangerous:
		return c.await(ConfirmDanger), nil
	case c.skipRunAck():
		return c.execute(ctx), nil
	default:
		return c.await(ConfirmRun), nil
	}
}

// Confirm answers the pending confirmation. Declining the danger question
// cancels the cycle; any answer to the run acknowledgment runs the command.
func (c *Controller) Confirm(ctx context.Context, accept bool) (Outcome, error) {
	if c.state != types.StateAwaitingConfirmation {
		return c.outcome("", nil), ErrNotAwaiting
	}

	if c.awaiting == ConfirmDanger {
		if !accept {
			c.awaiting = ConfirmNone
			c.transition(types.StateCancelled)
			return c.outcome("Command cancelled for safety.", ErrDangerDeclined), nil
		}
		c.logger.Info("dangerous command accepted", zap.String("command", c.command))
		if !c.skipRunAck() {
			c.awaiting = ConfirmRun
			return c.outcome("", nil), nil
		}
	}

	return c.execute(ctx), nil
}

// Interrupt cancels a cycle that is awaiting confirmation. Nothing is
// executed.
func (c *Controller) Interrupt() (Outcome, error) {
	if c.state != types.StateAwaitingConfirmation {
		return c.outcome("", nil), ErrNotAwaiting
	}
	c.awaiting = ConfirmNone
	c.transition(types.StateCancelled)
	return c.outcome("Command cancelled.", ErrInterrupted), nil
}

// skipRunAck reports whether the plain acknowledgment can be skipped
func (c *Controller) skipRunAck() bool {
	return c.autoRun || !c.snap.Safety.RequireConfirmation
}

func (c *Controller) generate(ctx context.Context) (string, error) {
	req, err := types.NewGenerationRequest(c.prompt, c.snap.GenerationParams())
	if err != nil {
		return "", fmt.Errorf("invalid generation request: %w", err)
	}

	callCtx := ctx
	if timeout := c.snap.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	raw, err := c.provider.Complete(callCtx, ai.BuildPrompt(req), req.GenerationParams)
	if err != nil {
		var pe *ai.ProviderError
		if !errors.As(err, &pe) {
			err = &ai.ProviderError{Provider: c.provider.Name(), Op: "completion", Err: err}
		}
		return "", err
	}
	return raw, nil
}

func (c *Controller) await(kind ConfirmKind) Outcome {
	c.awaiting = kind
	c.transition(types.StateAwaitingConfirmation)
	return c.outcome("", nil)
}

func (c *Controller) execute(ctx context.Context) Outcome {
	c.awaiting = ConfirmNone
	c.transition(types.StateExecuting)

	start := time.Now()
	code, err := c.executor.Run(ctx, c.command)
	elapsed := time.Since(start)

	var out Outcome
	switch {
	case err != nil:
		c.logger.Warn("command could not be executed", zap.String("command", c.command), zap.Error(err))
		c.transition(types.StateFailed)
		out = c.outcome(fmt.Sprintf("Error executing command: %v", err), &ExecError{Command: c.command, Err: err})
		out.ExitCode = -1
	case code != 0:
		c.transition(types.StateFailed)
		out = c.outcome(fmt.Sprintf("Command exited with code: %d", code), &ExitError{Code: code})
		out.ExitCode = code
	default:
		c.transition(types.StateSucceeded)
		out = c.outcome("Command executed successfully!", nil)
	}

	c.logger.Debug("command finished",
		zap.Int("exit_code", out.ExitCode),
		zap.Duration("duration", elapsed))
	out.Executed = true
	out.Duration = elapsed
	return out
}

func (c *Controller) outcome(message string, err error) Outcome {
	return Outcome{
		State:    c.state,
		Prompt:   c.prompt,
		Command:  c.command,
		Verdict:  c.verdict,
		Awaiting: c.awaiting,
		Message:  message,
		Err:      err,
	}
}

func (c *Controller) reset() {
	c.state = types.StateIdle
	c.prompt = ""
	c.command = ""
	c.verdict = types.DangerVerdict{}
	c.awaiting = ConfirmNone
	c.autoRun = false
}
