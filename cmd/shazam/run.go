// Generate-confirm-execute flow for shazam CLI
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/soroush/shazam/internal/engine"
	"github.com/soroush/shazam/internal/shell"
	"github.com/soroush/shazam/internal/types"
	"github.com/soroush/shazam/internal/ui"
)

const (
	dangerQuestion = "Do you want to proceed anyway?"
	ackMessage     = "Press Enter to execute, Ctrl+C to cancel"
)

// processPrompt runs one cycle for prompt against the current configuration
func (a *app) processPrompt(prompt string) error {
	snap, err := a.store.Snapshot()
	if err != nil {
		return err
	}

	provider, err := newProvider(snap)
	if err != nil {
		return err
	}

	executor, err := shell.NewExecutor(snap.Shell.Mode, snap.Shell.Path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := newPresenter(os.Stderr, autoRun)
	ctrl := engine.New(provider, executor, snap,
		engine.WithLogger(a.logger.With(zap.String("provider", provider.Name()))),
		engine.WithTransitionHook(p.onTransition))
	p.ctrl = ctrl

	out := runCycle(ctx, ctrl, ui.NewLinePrompter(), prompt, autoRun)
	p.finish()

	ui.PrintOutcome(out)
	a.record(out, provider)
	return nil
}

// runCycle drives the controller until the cycle ends, answering its
// confirmation requests through prompter
func runCycle(ctx context.Context, ctrl *engine.Controller, prompter ui.Prompter, prompt string, autoRun bool) engine.Outcome {
	out, err := ctrl.Start(ctx, prompt, autoRun)
	if err != nil {
		return engine.Outcome{State: types.StateFailed, Prompt: prompt, Message: err.Error(), Err: err}
	}

	for out.State == types.StateAwaitingConfirmation {
		var answerErr error
		accept := true
		switch out.Awaiting {
		case engine.ConfirmDanger:
			ui.PrintDangerWarning(out.Verdict, out.Command)
			accept, answerErr = prompter.Confirm(dangerQuestion)
		default:
			ui.PrintCommand(out.Command)
			fmt.Println()
			answerErr = prompter.Acknowledge(ackMessage)
		}

		// Ctrl+C while the prompt was not in raw mode only cancels ctx
		if answerErr == nil && ctx.Err() != nil {
			answerErr = ui.ErrAborted
		}

		if answerErr != nil {
			if !errors.Is(answerErr, ui.ErrAborted) {
				ui.PrintError(fmt.Sprintf("input error: %v", answerErr))
			}
			out, err = ctrl.Interrupt()
		} else {
			out, err = ctrl.Confirm(ctx, accept)
		}
		if err != nil {
			return engine.Outcome{State: ctrl.State(), Prompt: prompt, Message: err.Error(), Err: err}
		}
	}

	return out
}

// presenter renders progress from controller transitions
type presenter struct {
	w       io.Writer
	ctrl    *engine.Controller
	autoRun bool
	spin    *spinnerTask
}

func newPresenter(w io.Writer, autoRun bool) *presenter {
	return &presenter{w: w, autoRun: autoRun}
}

func (p *presenter) onTransition(from, to types.CycleState) {
	switch {
	case to == types.StateGenerating:
		p.spin = startSpinner(p.w, "Thinking...")
	case from == types.StateGenerating:
		p.stopSpinner()
	case from == types.StateClassifying && to == types.StateExecuting:
		// Executing without a question: show what runs
		ui.PrintCommand(p.ctrl.Command())
		if p.autoRun {
			fmt.Println(ui.Yellow("Executing automatically..."))
		}
		fmt.Println()
	}
}

func (p *presenter) stopSpinner() {
	if p.spin != nil {
		p.spin.stop()
		p.spin = nil
	}
}

func (p *presenter) finish() {
	p.stopSpinner()
}

// spinnerTask animates a spinner until stopped
type spinnerTask struct {
	done    chan struct{}
	stopped chan struct{}
}

func startSpinner(w io.Writer, message string) *spinnerTask {
	s := &spinnerTask{done: make(chan struct{}), stopped: make(chan struct{})}
	spinner := ui.NewSpinner(message)

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(w, spinner.Frame())
		for {
			select {
			case <-s.done:
				fmt.Fprint(w, spinner.Clear())
				return
			case <-ticker.C:
				fmt.Fprint(w, spinner.Frame())
			}
		}
	}()
	return s
}

func (s *spinnerTask) stop() {
	close(s.done)
	<-s.stopped
}
