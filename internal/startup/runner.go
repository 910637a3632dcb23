// Package startup drives phased initialization. Each phase's action must
// finish before the next begins; the first failure is terminal for the
// process start and is reported with the exact phase that failed.
package startup

import (
	"context"
	"fmt"
	"log/slog"

	"orgbridge/internal/state"
)

// Step pairs a phase with the action that must succeed to reach it.
type Step struct {
	Phase state.Phase
	Run   func(ctx context.Context) error
}

// PhaseError is the terminal failure state: the phase that failed plus the
// originating cause, propagated unchanged to the process entry point.
type PhaseError struct {
	Phase state.Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("startup failed at phase %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

type Runner struct {
	state  *state.State
	logger *slog.Logger
	steps  []Step
}

func NewRunner(st *state.State, logger *slog.Logger, steps []Step) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{state: st, logger: logger, steps: steps}
}

// Run executes the steps strictly in order. There is no rollback of
// completed phases and no retry: restart belongs to the process supervisor,
// because a silent partial start is worse than a clean crash here.
func (r *Runner) Run(ctx context.Context) error {
	for _, step := range r.steps {
		if step.Run != nil {
			if err := step.Run(ctx); err != nil {
				return &PhaseError{Phase: step.Phase, Err: err}
			}
		}
		if err := r.state.MarkPhase(step.Phase); err != nil {
			return &PhaseError{Phase: step.Phase, Err: err}
		}
		r.logger.Debug("startup phase complete", "phase", step.Phase.String())
	}
	return nil
}
