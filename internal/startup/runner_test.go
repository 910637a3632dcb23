package startup

import (
	"context"
	"errors"
	"testing"

	"orgbridge/internal/state"
)

func TestRunnerAdvancesPhasesInOrder(t *testing.T) {
	st := state.New()
	var order []state.Phase
	steps := []Step{
		{Phase: state.ConfigLoaded, Run: func(ctx context.Context) error {
			order = append(order, state.ConfigLoaded)
			return nil
		}},
		{Phase: state.WorkspaceResolved, Run: func(ctx context.Context) error {
			order = append(order, state.WorkspaceResolved)
			return nil
		}},
	}
	if err := NewRunner(st, nil, steps).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != state.ConfigLoaded || order[1] != state.WorkspaceResolved {
		t.Fatalf("unexpected order: %#v", order)
	}
	if st.Phase() != state.WorkspaceResolved {
		t.Fatalf("unexpected final phase: %s", st.Phase())
	}
}

func TestRunnerStopsAtFirstFailure(t *testing.T) {
	st := state.New()
	cause := errors.New("no secret provided")
	ran := false
	steps := []Step{
		{Phase: state.ConfigLoaded},
		{Phase: state.HandshakeValidated, Run: func(ctx context.Context) error { return cause }},
		{Phase: state.HandlersRegistered, Run: func(ctx context.Context) error {
			ran = true
			return nil
		}},
	}
	err := NewRunner(st, nil, steps).Run(context.Background())
	var phaseErr *PhaseError
	if !errors.As(err, &phaseErr) {
		t.Fatalf("expected PhaseError, got %v", err)
	}
	if phaseErr.Phase != state.HandshakeValidated {
		t.Fatalf("unexpected failing phase: %s", phaseErr.Phase)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not propagated unchanged")
	}
	if ran {
		t.Fatalf("later phase must not run after a failure")
	}
	if st.Phase() != state.ConfigLoaded {
		t.Fatalf("state advanced past completed phases: %s", st.Phase())
	}
}

func TestRunnerStepsWithoutActionStillAdvance(t *testing.T) {
	st := state.New()
	if err := NewRunner(st, nil, []Step{{Phase: state.ConfigLoaded}}).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Phase() != state.ConfigLoaded {
		t.Fatalf("unexpected phase: %s", st.Phase())
	}
}
