package voice

import (
	"errors"
	"testing"
)

func TestMachineTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to State
		ok       bool
	}{
		{StateIdle, StateConnecting, true},
		{StateIdle, StateConnected, false},
		{StateConnecting, StateConnected, true},
		{StateConnecting, StateError, true},
		{StateConnecting, StateEnded, true},
		{StateConnected, StateError, true},
		{StateConnected, StateEnded, true},
		{StateConnected, StateIdle, false},
		{StateError, StateConnecting, true},
		{StateError, StateIdle, true},
		{StateEnded, StateIdle, true},
		{StateEnded, StateConnected, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestMachineRejectsInvalidTransition(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	if err := m.Transition(StateEnded); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Transition(idle -> ended) error = %v, want ErrInvalidTransition", err)
	}
	if m.State() != StateIdle {
		t.Errorf("State() = %s after rejected transition, want idle", m.State())
	}
	for _, next := range []State{StateConnecting, StateConnected, StateEnded, StateIdle} {
		if err := m.Transition(next); err != nil {
			t.Fatalf("Transition(%s) error = %v", next, err)
		}
	}
}
