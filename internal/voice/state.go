// Package voice bridges a browser microphone to a realtime speech model:
// it owns the session state machine, the transcript, playback pacing and the
// hand-off of the captured lead to the relay.
package voice

import (
	"errors"
	"fmt"
)

// State is the lifecycle state of a voice session.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateError      State = "error"
	StateEnded      State = "ended"
)

// ErrInvalidTransition is returned for a transition the lifecycle forbids.
var ErrInvalidTransition = errors.New("invalid voice state transition")

var transitions = map[State][]State{
	StateIdle:       {StateConnecting},
	StateConnecting: {StateConnected, StateError, StateEnded},
	StateConnected:  {StateError, StateEnded},
	StateError:      {StateConnecting, StateIdle},
	StateEnded:      {StateIdle},
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Machine holds the current state. It is not safe for concurrent use; the
// session guards it with its own lock.
type Machine struct {
	state State
}

// NewMachine starts in idle.
func NewMachine() *Machine { return &Machine{state: StateIdle} }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Transition moves to next or returns ErrInvalidTransition.
func (m *Machine) Transition(next State) error {
	if !CanTransition(m.state, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, next)
	}
	m.state = next
	return nil
}
