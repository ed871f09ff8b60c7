package domain

import (
	"fmt"

	"github.com/SscSPs/salesops_app/internal/apperrors"
)

// StateMachine is a declared transition table for a status enum.
// A state with no outgoing edges is terminal.
type StateMachine[S ~string] struct {
	name        string
	transitions map[S][]S
}

// NewStateMachine builds a machine from an adjacency table. Every state must
// appear as a key, terminal states with an empty slice.
func NewStateMachine[S ~string](name string, transitions map[S][]S) StateMachine[S] {
	for from, targets := range transitions {
		for _, to := range targets {
			if _, ok := transitions[to]; !ok {
				panic(fmt.Sprintf("%s state machine: %q -> %q targets an undeclared state", name, from, to))
			}
		}
	}
	return StateMachine[S]{name: name, transitions: transitions}
}

// Known reports whether s is a declared state.
func (m StateMachine[S]) Known(s S) bool {
	_, ok := m.transitions[s]
	return ok
}

// IsTerminal reports whether s has no outgoing transitions.
func (m StateMachine[S]) IsTerminal(s S) bool {
	return m.Known(s) && len(m.transitions[s]) == 0
}

// Can reports whether from -> to is a declared transition.
func (m StateMachine[S]) Can(from, to S) bool {
	for _, target := range m.transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Validate returns nil for a declared transition, a validation error for an
// unknown target and ErrInvalidTransition otherwise.
func (m StateMachine[S]) Validate(from, to S) error {
	if !m.Known(to) {
		return fmt.Errorf("%w: unknown %s %q", apperrors.ErrValidation, m.name, to)
	}
	if m.IsTerminal(from) {
		return fmt.Errorf("%w: %s %q is terminal", apperrors.ErrInvalidTransition, m.name, from)
	}
	if !m.Can(from, to) {
		return fmt.Errorf("%w: %s cannot move from %q to %q", apperrors.ErrInvalidTransition, m.name, from, to)
	}
	return nil
}

// States returns the declared states in the order given by order, which lets
// callers iterate a fixed-cardinality set.
func (m StateMachine[S]) States(order []S) []S {
	out := make([]S, 0, len(order))
	for _, s := range order {
		if m.Known(s) {
			out = append(out, s)
		}
	}
	return out
}
