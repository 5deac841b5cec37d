package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNilState      = errors.New("statemachine: state cannot be nil")
	ErrStateMismatch = errors.New("statemachine: next state does not match declared transition target")
)

// UndefinedTransitionError indicates no transition is declared for the
// current state and event. For auth flows this is the "operation illegal in
// this state" class of failure.
type UndefinedTransitionError struct {
	StateName string
	Event     Event
}

func (e *UndefinedTransitionError) Error() string {
	return fmt.Sprintf("statemachine: no transition from state %q for event %q", e.StateName, e.Event)
}

// RejectedTransitionError indicates a declared transition whose guard refused
// the concrete next state.
type RejectedTransitionError struct {
	StateName string
	Event     Event
}

func (e *RejectedTransitionError) Error() string {
	return fmt.Sprintf("statemachine: transition from state %q for event %q rejected by guard", e.StateName, e.Event)
}

// IsUndefinedTransition reports whether err is an UndefinedTransitionError.
func IsUndefinedTransition(err error) bool {
	var e *UndefinedTransitionError
	return errors.As(err, &e)
}

// IsRejectedTransition reports whether err is a RejectedTransitionError.
func IsRejectedTransition(err error) bool {
	var e *RejectedTransitionError
	return errors.As(err, &e)
}
