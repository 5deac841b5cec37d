package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// State is a named machine state. Implementations carry whatever data defines
// the state; two states with the same Name occupy the same slot in the
// transition table regardless of payload.
type State interface {
	Name() string
}

// Event triggers a transition.
type Event string

// Guard inspects the concrete next state before the transition commits.
// Returning false rejects the transition.
type Guard func(ctx context.Context, from, next State, event Event) bool

// Action runs after guards pass and before the next state becomes observable.
// An error aborts the transition and leaves the machine in its prior state.
type Action func(ctx context.Context, from, next State, event Event) error

// Transition declares one legal edge in the machine.
type Transition struct {
	From   string
	Event  Event
	To     string
	Guard  Guard
	Action Action
}

// Machine is a thread-safe finite-state machine over a declared transition
// table. Lookup is O(1) on [from state name][event].
type Machine struct {
	mu      sync.RWMutex
	initial State
	current State
	table   map[string]map[Event]Transition
}

// New creates a machine in the given initial state with the declared
// transitions. Duplicate (from, event) declarations are an error.
func New(initial State, transitions []Transition) (*Machine, error) {
	if initial == nil {
		return nil, ErrNilState
	}

	table := make(map[string]map[Event]Transition, len(transitions))
	for _, t := range transitions {
		if _, ok := table[t.From]; !ok {
			table[t.From] = make(map[Event]Transition)
		}
		if _, dup := table[t.From][t.Event]; dup {
			return nil, fmt.Errorf("statemachine: duplicate transition from %q on %q", t.From, t.Event)
		}
		table[t.From][t.Event] = t
	}

	return &Machine{initial: initial, current: initial, table: table}, nil
}

// MustNew is New that panics on invalid configuration. Transition tables are
// static program structure, so a bad table should fail at startup.
func MustNew(initial State, transitions []Transition) *Machine {
	m, err := New(initial, transitions)
	if err != nil {
		panic(err)
	}
	return m
}

// Current returns the active state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fire attempts the transition declared for (current state, event), moving
// the machine into next. The concrete next state must be named as the
// declared target. Guard and action run under the machine lock, so no
// observer sees the new state before the action has completed.
func (m *Machine) Fire(ctx context.Context, event Event, next State) error {
	if next == nil {
		return ErrNilState
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.current
	t, ok := m.lookup(from.Name(), event)
	if !ok {
		return &UndefinedTransitionError{StateName: from.Name(), Event: event}
	}
	if next.Name() != t.To {
		return fmt.Errorf("%w: got %q, transition %q on %q targets %q",
			ErrStateMismatch, next.Name(), from.Name(), event, t.To)
	}

	if t.Guard != nil && !t.Guard(ctx, from, next, event) {
		return &RejectedTransitionError{StateName: from.Name(), Event: event}
	}

	if t.Action != nil {
		if err := t.Action(ctx, from, next, event); err != nil {
			return fmt.Errorf("statemachine: transition action: %w", err)
		}
	}

	m.current = next
	return nil
}

// CanFire reports whether a transition is declared for the current state and
// event. Guards are not consulted; they need the concrete next state.
func (m *Machine) CanFire(event Event) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.lookup(m.current.Name(), event)
	return ok
}

// Reset returns the machine to its initial state unconditionally.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

func (m *Machine) lookup(stateName string, event Event) (Transition, bool) {
	events, ok := m.table[stateName]
	if !ok {
		return Transition{}, false
	}
	t, ok := events[event]
	return t, ok
}
