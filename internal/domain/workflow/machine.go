package workflow

import (
	"context"
	"fmt"
)

// GuardFunc decides whether a configured transition may fire.
type GuardFunc func(ctx context.Context) bool

// Machine tracks the current state and validates transitions against its
// configuration. It is not safe for concurrent use; callers serialize
// access per application.
type Machine struct {
	current     State
	transitions map[State]map[Trigger][]transition
}

type transition struct {
	to    State
	guard GuardFunc
}

// Builder assembles a transition table before building a Machine.
type Builder struct {
	transitions map[State]map[Trigger][]transition
}

// NewBuilder creates an empty machine builder.
func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger][]transition)}
}

// Permit allows trigger to move from one state to another unconditionally.
func (b *Builder) Permit(from State, trigger Trigger, to State) *Builder {
	return b.PermitIf(from, trigger, to, nil)
}

// PermitIf allows trigger to move from one state to another when guard
// passes. Multiple transitions for the same trigger are tried in
// registration order; the first whose guard passes wins.
func (b *Builder) PermitIf(from State, trigger Trigger, to State, guard GuardFunc) *Builder {
	if !from.IsValid() {
		panic(fmt.Sprintf("workflow: invalid source state %q", from))
	}
	if !to.IsValid() {
		panic(fmt.Sprintf("workflow: invalid target state %q", to))
	}
	byTrigger, ok := b.transitions[from]
	if !ok {
		byTrigger = make(map[Trigger][]transition)
		b.transitions[from] = byTrigger
	}
	byTrigger[trigger] = append(byTrigger[trigger], transition{to: to, guard: guard})
	return b
}

// Build creates a machine positioned at initial. The builder's transition
// table is copied so later builder mutations cannot affect built machines.
func (b *Builder) Build(initial State) *Machine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("workflow: invalid initial state %q", initial))
	}
	table := make(map[State]map[Trigger][]transition, len(b.transitions))
	for from, byTrigger := range b.transitions {
		copied := make(map[Trigger][]transition, len(byTrigger))
		for trig, ts := range byTrigger {
			copied[trig] = append([]transition(nil), ts...)
		}
		table[from] = copied
	}
	return &Machine{current: initial, transitions: table}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.current
}

// CanFire reports whether at least one transition is configured for trigger
// in the current state. Guards are not evaluated here.
func (m *Machine) CanFire(trigger Trigger) bool {
	return len(m.transitions[m.current][trigger]) > 0
}

// Fire executes trigger, moving to the first configured target whose guard
// passes. It returns ErrInvalidTransition when nothing is configured and
// ErrGuardFailed when every guard rejected.
func (m *Machine) Fire(ctx context.Context, trigger Trigger) error {
	candidates := m.transitions[m.current][trigger]
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, m.current)
	}
	for _, t := range candidates {
		if t.guard == nil || t.guard(ctx) {
			m.current = t.to
			return nil
		}
	}
	return fmt.Errorf("%w: %s from %s", ErrGuardFailed, trigger, m.current)
}

// PermittedTriggers returns the triggers with at least one configured
// transition from the current state.
func (m *Machine) PermittedTriggers() []Trigger {
	byTrigger := m.transitions[m.current]
	triggers := make([]Trigger, 0, len(byTrigger))
	for trig := range byTrigger {
		triggers = append(triggers, trig)
	}
	return triggers
}
