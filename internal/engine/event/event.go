package event

import (
	"github.com/cockroachdb/errors"
)

// Kind is the stable identifier of an event type.
type Kind string

// Built-in kinds.
const (
	KindInsert      Kind = "InsertItemEdit"
	KindRemove      Kind = "RemoveItemEdit"
	KindModifyRange Kind = "ModifyItemSourceRangeEdit"
	KindStack       Kind = "EventStack"
)

// State is the execution state of an event.
type State int

const (
	// StateIdle means the event has not run, or has been reverted.
	StateIdle State = iota
	// StateRan means the event has run and can be reverted.
	StateRan
)

// String returns the state name.
func (s State) String() string {
	if s == StateRan {
		return "Ran"
	}
	return "Idle"
}

// ParseState returns the State for a name produced by State.String.
func ParseState(s string) (State, error) {
	switch s {
	case "", "Idle":
		return StateIdle, nil
	case "Ran":
		return StateRan, nil
	default:
		return StateIdle, errors.Wrapf(ErrMalformedRecord, "state %q", s)
	}
}

// Event is one reversible mutation.
type Event interface {
	// Kind returns the stable kind identifier.
	Kind() Kind

	// Name returns the event's display name.
	Name() string

	// State returns the current execution state.
	State() State

	// Run applies the event. The event must be Idle.
	Run() error

	// Revert undoes the event. The event must have run.
	Revert() error

	// Release finalises resources owned by the event once it is discarded.
	Release()

	sealed()
}

// base carries the state shared by every event type.
type base struct {
	name  string
	state State
}

// Name returns the event's display name.
func (b *base) Name() string { return b.name }

// SetName sets the event's display name.
func (b *base) SetName(name string) { b.name = name }

// State returns the current execution state.
func (b *base) State() State { return b.state }

func (b *base) sealed() {}

// expect returns ErrInvalidExecutionOrder unless the event is in state want.
func (b *base) expect(want State, op string, kind Kind) error {
	if b.state != want {
		return errors.Wrapf(ErrInvalidExecutionOrder, "%s %s while %s", op, kind, b.state)
	}
	return nil
}
