package event

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Stack is an ordered group of events applied all or nothing.
// A Stack is itself an Event and may be nested.
type Stack struct {
	base
	events []Event
	logger *zap.SugaredLogger
}

// NewStack creates a stack holding events.
func NewStack(name string, events ...Event) *Stack {
	s := &Stack{
		base:   base{name: name},
		logger: zap.NewNop().Sugar(),
	}
	s.Add(events...)
	return s
}

// NewAppliedStack wraps events that have already run into a stack in the
// Ran state, so the group can be reverted as one unit.
func NewAppliedStack(name string, events ...Event) (*Stack, error) {
	s := NewStack(name, events...)
	for i, ev := range s.events {
		if ev.State() != StateRan {
			return nil, errors.Wrapf(ErrInvalidExecutionOrder, "applied stack %q: step %d is %s", name, i, ev.State())
		}
	}
	s.state = StateRan
	return s, nil
}

// SetLogger sets the logger used to report rollbacks.
func (s *Stack) SetLogger(logger *zap.SugaredLogger) {
	if logger != nil {
		s.logger = logger
	}
}

// Kind returns KindStack.
func (s *Stack) Kind() Kind { return KindStack }

// Add appends events. Nil events are ignored.
// Events must be added before the stack runs.
func (s *Stack) Add(events ...Event) {
	for _, ev := range events {
		if ev != nil {
			s.events = append(s.events, ev)
		}
	}
}

// Events returns a copy of the child events.
func (s *Stack) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of child events.
func (s *Stack) Len() int { return len(s.events) }

// IsEmpty returns true if the stack has no events.
func (s *Stack) IsEmpty() bool { return len(s.events) == 0 }

// Run applies the children in order. If one fails, the children already
// applied are reverted in reverse order and the failure is returned.
// Rollback failures are attached to the returned error as secondary errors.
func (s *Stack) Run() error {
	if err := s.expect(StateIdle, "run", KindStack); err != nil {
		return err
	}

	for i, ev := range s.events {
		if err := ev.Run(); err != nil {
			err = errors.Wrapf(err, "stack %q step %d (%s)", s.name, i, ev.Kind())
			for j := i - 1; j >= 0; j-- {
				if rerr := s.events[j].Revert(); rerr != nil {
					s.logger.Warnw("rollback step failed", "stack", s.name, "step", j, "error", rerr)
					err = errors.WithSecondaryError(err, rerr)
				}
			}
			s.logger.Warnw("stack rolled back", "stack", s.name, "failed_step", i, "error", err)
			return err
		}
	}

	s.state = StateRan
	return nil
}

// Revert undoes the children in reverse order. If one fails, the children
// already reverted are run again so the stack stays applied.
func (s *Stack) Revert() error {
	if err := s.expect(StateRan, "revert", KindStack); err != nil {
		return err
	}

	for i := len(s.events) - 1; i >= 0; i-- {
		if err := s.events[i].Revert(); err != nil {
			err = errors.Wrapf(err, "revert stack %q step %d (%s)", s.name, i, s.events[i].Kind())
			for j := i + 1; j < len(s.events); j++ {
				if rerr := s.events[j].Run(); rerr != nil {
					s.logger.Warnw("reapply step failed", "stack", s.name, "step", j, "error", rerr)
					err = errors.WithSecondaryError(err, rerr)
				}
			}
			s.logger.Warnw("stack revert rolled back", "stack", s.name, "failed_step", i, "error", err)
			return err
		}
	}

	s.state = StateIdle
	return nil
}

// Release releases every child.
func (s *Stack) Release() {
	for _, ev := range s.events {
		ev.Release()
	}
}
