// Package event provides reversible structural mutations of a track.
//
// Every Event moves through a two-state machine:
//
//	Idle --Run--> Ran --Revert--> Idle
//
// Calling Run on a Ran event, or Revert on an Idle one, fails with
// ErrInvalidExecutionOrder. The set of event types is closed: InsertEvent,
// RemoveEvent, ModifyRangeEvent and Stack.
//
// A Stack is itself an Event holding an ordered list of children. Run
// applies the children in order and, if one fails, reverts the children
// already applied so that the track is left as it was found. Revert is the
// mirror image.
//
// Events are persisted through a Registry, which maps each Kind to a
// constructor and a chain of version upgrades:
//
//	rec, err := event.DefaultRegistry().Encode(stack)
//	data, err := event.Marshal(rec)
//	...
//	rec, err = event.Unmarshal(data)
//	ev, err := event.DefaultRegistry().Decode(rec, catalog)
//
// Events are not safe for concurrent use; callers serialise access to the
// tracks they mutate.
package event
