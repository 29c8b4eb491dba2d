// Package edit plans placements of items on a track.
//
// A Planner turns a placement request into an event.Stack of primitive
// insert, remove and range-modify events:
//
//   - Overwrite places an item over whatever occupies its range, trimming,
//     splitting or removing the children it covers.
//   - Insert places an item at an instant without removing anything,
//     splitting the child that straddles the instant.
//   - Slice cuts a placed item in two at an instant.
//
// Every operation plans first and touches the track only when the stack
// runs. With preview set the stack is returned unexecuted; otherwise it is
// run and, on failure, rolled back before the error is returned.
//
// A split is always emitted as three events: the original is trimmed to the
// part before the cut, a clone is inserted after it, and the clone is
// trimmed to the part after the cut.
package edit
