// Package history provides undo/redo of applied event stacks.
//
// Every entry on the undo stack is an event.Event in the Ran state; undo
// reverts it and moves it to the redo stack, redo runs it again. Entries
// that fall off a bounded undo stack, or are discarded by Clear, are
// released, which finalises any items they removed from a track.
//
//	h := history.New(100)
//	h.Execute(stack) // run and record
//	h.Undo()
//	h.Redo()
//
// # Grouping
//
// Events pushed between BeginGroup and EndGroup are folded into one
// event.Stack and undo together:
//
//	h.BeginGroup("ripple")
//	h.Execute(first)
//	h.Execute(second)
//	h.EndGroup()
//
// Transaction does the same for a function and reverts the group if the
// function fails.
package history
