package history

import (
	"github.com/cockroachdb/errors"

	"github.com/dshills/trackedit/internal/engine/event"
)

// GroupScope groups events using defer:
//
//	func ripple(h *History) {
//	    defer h.GroupScope("ripple").End()
//	    // ... several Execute calls ...
//	}
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{
		history: h,
		active:  true,
	}
}

// End ends the group scope. Only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Cancel ends the group scope without recording it.
// Events already executed stay applied.
func (g *GroupScope) Cancel() {
	if g.active {
		g.history.CancelGroup()
		g.active = false
	}
}

// Transaction runs fn within a group. Every event pushed while fn runs
// joins the group, so callers sharing the history must serialize around it.
// If fn fails, the events it executed are reverted in reverse order and
// nothing is recorded.
func (h *History) Transaction(name string, fn func() error) error {
	h.BeginGroup(name)

	err := fn()
	if err == nil {
		h.EndGroup()
		return nil
	}

	events := h.CancelGroup()
	for i := len(events) - 1; i >= 0; i-- {
		if rerr := events[i].Revert(); rerr != nil {
			h.logger.Warnw("transaction rollback failed", "transaction", name, "event", events[i].Kind(), "error", rerr)
			err = errors.WithSecondaryError(err, rerr)
		}
	}
	return err
}

// ExecuteGrouped executes several events as a single undo unit. If one
// fails, those already executed are reverted.
func (h *History) ExecuteGrouped(name string, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}
	if len(events) == 1 {
		return h.Execute(events[0])
	}

	return h.Transaction(name, func() error {
		for _, ev := range events {
			if err := h.Execute(ev); err != nil {
				return err
			}
		}
		return nil
	})
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (h *History) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint{undoDepth: len(h.undoStack)}
}

// UndoToCheckpoint undoes all operations since the checkpoint.
func (h *History) UndoToCheckpoint(cp Checkpoint) error {
	for h.UndoCount() > cp.undoDepth {
		if err := h.Undo(); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes operations up to the checkpoint depth while the
// redo stack holds them.
func (h *History) RedoToCheckpoint(cp Checkpoint) error {
	for h.UndoCount() < cp.undoDepth && h.CanRedo() {
		if err := h.Redo(); err != nil {
			return err
		}
	}
	return nil
}
