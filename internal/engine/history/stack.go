package history

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/trackedit/internal/engine/event"
)

// DefaultMaxEntries is used when a non-positive limit is given.
const DefaultMaxEntries = 1000

// undoEntry wraps an event with metadata.
type undoEntry struct {
	event     event.Event
	timestamp time.Time
}

// OperationInfo describes an entry for display.
type OperationInfo struct {
	Description string
	Kind        event.Kind
	Timestamp   time.Time
}

func (e *undoEntry) info() OperationInfo {
	return OperationInfo{
		Description: e.event.Name(),
		Kind:        e.event.Kind(),
		Timestamp:   e.timestamp,
	}
}

// History manages undo/redo state for applied events.
type History struct {
	mu sync.Mutex

	undoStack []*undoEntry
	redoStack []*undoEntry

	// Grouping state
	grouping    bool
	groupName   string
	groupEvents []event.Event

	maxEntries int
	logger     *zap.SugaredLogger
}

// New creates a history keeping at most maxEntries undo entries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		maxEntries: maxEntries,
		logger:     zap.NewNop().Sugar(),
	}
}

// SetLogger sets the logger used to report evictions.
func (h *History) SetLogger(logger *zap.SugaredLogger) {
	if logger == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger = logger
}

// Execute runs ev and adds it to the undo stack.
func (h *History) Execute(ev event.Event) error {
	if err := ev.Run(); err != nil {
		return err
	}
	h.Push(ev)
	return nil
}

// Push records an event that has already run. Clears the redo stack.
func (h *History) Push(ev event.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupEvents = append(h.groupEvents, ev)
		return
	}
	h.pushLocked(ev)
}

func (h *History) pushLocked(ev event.Event) {
	h.undoStack = append(h.undoStack, &undoEntry{
		event:     ev,
		timestamp: time.Now(),
	})

	for _, entry := range h.redoStack {
		entry.event.Release()
	}
	h.redoStack = nil

	h.trimLocked()
}

// trimLocked drops the oldest undo entries beyond maxEntries.
func (h *History) trimLocked() {
	if len(h.undoStack) <= h.maxEntries {
		return
	}
	excess := len(h.undoStack) - h.maxEntries
	for _, entry := range h.undoStack[:excess] {
		entry.event.Release()
	}
	h.logger.Debugw("history evicted entries", "count", excess, "max", h.maxEntries)
	h.undoStack = append([]*undoEntry(nil), h.undoStack[excess:]...)
}

// Undo reverts the last entry. On failure the entry stays on the undo stack.
func (h *History) Undo() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]

	if err := entry.event.Revert(); err != nil {
		return err
	}

	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, entry)
	return nil
}

// Redo runs the last undone entry. On failure the entry stays on the redo stack.
func (h *History) Redo() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]

	if err := entry.event.Run(); err != nil {
		return err
	}

	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, entry)
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// BeginGroup starts an event group. Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupEvents = nil
}

// EndGroup folds the events pushed since BeginGroup into one entry.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false
	events := h.groupEvents
	h.groupEvents = nil

	switch len(events) {
	case 0:
		return
	case 1:
		h.pushLocked(events[0])
		return
	}

	group, err := event.NewAppliedStack(h.groupName, events...)
	if err != nil {
		// A grouped event was reverted outside the history; keep them apart.
		h.logger.Warnw("history group not folded", "group", h.groupName, "error", err)
		for _, ev := range events {
			h.pushLocked(ev)
		}
		return
	}
	h.pushLocked(group)
}

// CancelGroup ends the group without recording it and returns the events
// pushed since BeginGroup. They remain applied.
func (h *History) CancelGroup() []event.Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	events := h.groupEvents
	h.grouping = false
	h.groupEvents = nil
	return events
}

// IsGrouping returns true if currently in an event group.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Clear releases and removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, entry := range h.undoStack {
		entry.event.Release()
	}
	for _, entry := range h.redoStack {
		entry.event.Release()
	}
	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupEvents = nil
}

// UndoInfo returns info about available undo operations, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]OperationInfo, len(h.undoStack))
	for i, entry := range h.undoStack {
		result[i] = entry.info()
	}
	return result
}

// RedoInfo returns info about available redo operations.
func (h *History) RedoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]OperationInfo, len(h.redoStack))
	for i, entry := range h.redoStack {
		result[i] = entry.info()
	}
	return result
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo operation without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, the oldest entries are released.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	h.trimLocked()
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
