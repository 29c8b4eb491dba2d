package engine

import (
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/dshills/trackedit/internal/config"
	"github.com/dshills/trackedit/internal/engine/edit"
	"github.com/dshills/trackedit/internal/engine/event"
	"github.com/dshills/trackedit/internal/engine/history"
	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

// Engine is the main facade for track editing.
// It plans placements, runs them and records them for undo.
//
// All operations are serialized by one mutex. Tracks and items handed to
// an Engine must not be mutated behind its back while it is in use.
type Engine struct {
	mu sync.Mutex

	planner  *edit.Planner
	history  *history.History
	registry *event.Registry
	logger   *zap.SugaredLogger

	// Configuration
	coords         edit.Coordinates
	fillTemplate   *timeline.Item
	fillName       string
	maxUndoEntries int
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:       event.DefaultRegistry(),
		logger:         zap.NewNop().Sugar(),
		coords:         edit.Parent,
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.planner = edit.New(
		edit.WithLogger(e.logger),
		edit.WithFillFactory(e.newFill),
	)
	e.history = history.New(e.maxUndoEntries)
	e.history.SetLogger(e.logger)
	return e
}

// newFill creates named gaps. It runs under e.mu.
func (e *Engine) newFill(duration opentime.RationalTime) *timeline.Item {
	gap := timeline.NewGap(duration)
	if e.fillName != "" {
		gap.SetName(e.fillName)
	}
	return gap
}

// Overwrite places item over track starting at at, replacing whatever
// was there. The applied stack is recorded for undo and returned.
func (e *Engine) Overwrite(item *timeline.Item, track *timeline.Track, at opentime.RationalTime) (*event.Stack, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overwriteLocked(item, track, at)
}

func (e *Engine) overwriteLocked(item *timeline.Item, track *timeline.Track, at opentime.RationalTime) (*event.Stack, error) {
	s, err := e.planner.Overwrite(item, track, at, e.fillTemplate, true)
	if err != nil {
		return nil, err
	}
	return e.executeLocked(s)
}

// Insert places item into track at at, shifting later content.
func (e *Engine) Insert(item *timeline.Item, track *timeline.Track, at opentime.RationalTime) (*event.Stack, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.insertLocked(item, track, at)
}

func (e *Engine) insertLocked(item *timeline.Item, track *timeline.Track, at opentime.RationalTime) (*event.Stack, error) {
	s, err := e.planner.Insert(item, track, at, e.fillTemplate, true)
	if err != nil {
		return nil, err
	}
	return e.executeLocked(s)
}

// Slice splits item at at, interpreted in the engine's default
// coordinate space.
func (e *Engine) Slice(item *timeline.Item, at opentime.RationalTime) (*event.Stack, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sliceLocked(item, at, e.coords)
}

// SliceIn splits item at at, interpreted in coords.
func (e *Engine) SliceIn(item *timeline.Item, at opentime.RationalTime, coords edit.Coordinates) (*event.Stack, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sliceLocked(item, at, coords)
}

func (e *Engine) sliceLocked(item *timeline.Item, at opentime.RationalTime, coords edit.Coordinates) (*event.Stack, error) {
	s, err := e.planner.Slice(item, at, coords, true)
	if err != nil {
		return nil, err
	}
	return e.executeLocked(s)
}

// executeLocked runs a planned stack through the history.
// Empty stacks are returned without being recorded.
func (e *Engine) executeLocked(s *event.Stack) (*event.Stack, error) {
	if s.IsEmpty() {
		return s, nil
	}
	if err := e.history.Execute(s); err != nil {
		return nil, errors.Wrapf(err, "apply %s", s.Name())
	}
	return s, nil
}

// PreviewOverwrite plans an overwrite without applying it.
func (e *Engine) PreviewOverwrite(item *timeline.Item, track *timeline.Track, at opentime.RationalTime) (*event.Stack, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.planner.Overwrite(item, track, at, e.fillTemplate, true)
}

// PreviewInsert plans an insert without applying it.
func (e *Engine) PreviewInsert(item *timeline.Item, track *timeline.Track, at opentime.RationalTime) (*event.Stack, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.planner.Insert(item, track, at, e.fillTemplate, true)
}

// PreviewSlice plans a slice in the default coordinate space without
// applying it.
func (e *Engine) PreviewSlice(item *timeline.Item, at opentime.RationalTime) (*event.Stack, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.planner.Slice(item, at, e.coords, true)
}

// Apply runs an idle event, typically a previewed stack, and records it.
func (e *Engine) Apply(ev event.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(ev)
}

func (e *Engine) applyLocked(ev event.Event) error {
	if ev == nil {
		return errors.Wrap(event.ErrUnresolvedReference, "no event to apply")
	}
	return e.history.Execute(ev)
}

// Transaction records every edit made through tx as one undo step. If fn
// fails, those edits are reverted. The engine stays locked until fn
// returns, so fn must edit through tx and not through the engine.
func (e *Engine) Transaction(name string, fn func(tx *Tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx := &Tx{e: e}
	defer func() { tx.e = nil }()
	return e.history.Transaction(name, func() error { return fn(tx) })
}

// Undo reverts the most recent edit.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Undo()
}

// Redo reapplies the most recently undone edit.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Redo()
}

// CanUndo returns true if there are edits to undo.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo returns true if there are edits to redo.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// History returns the underlying undo history for inspection (counts,
// UndoInfo, MaxEntries). It is not covered by the engine's lock: undoing,
// redoing or executing through it races with edits made via the engine.
func (e *Engine) History() *history.History {
	return e.history
}

// Encode converts ev to a serializable record.
func (e *Engine) Encode(ev event.Event) (event.Record, error) {
	return e.registry.Encode(ev)
}

// Decode rebuilds an event from rec, resolving references through res.
func (e *Engine) Decode(rec event.Record, res event.Resolver) (event.Event, error) {
	return e.registry.Decode(rec, res)
}

// Coordinates returns the default coordinate space for Slice.
func (e *Engine) Coordinates() edit.Coordinates {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coords
}

// ApplyConfig updates the engine's settings in place. It is safe to call
// from a config watcher while edits are in progress.
func (e *Engine) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.coords = cfg.Coordinates()
	e.fillName = cfg.Edit.FillName
	if cfg.History.MaxEntries > 0 {
		e.maxUndoEntries = cfg.History.MaxEntries
		e.history.SetMaxEntries(cfg.History.MaxEntries)
	}
	e.logger.Debugw("config applied",
		"coordinates", e.coords,
		"fillName", e.fillName,
		"maxEntries", e.maxUndoEntries)
}
