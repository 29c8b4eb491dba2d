package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/dshills/trackedit/internal/engine/edit"
	"github.com/dshills/trackedit/internal/engine/event"
	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

// Tx edits through an engine that Transaction has locked.
// It is only valid until the transaction function returns.
type Tx struct {
	e *Engine
}

func (tx *Tx) engine() (*Engine, error) {
	if tx.e == nil {
		return nil, ErrTxDone
	}
	return tx.e, nil
}

// Overwrite is Engine.Overwrite within the transaction.
func (tx *Tx) Overwrite(item *timeline.Item, track *timeline.Track, at opentime.RationalTime) (*event.Stack, error) {
	e, err := tx.engine()
	if err != nil {
		return nil, err
	}
	return e.overwriteLocked(item, track, at)
}

// Insert is Engine.Insert within the transaction.
func (tx *Tx) Insert(item *timeline.Item, track *timeline.Track, at opentime.RationalTime) (*event.Stack, error) {
	e, err := tx.engine()
	if err != nil {
		return nil, err
	}
	return e.insertLocked(item, track, at)
}

// Slice is Engine.Slice within the transaction.
func (tx *Tx) Slice(item *timeline.Item, at opentime.RationalTime) (*event.Stack, error) {
	e, err := tx.engine()
	if err != nil {
		return nil, err
	}
	return e.sliceLocked(item, at, e.coords)
}

// SliceIn is Engine.SliceIn within the transaction.
func (tx *Tx) SliceIn(item *timeline.Item, at opentime.RationalTime, coords edit.Coordinates) (*event.Stack, error) {
	e, err := tx.engine()
	if err != nil {
		return nil, err
	}
	return e.sliceLocked(item, at, coords)
}

// Apply is Engine.Apply within the transaction.
func (tx *Tx) Apply(ev event.Event) error {
	e, err := tx.engine()
	if err != nil {
		return errors.Wrap(err, "apply")
	}
	return e.applyLocked(ev)
}
