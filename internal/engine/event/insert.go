package event

import (
	"github.com/cockroachdb/errors"

	"github.com/dshills/trackedit/internal/engine/timeline"
)

// InsertEvent places an item into a track at an index.
type InsertEvent struct {
	base
	index int
	track *timeline.Track
	item  *timeline.Item
}

// NewInsert creates an insert event. A negative index counts back from the
// track's child count at construction time.
func NewInsert(index int, track *timeline.Track, item *timeline.Item) *InsertEvent {
	if index < 0 && track != nil {
		index += track.Len()
	}
	return &InsertEvent{
		base:  base{name: string(KindInsert)},
		index: index,
		track: track,
		item:  item,
	}
}

// Kind returns KindInsert.
func (e *InsertEvent) Kind() Kind { return KindInsert }

// Index returns the resolved insertion index.
func (e *InsertEvent) Index() int { return e.index }

// Track returns the target track.
func (e *InsertEvent) Track() *timeline.Track { return e.track }

// Item returns the item to insert.
func (e *InsertEvent) Item() *timeline.Item { return e.item }

// Run inserts the item at the index.
func (e *InsertEvent) Run() error {
	if err := e.expect(StateIdle, "run", KindInsert); err != nil {
		return err
	}
	if e.track == nil || e.item == nil {
		return errors.Wrap(ErrUnresolvedReference, "insert needs a track and an item")
	}
	if e.index < 0 || e.index > e.track.Len() {
		return errors.Wrapf(timeline.ErrIllegalIndex, "insert %s at %d of %d children", e.item, e.index, e.track.Len())
	}
	if err := e.track.InsertChild(e.index, e.item); err != nil {
		return err
	}
	e.state = StateRan
	return nil
}

// Revert removes the item from the index it was inserted at.
func (e *InsertEvent) Revert() error {
	if err := e.expect(StateRan, "revert", KindInsert); err != nil {
		return err
	}
	child, err := e.track.ChildAt(e.index)
	if err != nil {
		return err
	}
	if child != e.item {
		return errors.Wrapf(timeline.ErrItemNotFound, "%s no longer at %d", e.item, e.index)
	}
	if _, err := e.track.RemoveChild(e.index); err != nil {
		return err
	}
	e.state = StateIdle
	return nil
}

// Release does nothing; the inserted item belongs to the track.
func (e *InsertEvent) Release() {}
