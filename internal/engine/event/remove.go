package event

import (
	"github.com/cockroachdb/errors"

	"github.com/dshills/trackedit/internal/engine/timeline"
)

// RemoveEvent detaches an item from its track.
// While the event has run it owns the removed item.
type RemoveEvent struct {
	base
	item  *timeline.Item
	track *timeline.Track
	index int
}

// NewRemove creates a remove event. The track is taken from the item's
// parent now, or when the event runs if the item has no parent yet.
func NewRemove(item *timeline.Item) *RemoveEvent {
	e := &RemoveEvent{
		base:  base{name: string(KindRemove)},
		item:  item,
		index: -1,
	}
	if item != nil {
		e.track = item.Parent()
	}
	return e
}

// Kind returns KindRemove.
func (e *RemoveEvent) Kind() Kind { return KindRemove }

// Item returns the item to remove.
func (e *RemoveEvent) Item() *timeline.Item { return e.item }

// Track returns the track the item is removed from, if known.
func (e *RemoveEvent) Track() *timeline.Track { return e.track }

// Index returns the index the item was removed from, or -1 before Run.
func (e *RemoveEvent) Index() int { return e.index }

// Run looks up the item's current index and removes it.
func (e *RemoveEvent) Run() error {
	if err := e.expect(StateIdle, "run", KindRemove); err != nil {
		return err
	}
	if e.item == nil {
		return errors.Wrap(ErrUnresolvedReference, "remove needs an item")
	}

	track := e.track
	if track == nil {
		track = e.item.Parent()
	}
	if track == nil {
		return errors.Wrapf(timeline.ErrNotAChildOf, "remove %s: no parent track", e.item)
	}

	index, err := track.IndexOfChild(e.item)
	if err != nil {
		return err
	}
	if _, err := track.RemoveChild(index); err != nil {
		return err
	}

	e.item.Claim(e)
	e.track = track
	e.index = index
	e.state = StateRan
	return nil
}

// Revert reinserts the item at the index it was removed from.
func (e *RemoveEvent) Revert() error {
	if err := e.expect(StateRan, "revert", KindRemove); err != nil {
		return err
	}
	if err := e.track.InsertChild(e.index, e.item); err != nil {
		return errors.Wrapf(err, "restore %s", e.item)
	}
	e.state = StateIdle
	return nil
}

// Release disposes the removed item if the removal still stands and no
// later edit has reinserted the item since.
func (e *RemoveEvent) Release() {
	if e.state == StateRan && e.item != nil && e.item.OwnedBy(e) {
		e.item.Dispose()
	}
}
