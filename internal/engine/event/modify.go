package event

import (
	"github.com/cockroachdb/errors"

	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

// ModifyRangeEvent replaces an item's source range.
type ModifyRangeEvent struct {
	base
	item     *timeline.Item
	newRange *opentime.TimeRange
	original *opentime.TimeRange
}

// NewModifyRange creates an event that sets item's source range to r.
// A nil r clears the range.
func NewModifyRange(item *timeline.Item, r *opentime.TimeRange) *ModifyRangeEvent {
	e := &ModifyRangeEvent{
		base: base{name: string(KindModifyRange)},
		item: item,
	}
	if r != nil {
		v := *r
		e.newRange = &v
	}
	return e
}

// Kind returns KindModifyRange.
func (e *ModifyRangeEvent) Kind() Kind { return KindModifyRange }

// Item returns the target item.
func (e *ModifyRangeEvent) Item() *timeline.Item { return e.item }

// NewRange returns the range applied by Run, or nil if Run clears it.
func (e *ModifyRangeEvent) NewRange() *opentime.TimeRange { return e.newRange }

// Original returns the range captured by Run, or nil.
func (e *ModifyRangeEvent) Original() *opentime.TimeRange { return e.original }

// Run captures the current range and applies the new one.
func (e *ModifyRangeEvent) Run() error {
	if err := e.expect(StateIdle, "run", KindModifyRange); err != nil {
		return err
	}
	if e.item == nil {
		return errors.Wrap(ErrUnresolvedReference, "modify range needs an item")
	}

	e.original = nil
	if r, ok := e.item.SourceRange(); ok {
		e.original = &r
	}
	apply(e.item, e.newRange)
	e.state = StateRan
	return nil
}

// Revert restores the captured range.
func (e *ModifyRangeEvent) Revert() error {
	if err := e.expect(StateRan, "revert", KindModifyRange); err != nil {
		return err
	}
	apply(e.item, e.original)
	e.state = StateIdle
	return nil
}

// Release does nothing.
func (e *ModifyRangeEvent) Release() {}

func apply(item *timeline.Item, r *opentime.TimeRange) {
	if r == nil {
		item.ClearSourceRange()
		return
	}
	item.SetSourceRange(*r)
}
