package edit

import (
	"github.com/cockroachdb/errors"

	"github.com/dshills/trackedit/internal/engine/event"
	"github.com/dshills/trackedit/internal/engine/intersect"
	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

// Slice cuts item in two at at, interpreted in coords. An instant on
// either boundary of the item, or outside it, yields an empty stack.
func (p *Planner) Slice(item *timeline.Item, at opentime.RationalTime, coords Coordinates, preview bool) (*event.Stack, error) {
	if item == nil {
		return nil, errors.Wrap(event.ErrUnresolvedReference, "no item to slice")
	}
	track := item.Parent()
	if track == nil {
		return nil, errors.Wrapf(timeline.ErrNotAChildOf, "cannot slice trackless item %s", item)
	}
	placed, err := track.RangeOfChild(item)
	if err != nil {
		return nil, err
	}
	local, _ := item.SourceRange()

	t := at
	if coords == Local {
		t = placed.Start.Add(at.Sub(local.Start))
	}

	s := p.newStack("slice")
	if !t.After(placed.Start) || !t.Before(placed.EndExclusive()) {
		p.logger.Debugw("slice outside item interior", "item", item.String(), "at", t.String())
		return s, nil
	}

	probe, err := opentime.NewTimeRange(t, opentime.New(1, t.Rate))
	if err != nil {
		return nil, err
	}
	hits, err := intersect.Compute(track, probe, 1)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 || hits[0].Item != item {
		return s, nil
	}

	before, after, err := cut(local, t.Sub(placed.Start))
	if err != nil {
		return nil, err
	}
	if err := split(s, track, item, hits[0].Index+1, before, after); err != nil {
		return nil, err
	}
	return p.finish(s, preview)
}
