package edit

import (
	"github.com/dshills/trackedit/internal/engine/event"
	"github.com/dshills/trackedit/internal/engine/intersect"
	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

// Insert places item at at without removing anything. A child straddling
// at is split and item goes between the two halves; later children shift.
// Past the end of the track, the track is padded as in Overwrite.
func (p *Planner) Insert(item *timeline.Item, track *timeline.Track, at opentime.RationalTime, fill *timeline.Item, preview bool) (*event.Stack, error) {
	if err := checkRefs(item, track); err != nil {
		return nil, err
	}
	if _, err := item.Duration(); err != nil {
		return nil, err
	}
	return p.insertAt("insert", item, track, at, fill, preview)
}

// insertAt plans item at the child index for at, splitting a straddled child.
func (p *Planner) insertAt(name string, item *timeline.Item, track *timeline.Track, at opentime.RationalTime, fill *timeline.Item, preview bool) (*event.Stack, error) {
	probe, err := opentime.NewTimeRange(at, opentime.New(1, at.Rate))
	if err != nil {
		return nil, err
	}

	hits, err := intersect.Compute(track, probe, 1)
	if err != nil {
		return nil, err
	}

	s := p.newStack(name)
	if len(hits) == 0 {
		if err := p.pushFill(s, track, item, fill, at); err != nil {
			return nil, err
		}
		return p.finish(s, preview)
	}

	in := hits[0]
	index := in.Index
	switch in.Type {
	case intersect.Contained, intersect.OverlapAfter:
		index++
		local, _ := in.Item.SourceRange()
		before, after, err := cut(local, in.SourceBefore.Duration)
		if err != nil {
			return nil, err
		}
		if err := split(s, track, in.Item, index, before, after); err != nil {
			return nil, err
		}
	}
	s.Add(event.NewInsert(index, track, item))

	return p.finish(s, preview)
}
