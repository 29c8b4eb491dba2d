package edit

import (
	"github.com/cockroachdb/errors"

	"github.com/dshills/trackedit/internal/engine/event"
	"github.com/dshills/trackedit/internal/engine/intersect"
	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

// Overwrite places item over [at, at+duration) on track, replacing what is
// there. Children wholly covered are removed, partially covered ones are
// trimmed, and a child that wholly contains the range is split around it.
// A zero-duration item is placed as Insert would place it.
// When nothing lies in the range the track is padded up to at with a clone
// of fill, or a gap when fill is nil, and item is appended.
func (p *Planner) Overwrite(item *timeline.Item, track *timeline.Track, at opentime.RationalTime, fill *timeline.Item, preview bool) (*event.Stack, error) {
	if err := checkRefs(item, track); err != nil {
		return nil, err
	}
	duration, err := item.Duration()
	if err != nil {
		return nil, err
	}
	// An empty placement covers nothing, so it lands like an insert.
	if duration.IsZero() {
		return p.insertAt("overwrite", item, track, at, fill, preview)
	}
	place, err := opentime.NewTimeRange(at, duration)
	if err != nil {
		return nil, errors.Wrap(err, "placement range")
	}

	hits, err := intersect.Compute(track, place, 0)
	if err != nil {
		return nil, err
	}

	s := p.newStack("overwrite")
	if len(hits) == 0 {
		if err := p.pushFill(s, track, item, fill, at); err != nil {
			return nil, err
		}
		return p.finish(s, preview)
	}

	index := hits[0].Index
	for _, in := range hits {
		switch in.Type {
		case intersect.Contains:
			s.Add(event.NewRemove(in.Item))
		case intersect.Contained:
			// The far part of the child goes after the placed item.
			index++
			if err := split(s, track, in.Item, index, *in.SourceBefore, *in.SourceAfter); err != nil {
				return nil, err
			}
		case intersect.OverlapBefore:
			s.Add(event.NewModifyRange(in.Item, in.SourceAfter))
		case intersect.OverlapAfter:
			index++
			s.Add(event.NewModifyRange(in.Item, in.SourceBefore))
		}
	}
	s.Add(event.NewInsert(index, track, item))

	p.logger.Debugw("overwrite intersections", "track", track.Name(), "range", place.String(), "hits", len(hits))
	return p.finish(s, preview)
}
