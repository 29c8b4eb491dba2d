package edit

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/dshills/trackedit/internal/engine/event"
	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

// FillFactory creates the placeholder used to pad a track up to a
// placement instant when no fill template is given.
type FillFactory func(duration opentime.RationalTime) *timeline.Item

// Planner builds placement stacks.
// A Planner holds no per-call state and may be shared.
type Planner struct {
	logger  *zap.SugaredLogger
	newFill FillFactory
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger for plan summaries.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithFillFactory sets the placeholder constructor. The default creates gaps.
func WithFillFactory(f FillFactory) Option {
	return func(p *Planner) {
		if f != nil {
			p.newFill = f
		}
	}
}

// New creates a Planner.
func New(opts ...Option) *Planner {
	p := &Planner{
		logger:  zap.NewNop().Sugar(),
		newFill: timeline.NewGap,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) newStack(name string) *event.Stack {
	s := event.NewStack(name)
	s.SetLogger(p.logger)
	return s
}

// finish runs s unless preview is set.
func (p *Planner) finish(s *event.Stack, preview bool) (*event.Stack, error) {
	p.logger.Debugw("planned "+s.Name(), "events", s.Len(), "preview", preview)
	if preview {
		return s, nil
	}
	if err := s.Run(); err != nil {
		return nil, errors.Wrapf(err, "apply %s", s.Name())
	}
	return s, nil
}

func checkRefs(item *timeline.Item, track *timeline.Track) error {
	if item == nil {
		return errors.Wrap(event.ErrUnresolvedReference, "no item to place")
	}
	if track == nil {
		return errors.Wrap(event.ErrUnresolvedReference, "no track to place into")
	}
	return nil
}

// pushFill pads track with a placeholder ending at at, then appends item.
// No placeholder is emitted when the track already ends at at.
func (p *Planner) pushFill(s *event.Stack, track *timeline.Track, item, template *timeline.Item, at opentime.RationalTime) error {
	avail, err := track.AvailableRange()
	if err != nil {
		return err
	}
	gap, err := opentime.RangeFromStartEnd(avail.EndExclusive(), at)
	if err != nil {
		return errors.Wrapf(err, "fill track %q up to %s", track.Name(), at)
	}

	index := track.Len()
	if !gap.IsEmpty() {
		var fill *timeline.Item
		if template != nil {
			if fill, err = template.Clone(); err != nil {
				return errors.Wrap(err, "clone fill template")
			}
		} else if fill = p.newFill(gap.Duration); fill == nil {
			return errors.Wrapf(event.ErrUnresolvedReference, "fill factory returned no item for %s", gap.Duration)
		}
		fill.SetSourceRange(opentime.TimeRange{
			Start:    opentime.Zero(gap.Duration.Rate),
			Duration: gap.Duration,
		})
		s.Add(event.NewInsert(index, track, fill))
		index++
	}
	s.Add(event.NewInsert(index, track, item))
	return nil
}

// split trims child to before and places a clone trimmed to after at index.
func split(s *event.Stack, track *timeline.Track, child *timeline.Item, index int, before, after opentime.TimeRange) error {
	dup, err := child.Clone()
	if err != nil {
		return errors.Wrapf(err, "split %s", child)
	}
	s.Add(
		event.NewModifyRange(child, &before),
		event.NewInsert(index, track, dup),
		event.NewModifyRange(dup, &after),
	)
	return nil
}

// cut divides local at offset from its start.
func cut(local opentime.TimeRange, offset opentime.RationalTime) (before, after opentime.TimeRange, err error) {
	if before, err = opentime.NewTimeRange(local.Start, offset); err != nil {
		return before, after, err
	}
	after, err = opentime.NewTimeRange(local.Start.Add(offset), local.Duration.Sub(offset))
	return before, after, err
}
