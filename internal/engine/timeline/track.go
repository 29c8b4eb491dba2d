package timeline

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dshills/trackedit/internal/engine/opentime"
)

// Track owns an ordered sequence of items laid end to end from zero.
type Track struct {
	id       uuid.UUID
	name     string
	children []*Item
}

// NewTrack creates an empty track.
func NewTrack(name string) *Track {
	return &Track{
		id:   uuid.New(),
		name: name,
	}
}

// ID returns the track's stable id.
func (t *Track) ID() uuid.UUID { return t.id }

// Name returns the track name.
func (t *Track) Name() string { return t.name }

// Len returns the number of children.
func (t *Track) Len() int { return len(t.children) }

// Children returns a copy of the child list.
func (t *Track) Children() []*Item {
	out := make([]*Item, len(t.children))
	copy(out, t.children)
	return out
}

// ChildAt returns the child at index.
func (t *Track) ChildAt(index int) (*Item, error) {
	if index < 0 || index >= len(t.children) {
		return nil, errors.Wrapf(ErrIllegalIndex, "index %d of %d children", index, len(t.children))
	}
	return t.children[index], nil
}

// InsertChild places item at index, shifting later children right.
// Index may equal Len to append.
func (t *Track) InsertChild(index int, item *Item) error {
	if item == nil {
		return errors.New("cannot insert nil item")
	}
	if item.disposed {
		return errors.Wrapf(ErrDisposed, "insert %s", item)
	}
	if item.parent != nil {
		return errors.Wrapf(ErrAlreadyParented, "insert %s into %q", item, t.name)
	}
	if index < 0 || index > len(t.children) {
		return errors.Wrapf(ErrIllegalIndex, "insert at %d of %d children", index, len(t.children))
	}

	t.children = append(t.children, nil)
	copy(t.children[index+1:], t.children[index:])
	t.children[index] = item
	item.parent = t
	item.owner = nil
	return nil
}

// Append adds item after the last child.
func (t *Track) Append(item *Item) error {
	return t.InsertChild(len(t.children), item)
}

// RemoveChild detaches and returns the child at index.
func (t *Track) RemoveChild(index int) (*Item, error) {
	if index < 0 || index >= len(t.children) {
		return nil, errors.Wrapf(ErrIllegalIndex, "remove at %d of %d children", index, len(t.children))
	}

	item := t.children[index]
	copy(t.children[index:], t.children[index+1:])
	t.children[len(t.children)-1] = nil
	t.children = t.children[:len(t.children)-1]
	item.parent = nil
	return item, nil
}

// IndexOfChild returns the position of item among the children.
func (t *Track) IndexOfChild(item *Item) (int, error) {
	for i, child := range t.children {
		if child == item {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrItemNotFound, "%s in %q", item, t.name)
}

// RangeOfChildAtIndex returns the child's range in track coordinates.
func (t *Track) RangeOfChildAtIndex(index int) (opentime.TimeRange, error) {
	if index < 0 || index >= len(t.children) {
		return opentime.TimeRange{}, errors.Wrapf(ErrIllegalIndex, "range of %d of %d children", index, len(t.children))
	}

	start := opentime.Zero(t.rate())
	for _, child := range t.children[:index] {
		d, err := child.Duration()
		if err != nil {
			return opentime.TimeRange{}, err
		}
		start = start.Add(d)
	}

	d, err := t.children[index].Duration()
	if err != nil {
		return opentime.TimeRange{}, err
	}
	return opentime.NewTimeRange(start, d)
}

// RangeOfChild returns item's range in track coordinates.
func (t *Track) RangeOfChild(item *Item) (opentime.TimeRange, error) {
	if item.parent != t {
		return opentime.TimeRange{}, errors.Wrapf(ErrNotAChildOf, "%s is not in %q", item, t.name)
	}
	index, err := t.IndexOfChild(item)
	if err != nil {
		return opentime.TimeRange{}, err
	}
	return t.RangeOfChildAtIndex(index)
}

// AvailableRange returns [0, sum of child durations).
func (t *Track) AvailableRange() (opentime.TimeRange, error) {
	total := opentime.Zero(t.rate())
	for _, child := range t.children {
		d, err := child.Duration()
		if err != nil {
			return opentime.TimeRange{}, err
		}
		total = total.Add(d)
	}
	return opentime.NewTimeRange(opentime.Zero(total.Rate), total)
}

// rate returns the rate of the first timed child, or 1 for an empty track.
func (t *Track) rate() int64 {
	for _, child := range t.children {
		if r, ok := child.SourceRange(); ok && r.Duration.Rate > 0 {
			return r.Duration.Rate
		}
	}
	return 1
}
