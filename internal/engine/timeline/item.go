package timeline

import (
	"fmt"
	"maps"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dshills/trackedit/internal/engine/opentime"
)

// Kind identifies what an item represents.
type Kind int

const (
	// KindClip is a piece of media content.
	KindClip Kind = iota
	// KindGap is empty space.
	KindGap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindClip:
		return "Clip"
	case KindGap:
		return "Gap"
	default:
		return "Unknown"
	}
}

// ParseKind returns the Kind for a name produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Clip":
		return KindClip, nil
	case "Gap":
		return KindGap, nil
	default:
		return 0, errors.Newf("unknown item kind %q", s)
	}
}

// Item is a time-placed unit of content on a track.
type Item struct {
	id          uuid.UUID
	name        string
	kind        Kind
	sourceRange *opentime.TimeRange
	metadata    map[string]any

	parent   *Track
	owner    any
	disposed bool
}

// NewItem creates an item without a source range.
func NewItem(kind Kind, name string) *Item {
	return &Item{
		id:       uuid.New(),
		name:     name,
		kind:     kind,
		metadata: make(map[string]any),
	}
}

// NewClip creates a clip covering r in its own coordinates.
func NewClip(name string, r opentime.TimeRange) *Item {
	item := NewItem(KindClip, name)
	item.SetSourceRange(r)
	return item
}

// NewGap creates a gap of the given duration starting at local zero.
func NewGap(duration opentime.RationalTime) *Item {
	item := NewItem(KindGap, "")
	item.SetSourceRange(opentime.TimeRange{
		Start:    opentime.Zero(duration.Rate),
		Duration: duration,
	})
	return item
}

// ID returns the item's stable id.
func (i *Item) ID() uuid.UUID { return i.id }

// Name returns the item name.
func (i *Item) Name() string { return i.name }

// SetName renames the item.
func (i *Item) SetName(name string) { i.name = name }

// Kind returns the item kind.
func (i *Item) Kind() Kind { return i.kind }

// Parent returns the track currently holding the item, or nil.
func (i *Item) Parent() *Track { return i.parent }

// Metadata returns the item's metadata map.
func (i *Item) Metadata() map[string]any { return i.metadata }

// SourceRange returns the item's local range and whether it is set.
func (i *Item) SourceRange() (opentime.TimeRange, bool) {
	if i.sourceRange == nil {
		return opentime.TimeRange{}, false
	}
	return *i.sourceRange, true
}

// SetSourceRange replaces the item's local range.
func (i *Item) SetSourceRange(r opentime.TimeRange) {
	i.sourceRange = &r
}

// ClearSourceRange removes the item's local range.
func (i *Item) ClearSourceRange() {
	i.sourceRange = nil
}

// Duration returns the duration of the source range.
func (i *Item) Duration() (opentime.RationalTime, error) {
	if i.sourceRange == nil {
		return opentime.RationalTime{}, errors.Wrapf(ErrMissingTimeRange, "item %s", i)
	}
	return i.sourceRange.Duration, nil
}

// Clone returns a deep copy with a fresh id and no parent.
func (i *Item) Clone() (*Item, error) {
	if i.disposed {
		return nil, errors.Wrapf(ErrDisposed, "clone %s", i)
	}
	clone := &Item{
		id:       uuid.New(),
		name:     i.name,
		kind:     i.kind,
		metadata: maps.Clone(i.metadata),
	}
	if clone.metadata == nil {
		clone.metadata = make(map[string]any)
	}
	if i.sourceRange != nil {
		r := *i.sourceRange
		clone.sourceRange = &r
	}
	return clone, nil
}

// Dispose releases the item. A disposed item cannot be cloned or inserted.
// Disposing an item that is still parented is a no-op.
func (i *Item) Dispose() {
	if i.parent != nil {
		return
	}
	i.disposed = true
	i.metadata = nil
}

// Claim records owner as the holder of a detached item. Inserting the
// item into a track clears the claim.
func (i *Item) Claim(owner any) { i.owner = owner }

// OwnedBy returns true if owner made the latest claim on the item and the
// item has not been inserted since.
func (i *Item) OwnedBy(owner any) bool {
	return owner != nil && i.owner == owner
}

// IsDisposed returns true once Dispose has taken effect.
func (i *Item) IsDisposed() bool { return i.disposed }

// String returns a short description for logs and errors.
func (i *Item) String() string {
	name := i.name
	if name == "" {
		name = i.id.String()[:8]
	}
	if i.sourceRange == nil {
		return fmt.Sprintf("%s(%s)", i.kind, name)
	}
	return fmt.Sprintf("%s(%s %s)", i.kind, name, *i.sourceRange)
}
