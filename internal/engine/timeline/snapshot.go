package timeline

import (
	"github.com/google/uuid"

	"github.com/dshills/trackedit/internal/engine/opentime"
)

// ChildState is the observable state of one child at snapshot time.
type ChildState struct {
	ID          uuid.UUID
	Name        string
	Kind        Kind
	SourceRange *opentime.TimeRange
}

// Snapshot is the observable state of a track: its child sequence and ranges.
type Snapshot []ChildState

// Snapshot captures the track's current child sequence.
func (t *Track) Snapshot() Snapshot {
	out := make(Snapshot, len(t.children))
	for i, child := range t.children {
		state := ChildState{
			ID:   child.id,
			Name: child.name,
			Kind: child.kind,
		}
		if r, ok := child.SourceRange(); ok {
			state.SourceRange = &r
		}
		out[i] = state
	}
	return out
}

// Equal reports whether two snapshots hold the same items with equal ranges.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		a, b := s[i], o[i]
		if a.ID != b.ID || a.Kind != b.Kind || a.Name != b.Name {
			return false
		}
		if (a.SourceRange == nil) != (b.SourceRange == nil) {
			return false
		}
		if a.SourceRange != nil && !a.SourceRange.Equal(*b.SourceRange) {
			return false
		}
	}
	return true
}
