package timeline

import "github.com/cockroachdb/errors"

// Errors returned by track and item operations.
var (
	// ErrMissingTimeRange indicates an item without a source range.
	ErrMissingTimeRange = errors.New("item has no source range")

	// ErrItemNotFound indicates an item is not a child of the track.
	ErrItemNotFound = errors.New("item not found in track")

	// ErrIllegalIndex indicates a child index outside the track bounds.
	ErrIllegalIndex = errors.New("illegal child index")

	// ErrNotAChildOf indicates an item is not parented to the expected track.
	ErrNotAChildOf = errors.New("not a child of expected parent")

	// ErrAlreadyParented indicates an item that already belongs to a track.
	ErrAlreadyParented = errors.New("item already has a parent")

	// ErrDisposed indicates an item that has been disposed.
	ErrDisposed = errors.New("item has been disposed")
)
