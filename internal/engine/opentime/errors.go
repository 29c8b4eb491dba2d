package opentime

import "github.com/cockroachdb/errors"

// Errors returned by time and range construction.
var (
	// ErrInvalidRate indicates a time whose rate is not strictly positive.
	ErrInvalidRate = errors.New("invalid time rate")

	// ErrNegativeDuration indicates a range that would have a negative duration.
	ErrNegativeDuration = errors.New("negative range duration")
)
