package opentime

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// TimeRange is a half-open interval [Start, Start+Duration).
type TimeRange struct {
	Start    RationalTime // Inclusive start
	Duration RationalTime // Non-negative length
}

// NewTimeRange creates a range, rejecting invalid rates and negative durations.
func NewTimeRange(start, duration RationalTime) (TimeRange, error) {
	if err := start.Validate(); err != nil {
		return TimeRange{}, err
	}
	if err := duration.Validate(); err != nil {
		return TimeRange{}, err
	}
	if duration.Sign() < 0 {
		return TimeRange{}, errors.Wrapf(ErrNegativeDuration, "range at %s with duration %s", start, duration)
	}
	return TimeRange{Start: start, Duration: duration}, nil
}

// RangeFromStartEnd creates the range [start, end).
func RangeFromStartEnd(start, end RationalTime) (TimeRange, error) {
	return NewTimeRange(start, end.Sub(start))
}

// String returns a human-readable representation of the range.
func (r TimeRange) String() string {
	return fmt.Sprintf("[%s +%s)", r.Start, r.Duration)
}

// EndExclusive returns the first instant after the range.
func (r TimeRange) EndExclusive() RationalTime {
	return r.Start.Add(r.Duration)
}

// IsEmpty returns true if the range has zero duration.
func (r TimeRange) IsEmpty() bool {
	return r.Duration.IsZero()
}

// Equal returns true if both ranges cover the same instants.
func (r TimeRange) Equal(o TimeRange) bool {
	return r.Start.Equal(o.Start) && r.Duration.Equal(o.Duration)
}

// ContainsTime returns true if t lies in [Start, End).
func (r TimeRange) ContainsTime(t RationalTime) bool {
	return !t.Before(r.Start) && t.Before(r.EndExclusive())
}

// Contains returns true if o lies entirely within r. Equal ranges contain each other.
func (r TimeRange) Contains(o TimeRange) bool {
	return !o.Start.Before(r.Start) && !o.EndExclusive().After(r.EndExclusive())
}

// Overlaps returns true if r and o share a span of positive duration.
// Ranges that only meet at a boundary do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	start := r.Start.Max(o.Start)
	end := r.EndExclusive().Min(o.EndExclusive())
	return start.Before(end)
}

// Begins returns true if the range starts at t.
func (r TimeRange) Begins(t RationalTime) bool {
	return r.Start.Equal(t)
}

// Finishes returns true if the range ends exactly at t.
func (r TimeRange) Finishes(t RationalTime) bool {
	return r.EndExclusive().Equal(t)
}

// Shift returns the range moved by delta.
func (r TimeRange) Shift(delta RationalTime) TimeRange {
	return TimeRange{Start: r.Start.Add(delta), Duration: r.Duration}
}
