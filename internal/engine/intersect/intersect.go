package intersect

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

// Type is the relationship between a child and a query range.
type Type int

const (
	// None means the child and query share no span of positive duration.
	None Type = iota
	// Contains means the query covers the whole child.
	Contains
	// Contained means the query lies strictly inside the child.
	Contained
	// OverlapBefore means the query covers the head of the child.
	OverlapBefore
	// OverlapAfter means the query covers the tail of the child.
	OverlapAfter
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case None:
		return "None"
	case Contains:
		return "Contains"
	case Contained:
		return "Contained"
	case OverlapBefore:
		return "OverlapBefore"
	case OverlapAfter:
		return "OverlapAfter"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Intersection describes one child related to a query range.
// SourceBefore and SourceAfter are in the child's local coordinates.
type Intersection struct {
	Type  Type
	Item  *timeline.Item
	Index int

	SourceBefore *opentime.TimeRange
	SourceAfter  *opentime.TimeRange
}

// String returns a short description for logs.
func (in Intersection) String() string {
	s := fmt.Sprintf("%s %s@%d", in.Type, in.Item, in.Index)
	if in.SourceBefore != nil {
		s += " before=" + in.SourceBefore.String()
	}
	if in.SourceAfter != nil {
		s += " after=" + in.SourceAfter.String()
	}
	return s
}

// Compute returns the children of track related to query, in time order.
// A positive limit stops the scan after that many intersections.
// On error no intersections are returned.
func Compute(track *timeline.Track, query opentime.TimeRange, limit int) ([]Intersection, error) {
	if track == nil {
		return nil, errors.New("intersect: nil track")
	}

	var (
		out     []Intersection
		contact bool
		start   opentime.RationalTime
	)

	for i, child := range track.Children() {
		local, ok := child.SourceRange()
		if !ok {
			return nil, errors.Wrapf(timeline.ErrMissingTimeRange, "child %d of %q", i, track.Name())
		}
		if i == 0 {
			start = opentime.Zero(local.Duration.Rate)
		}
		placed := opentime.TimeRange{Start: start, Duration: local.Duration}
		start = placed.EndExclusive()

		in, err := Classify(query, placed, local)
		if err != nil {
			return nil, errors.Wrapf(err, "classify child %d of %q", i, track.Name())
		}
		if in.Type == None {
			if contact {
				break
			}
			continue
		}

		in.Item = child
		in.Index = i
		out = append(out, in)
		contact = true

		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Classify relates query to a child placed at placed in track coordinates
// whose own source range is local. Item and Index are left unset.
func Classify(query, placed, local opentime.TimeRange) (Intersection, error) {
	// A zero-duration child is covered when its instant lies in [query.Start, query.End).
	if placed.IsEmpty() {
		if query.ContainsTime(placed.Start) {
			return Intersection{Type: Contains}, nil
		}
		return Intersection{Type: None}, nil
	}
	if query.Contains(placed) {
		return Intersection{Type: Contains}, nil
	}
	if !query.Overlaps(placed) {
		return Intersection{Type: None}, nil
	}

	qEnd, cEnd := query.EndExclusive(), placed.EndExclusive()

	if placed.Contains(query) {
		before, err := head(local, query.Start.Sub(placed.Start))
		if err != nil {
			return Intersection{}, err
		}
		after, err := tail(local, qEnd.Sub(placed.Start), cEnd.Sub(qEnd))
		if err != nil {
			return Intersection{}, err
		}

		t := Contained
		switch {
		case before.IsEmpty():
			t = OverlapBefore
		case after.IsEmpty():
			t = OverlapAfter
		}
		return Intersection{Type: t, SourceBefore: &before, SourceAfter: &after}, nil
	}

	if query.Start.Before(placed.Start) {
		after, err := tail(local, qEnd.Sub(placed.Start), cEnd.Sub(qEnd))
		if err != nil {
			return Intersection{}, err
		}
		return Intersection{Type: OverlapBefore, SourceAfter: &after}, nil
	}

	before, err := head(local, query.Start.Sub(placed.Start))
	if err != nil {
		return Intersection{}, err
	}
	return Intersection{Type: OverlapAfter, SourceBefore: &before}, nil
}

// head is the first d of local.
func head(local opentime.TimeRange, d opentime.RationalTime) (opentime.TimeRange, error) {
	return opentime.NewTimeRange(local.Start, d)
}

// tail starts offset into local and lasts d.
func tail(local opentime.TimeRange, offset, d opentime.RationalTime) (opentime.TimeRange, error) {
	return opentime.NewTimeRange(local.Start.Add(offset), d)
}
