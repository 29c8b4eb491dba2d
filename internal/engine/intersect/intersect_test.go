package intersect

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

const rate = 24

func rt(v int64) opentime.RationalTime { return opentime.New(v, rate) }

func tr(start, dur int64) opentime.TimeRange {
	return opentime.TimeRange{Start: rt(start), Duration: rt(dur)}
}

// newTrack builds a track of clips with the given (local start, duration) pairs.
func newTrack(t *testing.T, ranges ...opentime.TimeRange) *timeline.Track {
	t.Helper()
	track := timeline.NewTrack("V1")
	for _, r := range ranges {
		require.NoError(t, track.Append(timeline.NewClip("", r)))
	}
	return track
}

func assertRange(t *testing.T, want opentime.TimeRange, got *opentime.TimeRange) {
	t.Helper()
	require.NotNil(t, got)
	assert.Truef(t, want.Equal(*got), "want %s, got %s", want, *got)
}

func TestClassify(t *testing.T) {
	// Child placed at [10,30) on the track with local range [100,20).
	placed, local := tr(10, 20), tr(100, 20)

	tests := []struct {
		name   string
		query  opentime.TimeRange
		want   Type
		before *opentime.TimeRange
		after  *opentime.TimeRange
	}{
		{name: "equal", query: tr(10, 20), want: Contains},
		{name: "covers", query: tr(5, 30), want: Contains},
		{name: "interior", query: tr(15, 5), want: Contained, before: ptr(tr(100, 5)), after: ptr(tr(110, 10))},
		{name: "shared start", query: tr(10, 5), want: OverlapBefore, before: ptr(tr(100, 0)), after: ptr(tr(105, 15))},
		{name: "shared end", query: tr(25, 5), want: OverlapAfter, before: ptr(tr(100, 15)), after: ptr(tr(120, 0))},
		{name: "head", query: tr(0, 15), want: OverlapBefore, after: ptr(tr(105, 15))},
		{name: "tail", query: tr(20, 30), want: OverlapAfter, before: ptr(tr(100, 10))},
		{name: "touch before", query: tr(0, 10), want: None},
		{name: "touch after", query: tr(30, 10), want: None},
		{name: "disjoint", query: tr(40, 10), want: None},
		{name: "zero duration inside", query: tr(15, 0), want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Classify(tt.query, placed, local)
			require.NoError(t, err)
			assert.Equal(t, tt.want, in.Type)

			if tt.before == nil {
				assert.Nil(t, in.SourceBefore)
			} else {
				assertRange(t, *tt.before, in.SourceBefore)
			}
			if tt.after == nil {
				assert.Nil(t, in.SourceAfter)
			} else {
				assertRange(t, *tt.after, in.SourceAfter)
			}
		})
	}
}

func ptr(r opentime.TimeRange) *opentime.TimeRange { return &r }

func TestComputeSpanningChildren(t *testing.T) {
	// [0,10) [10,30) [30,40) [40,50)
	track := newTrack(t, tr(0, 10), tr(0, 20), tr(0, 10), tr(0, 10))

	got, err := Compute(track, tr(5, 30), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, OverlapAfter, got[0].Type)
	assert.Equal(t, 0, got[0].Index)
	assertRange(t, tr(0, 5), got[0].SourceBefore)

	assert.Equal(t, Contains, got[1].Type)
	assert.Equal(t, 1, got[1].Index)

	assert.Equal(t, OverlapBefore, got[2].Type)
	assert.Equal(t, 2, got[2].Index)
	assertRange(t, tr(5, 5), got[2].SourceAfter)

	children := track.Children()
	for i, in := range got {
		assert.Same(t, children[i], in.Item)
	}
}

func TestComputeBoundaryTouchIsNone(t *testing.T) {
	track := newTrack(t, tr(0, 10), tr(0, 10), tr(0, 10))

	got, err := Compute(track, tr(10, 10), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Contains, got[0].Type)
	assert.Equal(t, 1, got[0].Index)
}

func TestClassifyZeroDurationChild(t *testing.T) {
	tests := []struct {
		name   string
		placed opentime.TimeRange
		query  opentime.TimeRange
		want   Type
	}{
		{name: "at query start", placed: tr(5, 0), query: tr(5, 10), want: Contains},
		{name: "inside query", placed: tr(10, 0), query: tr(5, 10), want: Contains},
		{name: "at query end", placed: tr(15, 0), query: tr(5, 10), want: None},
		{name: "before query", placed: tr(2, 0), query: tr(5, 10), want: None},
		{name: "empty query", placed: tr(5, 0), query: tr(5, 0), want: None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Classify(tt.query, tt.placed, tr(0, 0))
			require.NoError(t, err)
			assert.Equal(t, tt.want, in.Type)
		})
	}
}

func TestComputeScansPastZeroDurationChild(t *testing.T) {
	// [0,10) [10,10) [10,20)
	track := newTrack(t, tr(0, 10), tr(0, 0), tr(0, 10))

	got, err := Compute(track, tr(5, 10), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, OverlapAfter, got[0].Type)
	assert.Equal(t, Contains, got[1].Type)
	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, OverlapBefore, got[2].Type)
	assertRange(t, tr(5, 5), got[2].SourceAfter)
}

func TestComputeLimit(t *testing.T) {
	track := newTrack(t, tr(0, 10), tr(0, 10), tr(0, 10))

	got, err := Compute(track, tr(5, 20), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Index)

	got, err = Compute(track, tr(5, 20), -1)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestComputeStopsAfterContactLost(t *testing.T) {
	// A child missing its range after the contact region is never visited.
	track := newTrack(t, tr(0, 10), tr(0, 10))
	require.NoError(t, track.Append(timeline.NewItem(timeline.KindClip, "untimed")))

	got, err := Compute(track, tr(0, 5), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, OverlapBefore, got[0].Type)
}

func TestComputeBeyondEnd(t *testing.T) {
	track := newTrack(t, tr(0, 10))

	got, err := Compute(track, tr(20, 5), 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Compute(timeline.NewTrack("empty"), tr(0, 5), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestComputeMissingRange(t *testing.T) {
	track := timeline.NewTrack("V1")
	require.NoError(t, track.Append(timeline.NewItem(timeline.KindClip, "untimed")))

	got, err := Compute(track, tr(0, 5), 0)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, timeline.ErrMissingTimeRange))
}

func TestComputeMixedRates(t *testing.T) {
	// One second at 24fps followed by one second at 30fps.
	track := timeline.NewTrack("V1")
	require.NoError(t, track.Append(timeline.NewClip("a", tr(0, 24))))
	require.NoError(t, track.Append(timeline.NewClip("b", opentime.TimeRange{
		Start: opentime.New(0, 30), Duration: opentime.New(30, 30),
	})))

	// Probe half a second into the second clip.
	got, err := Compute(track, opentime.TimeRange{Start: opentime.New(45, 30), Duration: opentime.New(1, 30)}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Contained, got[0].Type)
	assert.Equal(t, 1, got[0].Index)
	assert.True(t, got[0].SourceBefore.Duration.Equal(opentime.New(15, 30)))
}
