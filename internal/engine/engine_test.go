package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/trackedit/internal/config"
	"github.com/dshills/trackedit/internal/engine/edit"
	"github.com/dshills/trackedit/internal/engine/event"
	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

func rt(v int64) opentime.RationalTime { return opentime.New(v, 24) }

func clip(name string, start, dur int64) *timeline.Item {
	return timeline.NewClip(name, opentime.TimeRange{Start: rt(start), Duration: rt(dur)})
}

func trackOf(t *testing.T, items ...*timeline.Item) *timeline.Track {
	t.Helper()
	track := timeline.NewTrack("V1")
	for _, item := range items {
		require.NoError(t, track.Append(item))
	}
	return track
}

// layout renders each child as name:start+duration in local frames.
func layout(t *testing.T, track *timeline.Track) []string {
	t.Helper()
	var out []string
	for _, c := range track.Children() {
		r, ok := c.SourceRange()
		require.True(t, ok, "child %s has no range", c)
		out = append(out, fmt.Sprintf("%s:%d+%d", c.Name(), r.Start.Value, r.Duration.Value))
	}
	return out
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	return New(append([]Option{WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)...)
}

func TestOverwriteUndoRedo(t *testing.T) {
	track := trackOf(t, clip("A", 0, 60))
	original := track.Snapshot()
	e := newEngine(t)

	s, err := e.Overwrite(clip("C", 0, 40), track, rt(10))
	require.NoError(t, err)
	assert.Equal(t, event.StateRan, s.State())
	assert.Equal(t, []string{"A:0+10", "C:0+40", "A:50+10"}, layout(t, track))
	assert.True(t, e.CanUndo())

	require.NoError(t, e.Undo())
	assert.True(t, original.Equal(track.Snapshot()))
	assert.True(t, e.CanRedo())

	require.NoError(t, e.Redo())
	assert.Equal(t, []string{"A:0+10", "C:0+40", "A:50+10"}, layout(t, track))
}

func TestInsertUndo(t *testing.T) {
	track := trackOf(t, clip("A", 100, 30))
	original := track.Snapshot()
	e := newEngine(t)

	_, err := e.Insert(clip("C", 0, 5), track, rt(12))
	require.NoError(t, err)
	assert.Equal(t, []string{"A:100+12", "C:0+5", "A:112+18"}, layout(t, track))

	require.NoError(t, e.Undo())
	assert.True(t, original.Equal(track.Snapshot()))
}

func TestSliceDefaultCoordinates(t *testing.T) {
	a := clip("A", 100, 20)
	track := trackOf(t, clip("X", 0, 10), a)
	e := newEngine(t)

	_, err := e.Slice(a, rt(17))
	require.NoError(t, err)
	assert.Equal(t, []string{"X:0+10", "A:100+7", "A:107+13"}, layout(t, track))

	require.NoError(t, e.Undo())
	assert.Equal(t, []string{"X:0+10", "A:100+20"}, layout(t, track))
}

func TestSliceInLocal(t *testing.T) {
	a := clip("A", 100, 20)
	track := trackOf(t, clip("X", 0, 10), a)
	e := newEngine(t, WithCoordinates(edit.Local))

	_, err := e.Slice(a, rt(105))
	require.NoError(t, err)
	assert.Equal(t, []string{"X:0+10", "A:100+5", "A:105+15"}, layout(t, track))

	_, err = e.SliceIn(track.Children()[2], rt(27), edit.Parent)
	require.NoError(t, err)
	assert.Equal(t, []string{"X:0+10", "A:100+5", "A:105+12", "A:117+3"}, layout(t, track))
}

func TestEmptySliceNotRecorded(t *testing.T) {
	a := clip("A", 0, 10)
	track := trackOf(t, a)
	e := newEngine(t)

	s, err := e.Slice(a, rt(0))
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
	assert.False(t, e.CanUndo())
	assert.Equal(t, 1, track.Len())
}

func TestFailedEditNotRecorded(t *testing.T) {
	other := trackOf(t, clip("Z", 0, 1))
	placed := other.Children()[0]
	track := trackOf(t, clip("A", 0, 60))
	original := track.Snapshot()
	e := newEngine(t)

	_, err := e.Overwrite(placed, track, rt(10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, timeline.ErrAlreadyParented), "got %v", err)
	assert.True(t, original.Equal(track.Snapshot()))
	assert.False(t, e.CanUndo())

	_, err = e.Insert(nil, track, rt(0))
	assert.True(t, errors.Is(err, event.ErrUnresolvedReference))
}

func TestPreviewThenApply(t *testing.T) {
	track := trackOf(t, clip("A", 0, 60))
	original := track.Snapshot()
	e := newEngine(t)

	s, err := e.PreviewOverwrite(clip("C", 0, 40), track, rt(10))
	require.NoError(t, err)
	assert.Equal(t, event.StateIdle, s.State())
	assert.True(t, original.Equal(track.Snapshot()))
	assert.False(t, e.CanUndo())

	require.NoError(t, e.Apply(s))
	assert.Equal(t, []string{"A:0+10", "C:0+40", "A:50+10"}, layout(t, track))

	require.NoError(t, e.Undo())
	assert.True(t, original.Equal(track.Snapshot()))

	assert.True(t, errors.Is(e.Apply(nil), event.ErrUnresolvedReference))
}

func TestPreviewInsertAndSlice(t *testing.T) {
	a := clip("A", 0, 20)
	track := trackOf(t, a)
	original := track.Snapshot()
	e := newEngine(t)

	ins, err := e.PreviewInsert(clip("C", 0, 5), track, rt(4))
	require.NoError(t, err)
	assert.Equal(t, event.StateIdle, ins.State())

	sl, err := e.PreviewSlice(a, rt(8))
	require.NoError(t, err)
	assert.Equal(t, 3, sl.Len())

	assert.True(t, original.Equal(track.Snapshot()))
}

func TestFillTemplateAndName(t *testing.T) {
	template := clip("black", 500, 1)
	track := timeline.NewTrack("V1")
	e := newEngine(t, WithFillTemplate(template))

	_, err := e.Overwrite(clip("C", 0, 5), track, rt(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"black:0+3", "C:0+5"}, layout(t, track))

	named := newEngine(t, WithConfig(&config.Config{
		Edit:    config.EditConfig{Coordinates: "parent", FillName: "filler"},
		History: config.HistoryConfig{MaxEntries: 5},
	}))
	other := timeline.NewTrack("V2")
	_, err = named.Insert(clip("C", 0, 5), other, rt(2))
	require.NoError(t, err)
	assert.Equal(t, timeline.KindGap, other.Children()[0].Kind())
	assert.Equal(t, "filler", other.Children()[0].Name())
	assert.Equal(t, 5, named.History().MaxEntries())
}

func TestApplyConfig(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, edit.Parent, e.Coordinates())
	assert.Equal(t, DefaultMaxUndoEntries, e.History().MaxEntries())

	cfg := config.Default()
	cfg.Edit.Coordinates = "local"
	cfg.Edit.FillName = "pad"
	cfg.History.MaxEntries = 2
	e.ApplyConfig(cfg)
	e.ApplyConfig(nil)

	assert.Equal(t, edit.Local, e.Coordinates())
	assert.Equal(t, 2, e.History().MaxEntries())

	track := timeline.NewTrack("V1")
	_, err := e.Insert(clip("C", 0, 1), track, rt(1))
	require.NoError(t, err)
	assert.Equal(t, "pad", track.Children()[0].Name())
}

func TestTransaction(t *testing.T) {
	track := trackOf(t, clip("A", 0, 60))
	original := track.Snapshot()
	e := newEngine(t)

	err := e.Transaction("two overwrites", func(tx *Tx) error {
		if _, err := tx.Overwrite(clip("B", 0, 5), track, rt(0)); err != nil {
			return err
		}
		_, err := tx.Overwrite(clip("C", 0, 5), track, rt(30))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, e.History().UndoCount())

	require.NoError(t, e.Undo())
	assert.True(t, original.Equal(track.Snapshot()))

	boom := errors.New("boom")
	err = e.Transaction("failing", func(tx *Tx) error {
		if _, err := tx.Insert(clip("D", 0, 5), track, rt(0)); err != nil {
			return err
		}
		return boom
	})
	assert.True(t, errors.Is(err, boom))
	assert.True(t, original.Equal(track.Snapshot()))
	assert.False(t, e.CanUndo())
}

func TestTransactionTxDoneAfterReturn(t *testing.T) {
	track := trackOf(t, clip("A", 0, 10))
	e := newEngine(t)

	var kept *Tx
	require.NoError(t, e.Transaction("noop", func(tx *Tx) error {
		kept = tx
		return nil
	}))

	_, err := kept.Insert(clip("C", 0, 1), track, rt(0))
	assert.True(t, errors.Is(err, ErrTxDone))
	assert.True(t, errors.Is(kept.Apply(event.NewStack("late")), ErrTxDone))
	assert.Equal(t, 1, track.Len())
}

func TestFailedTransactionKeepsConcurrentEdits(t *testing.T) {
	z := clip("Z", 0, 100)
	other := trackOf(t, z)
	track := trackOf(t, clip("A", 0, 60))
	e := newEngine(t)

	sliced := make(chan error, 1)
	boom := errors.New("boom")
	err := e.Transaction("failing", func(tx *Tx) error {
		go func() {
			_, err := e.Slice(z, rt(40))
			sliced <- err
		}()
		if _, err := tx.Insert(clip("D", 0, 5), track, rt(0)); err != nil {
			return err
		}
		return boom
	})
	require.True(t, errors.Is(err, boom))
	require.NoError(t, <-sliced)

	assert.Equal(t, []string{"Z:0+40", "Z:40+60"}, layout(t, other))
	assert.Equal(t, []string{"A:0+60"}, layout(t, track))
	assert.Equal(t, 1, e.History().UndoCount())

	require.NoError(t, e.Undo())
	assert.Equal(t, []string{"Z:0+100"}, layout(t, other))
}

func TestSupersededEvictionKeepsUndo(t *testing.T) {
	a := clip("A", 0, 10)
	track := trackOf(t, clip("X", 0, 10), a, clip("Y", 0, 10))
	e := newEngine(t, WithMaxUndoEntries(2))

	_, err := e.Overwrite(clip("B", 0, 10), track, rt(10))
	require.NoError(t, err)
	_, err = e.Overwrite(a, track, rt(10))
	require.NoError(t, err)
	_, err = e.Overwrite(clip("C", 0, 10), track, rt(10))
	require.NoError(t, err)

	assert.False(t, a.IsDisposed())
	require.NoError(t, e.Undo())
	assert.Equal(t, []string{"X:0+10", "A:0+10", "Y:0+10"}, layout(t, track))
}

func TestUndoRedoEmpty(t *testing.T) {
	e := newEngine(t)
	assert.True(t, errors.Is(e.Undo(), ErrNothingToUndo))
	assert.True(t, errors.Is(e.Redo(), ErrNothingToRedo))
}

func TestEncodeDecodeAppliedEdit(t *testing.T) {
	track := trackOf(t, clip("A", 0, 60))
	original := track.Snapshot()
	e := newEngine(t)

	s, err := e.Overwrite(clip("C", 0, 40), track, rt(10))
	require.NoError(t, err)

	rec, err := e.Encode(s)
	require.NoError(t, err)
	data, err := event.Marshal(rec)
	require.NoError(t, err)
	back, err := event.Unmarshal(data)
	require.NoError(t, err)

	decoded, err := e.Decode(back, timeline.NewCatalog(track))
	require.NoError(t, err)
	assert.Equal(t, event.StateRan, decoded.State())

	require.NoError(t, decoded.Revert())
	assert.True(t, original.Equal(track.Snapshot()))
}

func TestConcurrentEdits(t *testing.T) {
	e := newEngine(t)
	tracks := make([]*timeline.Track, 8)
	for i := range tracks {
		tracks[i] = timeline.NewTrack(fmt.Sprintf("V%d", i))
	}

	var wg sync.WaitGroup
	for _, track := range tracks {
		wg.Add(1)
		go func(track *timeline.Track) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := e.Insert(clip("C", 0, 2), track, rt(0))
				assert.NoError(t, err)
			}
		}(track)
	}
	wg.Wait()

	assert.Equal(t, 80, e.History().UndoCount())
	for e.CanUndo() {
		require.NoError(t, e.Undo())
	}
	for _, track := range tracks {
		assert.Equal(t, 0, track.Len())
	}
}
