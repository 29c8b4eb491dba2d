package event

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/trackedit/internal/engine/timeline"
)

// overwriteFixture builds A[0,60) and an Idle stack placing C over [10,50).
func overwriteFixture(t *testing.T) (*timeline.Track, *Stack, *timeline.Catalog) {
	t.Helper()
	a, c := clip("A", 0, 60), clip("C", 0, 40)
	track := trackOf(t, a)
	dup, err := a.Clone()
	require.NoError(t, err)
	dup.SetName("A2")

	before, after := tr(0, 10), tr(50, 10)
	s := NewStack("overwrite",
		NewModifyRange(a, &before),
		NewInsert(1, track, dup),
		NewModifyRange(dup, &after),
		NewInsert(1, track, c),
	)

	cat := timeline.NewCatalog(track)
	cat.AddItem(dup, c)
	return track, s, cat
}

func roundTrip(t *testing.T, reg *Registry, ev Event, res Resolver) Event {
	t.Helper()
	rec, err := reg.Encode(ev)
	require.NoError(t, err)
	data, err := Marshal(rec)
	require.NoError(t, err)
	rec, err = Unmarshal(data)
	require.NoError(t, err)
	out, err := reg.Decode(rec, res)
	require.NoError(t, err)
	return out
}

func TestDefaultRegistryKinds(t *testing.T) {
	reg := DefaultRegistry()
	assert.Same(t, reg, DefaultRegistry())
	assert.Equal(t, []Kind{KindStack, KindInsert, KindModifyRange, KindRemove}, reg.Kinds())

	def, err := reg.Lookup(KindInsert)
	require.NoError(t, err)
	assert.Equal(t, 1, def.Version)
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Definition{Kind: KindInsert, Constructor: decodeInsert}))

	err := reg.Register(Definition{Kind: KindInsert, Constructor: decodeInsert})
	assert.True(t, errors.Is(err, ErrDuplicateKind))

	_, err = reg.Lookup("Transition")
	assert.True(t, errors.Is(err, ErrUnknownKind))

	_, err = reg.Decode(Record{Kind: "Transition", Version: 1}, nil)
	assert.True(t, errors.Is(err, ErrUnknownKind))

	_, err = reg.Encode(NewStack("s"))
	assert.True(t, errors.Is(err, ErrUnknownKind))

	assert.Error(t, reg.Register(Definition{Kind: "NoCtor"}))
	assert.True(t, errors.Is(reg.AddUpgrade("Missing", 2, nil), ErrUnknownKind))
	assert.Error(t, reg.AddUpgrade(KindInsert, 2, nil))
}

func TestPreviewedStackRoundTrip(t *testing.T) {
	track, s, cat := overwriteFixture(t)

	decoded := roundTrip(t, DefaultRegistry(), s, cat)
	stack, ok := decoded.(*Stack)
	require.True(t, ok)
	assert.Equal(t, "overwrite", stack.Name())
	assert.Equal(t, 4, stack.Len())

	require.NoError(t, stack.Run())
	assert.Equal(t, []string{"A", "C", "A2"}, names(track))

	durations := []int64{10, 40, 10}
	for i, child := range track.Children() {
		d, err := child.Duration()
		require.NoError(t, err)
		assert.Equal(t, durations[i], d.Value)
	}
	last, _ := track.Children()[2].SourceRange()
	assert.Equal(t, int64(50), last.Start.Value)
}

func TestRanStackRoundTripReverts(t *testing.T) {
	a, b := clip("A", 0, 20), clip("B", 0, 20)
	track := trackOf(t, a, b)
	original := track.Snapshot()
	cat := timeline.NewCatalog(track)

	r := tr(0, 5)
	s := NewStack("edit", NewRemove(b), NewModifyRange(a, &r))
	require.NoError(t, s.Run())

	decoded := roundTrip(t, DefaultRegistry(), s, cat)
	assert.Equal(t, StateRan, decoded.State())

	require.NoError(t, decoded.Revert())
	assert.True(t, original.Equal(track.Snapshot()))
}

func TestDecodeUnresolvedReference(t *testing.T) {
	_, s, _ := overwriteFixture(t)
	rec, err := DefaultRegistry().Encode(s)
	require.NoError(t, err)

	_, err = DefaultRegistry().Decode(rec, timeline.NewCatalog())
	assert.True(t, errors.Is(err, ErrUnresolvedReference))

	_, err = DefaultRegistry().Decode(rec, nil)
	assert.True(t, errors.Is(err, ErrUnresolvedReference))
}

func TestUnmarshalMalformed(t *testing.T) {
	_, err := Unmarshal([]byte("version: 1\n"))
	assert.True(t, errors.Is(err, ErrMalformedRecord))

	_, err = Unmarshal([]byte("kind: [\n"))
	assert.True(t, errors.Is(err, ErrMalformedRecord))
}

func TestUpgradesRunOldestFirst(t *testing.T) {
	var order []int
	step := func(v int) UpgradeFunc {
		return func(fields map[string]any) (map[string]any, error) {
			order = append(order, v)
			return fields, nil
		}
	}

	reg := NewRegistry()
	require.NoError(t, reg.Register(Definition{
		Kind:        KindStack,
		Version:     4,
		Constructor: decodeStack,
		Upgrades:    map[int]UpgradeFunc{4: step(4), 2: step(2)},
	}))
	require.NoError(t, reg.AddUpgrade(KindStack, 3, step(3)))

	_, err := reg.Decode(Record{Kind: KindStack, Version: 1, State: "Idle"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, order)

	order = nil
	_, err = reg.Decode(Record{Kind: KindStack, Version: 3, State: "Idle"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, order)

	_, err = reg.Decode(Record{Kind: KindStack, Version: 5}, nil)
	assert.True(t, errors.Is(err, ErrMalformedRecord))
}

func TestLuaUpgradeRenamesField(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Definition{Kind: KindModifyRange, Version: 2, Constructor: decodeModifyRange}))
	require.NoError(t, reg.AddLuaUpgrade(KindModifyRange, 2, `
function upgrade(fields)
  fields.item = fields.target
  fields.target = nil
end
`))
	assert.Error(t, reg.AddLuaUpgrade(KindModifyRange, 2, "function upgrade("))
	assert.True(t, errors.Is(reg.AddLuaUpgrade(KindInsert, 2, "function upgrade(f) end"), ErrUnknownKind))

	a := clip("A", 0, 20)
	track := trackOf(t, a)
	old := Record{
		Kind:    KindModifyRange,
		Version: 1,
		State:   "Idle",
		Fields: map[string]any{
			"target": a.ID().String(),
			"range": map[string]any{
				"start":    map[string]any{"value": 2, "rate": 24},
				"duration": map[string]any{"value": 8, "rate": 24},
			},
		},
	}

	ev, err := reg.Decode(old, timeline.NewCatalog(track))
	require.NoError(t, err)
	require.NoError(t, ev.Run())

	got, _ := a.SourceRange()
	assert.True(t, got.Equal(tr(2, 8)))
}

func TestLuaUpgradeReturnsTable(t *testing.T) {
	up, err := LuaUpgrade(`
function upgrade(fields)
  return { index = fields.position * 2, tags = { "a", "b" } }
end
`)
	require.NoError(t, err)

	out, err := up(map[string]any{"position": 3})
	require.NoError(t, err)
	assert.Equal(t, int64(6), out["index"])
	assert.Equal(t, []any{"a", "b"}, out["tags"])
	_, ok := out["position"]
	assert.False(t, ok)
}

func TestLuaUpgradeErrors(t *testing.T) {
	_, err := LuaUpgrade("function upgrade(")
	assert.Error(t, err)

	_, err = LuaUpgrade("x = 1")
	assert.Error(t, err)

	up, err := LuaUpgrade(`function upgrade(fields) os.execute("true") end`)
	require.NoError(t, err)
	_, err = up(map[string]any{})
	assert.Error(t, err, "os library must not be available")

	up, err = LuaUpgrade(`function upgrade(fields) return 42 end`)
	require.NoError(t, err)
	_, err = up(map[string]any{})
	assert.Error(t, err)
}
