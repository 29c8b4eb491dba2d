// Package engine provides the editing facade for trackedit.
//
// The engine package combines placement planning, undoable execution and
// configuration into one thread-safe API for editing tracks of timed items.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - opentime: exact rational times and half-open time ranges
//   - timeline: items, tracks and the id catalog
//   - intersect: classification of track children against a query range
//   - event: reversible edit events, stacks and the serialization registry
//   - edit: the planner that turns overwrite, insert and slice into stacks
//   - history: bounded undo/redo with grouping
//
// # Basic Usage
//
//	e := engine.New()
//
//	track := timeline.NewTrack("V1")
//	a := timeline.NewClip("A", opentime.TimeRange{
//		Start:    opentime.New(0, 24),
//		Duration: opentime.New(60, 24),
//	})
//	track.Append(a)
//
//	// Place C over frames 10-50, splitting A around it.
//	e.Overwrite(c, track, opentime.New(10, 24))
//
//	// Split an item at a track instant.
//	e.Slice(a, opentime.New(5, 24))
//
//	e.Undo()
//	e.Redo()
//
// # Previews
//
// Preview variants return the planned stack without touching the track.
// A preview can be inspected, then applied with Apply:
//
//	s, _ := e.PreviewInsert(c, track, opentime.New(12, 24))
//	for _, ev := range s.Events() {
//		fmt.Println(ev.Kind())
//	}
//	e.Apply(s)
//
// # Failure
//
// A failed edit leaves the track as it was and records nothing. Planning
// errors (missing ranges, nil references) are returned before any change;
// execution errors roll back the events already run.
//
// # Configuration
//
// Settings come from config.Load and can be swapped at runtime:
//
//	cfg, _ := config.Load("trackedit.toml")
//	e := engine.New(engine.WithConfig(cfg))
//	go watcher.Watch(ctx, "trackedit.toml", e.ApplyConfig)
package engine
