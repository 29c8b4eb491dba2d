// Package trackedit edits tracks of timed media items.
//
// It exposes the engine's public surface: exact rational times, tracks and
// items, placement edits (overwrite, insert, slice) built as reversible
// event stacks, and an undo history.
package trackedit

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/dshills/trackedit/internal/config"
	"github.com/dshills/trackedit/internal/config/watcher"
	"github.com/dshills/trackedit/internal/engine"
	"github.com/dshills/trackedit/internal/engine/edit"
	"github.com/dshills/trackedit/internal/engine/event"
	"github.com/dshills/trackedit/internal/engine/intersect"
	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
	"github.com/dshills/trackedit/internal/logging"
)

type (
	// Engine plans, applies and records edits.
	Engine = engine.Engine
	// Option configures an Engine.
	Option = engine.Option
	// Tx edits inside Engine.Transaction.
	Tx = engine.Tx

	RationalTime = opentime.RationalTime
	TimeRange    = opentime.TimeRange

	Item     = timeline.Item
	ItemKind = timeline.Kind
	Track    = timeline.Track
	Catalog  = timeline.Catalog

	// Event is one reversible mutation.
	Event = event.Event
	// Stack is an ordered, atomically applied group of events.
	Stack     = event.Stack
	EventKind = event.Kind
	Record    = event.Record
	Registry  = event.Registry
	// UpgradeFunc rewrites the fields of an older record.
	UpgradeFunc = event.UpgradeFunc
	Definition  = event.Definition

	Intersection     = intersect.Intersection
	IntersectionType = intersect.Type

	Planner     = edit.Planner
	Coordinates = edit.Coordinates

	Config = config.Config
	// WatchOption configures Watch.
	WatchOption = watcher.Option
)

// Coordinate spaces for Slice.
const (
	Local  = edit.Local
	Parent = edit.Parent
	Global = edit.Global
)

// Item kinds.
const (
	KindClip = timeline.KindClip
	KindGap  = timeline.KindGap
)

// Errors. Test with errors.Is.
var (
	ErrMissingTimeRange      = timeline.ErrMissingTimeRange
	ErrItemNotFound          = timeline.ErrItemNotFound
	ErrIllegalIndex          = timeline.ErrIllegalIndex
	ErrNotAChildOf           = timeline.ErrNotAChildOf
	ErrUnresolvedReference   = event.ErrUnresolvedReference
	ErrInvalidExecutionOrder = event.ErrInvalidExecutionOrder
	ErrUnknownKind           = event.ErrUnknownKind
	ErrInvalidRate           = opentime.ErrInvalidRate
	ErrNegativeDuration      = opentime.ErrNegativeDuration
	ErrNothingToUndo         = engine.ErrNothingToUndo
	ErrNothingToRedo         = engine.ErrNothingToRedo
	ErrTxDone                = engine.ErrTxDone
)

var (
	// NewEngine creates an Engine.
	NewEngine = engine.New

	WithLogger         = engine.WithLogger
	WithMaxUndoEntries = engine.WithMaxUndoEntries
	WithCoordinates    = engine.WithCoordinates
	WithFillTemplate   = engine.WithFillTemplate
	WithConfig         = engine.WithConfig

	// NewPlanner creates a Planner for callers managing execution themselves.
	NewPlanner = edit.New

	NewTime      = opentime.New
	NewTimeRange = opentime.NewTimeRange

	NewTrack   = timeline.NewTrack
	NewClip    = timeline.NewClip
	NewGap     = timeline.NewGap
	NewCatalog = timeline.NewCatalog

	NewStack        = event.NewStack
	NewRegistry     = event.NewRegistry
	DefaultRegistry = event.DefaultRegistry
	// LuaUpgrade builds an UpgradeFunc from a Lua chunk defining upgrade(fields).
	LuaUpgrade = event.LuaUpgrade
	MarshalRecord   = event.Marshal
	UnmarshalRecord = event.Unmarshal

	// LoadConfig reads configuration files and TRACKEDIT_ variables.
	LoadConfig = config.Load
	// DefaultConfig returns the built-in settings.
	DefaultConfig = config.Default
	// NewLogger builds a logger from the logging section of a Config.
	NewLogger = logging.New

	WithWatchDebounce = watcher.WithDebounce
	WithWatchLogger   = watcher.WithLogger
)

// Open loads configuration from paths and the environment, builds a
// logger from it and returns an engine using both.
func Open(paths ...string) (*Engine, error) {
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return engine.New(engine.WithConfig(cfg), engine.WithLogger(logger)), nil
}

// Watch reloads the configuration file at path into e whenever it changes,
// until ctx is done.
func Watch(ctx context.Context, path string, e *Engine, opts ...WatchOption) error {
	return watcher.Watch(ctx, path, e.ApplyConfig, opts...)
}
