package engine

import (
	"go.uber.org/zap"

	"github.com/dshills/trackedit/internal/config"
	"github.com/dshills/trackedit/internal/engine/edit"
	"github.com/dshills/trackedit/internal/engine/event"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

// DefaultMaxUndoEntries is the undo history size when none is configured.
const DefaultMaxUndoEntries = 1000

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLogger sets the logger shared by the planner, stacks and history.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithCoordinates sets the default coordinate space for Slice.
func WithCoordinates(coords edit.Coordinates) Option {
	return func(e *Engine) {
		e.coords = coords
	}
}

// WithFillTemplate sets the item cloned to pad tracks during overwrite and
// insert. Without a template the engine creates gaps.
func WithFillTemplate(template *timeline.Item) Option {
	return func(e *Engine) {
		e.fillTemplate = template
	}
}

// WithRegistry sets the event registry used by Encode and Decode.
func WithRegistry(r *event.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithConfig applies edit and history settings from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		if cfg == nil {
			return
		}
		e.coords = cfg.Coordinates()
		e.fillName = cfg.Edit.FillName
		if cfg.History.MaxEntries > 0 {
			e.maxUndoEntries = cfg.History.MaxEntries
		}
	}
}
