// Package watcher reloads a configuration file when it changes on disk.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dshills/trackedit/internal/config"
)

// DefaultDebounce is the quiet period after the last change before a reload.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads one configuration file.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *zap.SugaredLogger
	load     func(path string) (*config.Config, error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for reload failures.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDebounce sets the quiet period between the last change and the reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for the configuration file at path.
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		logger:   zap.NewNop().Sugar(),
		load: func(path string) (*config.Config, error) {
			return config.Load(path)
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch is shorthand for New(path, opts...).Run(ctx, fn).
func Watch(ctx context.Context, path string, fn func(*config.Config), opts ...Option) error {
	return New(path, opts...).Run(ctx, fn)
}

// Run blocks until ctx is done, calling fn with each successfully
// reloaded configuration. Files that fail to load or validate are logged
// and skipped; fn keeps the last good configuration.
func (w *Watcher) Run(ctx context.Context, fn func(*config.Config)) error {
	target, err := filepath.Abs(w.path)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", w.path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer fsw.Close()

	// Watch the directory so atomic saves (write temp, rename) are seen.
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "watching %s", filepath.Dir(target))
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("config watcher error", "path", target, "error", err)

		case <-fire:
			fire = nil
			cfg, err := w.load(target)
			if err != nil {
				w.logger.Warnw("config reload failed", "path", target, "error", err)
				continue
			}
			w.logger.Debugw("config reloaded", "path", target)
			fn(cfg)
		}
	}
}
