// Package watch reports timezone changes in the config file.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chrisedwards/rangekit/internal/config"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called with the previous and new configured timezone.
type ChangeFunc func(ctx context.Context, oldZone, newZone string, cfg *config.Config)

// Watcher watches one config file. Its directory is watched rather than the
// file itself so that atomic rename-on-save is seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	fs       *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reloaded.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New starts watching configPath. Events that arrive before Run are kept.
func New(configPath string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		fs:       fs,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Run reloads the config after each settled write and calls onChange when the
// timezone differs from the last one seen, starting from zone. It blocks until
// ctx is canceled and always closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context, zone string, onChange ChangeFunc) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)
		case <-timer.C:
			cfg, err := config.Load(w.path)
			if err != nil {
				w.logger.Warn("ignoring unreadable config", "path", w.path, "error", err)
				continue
			}
			if cfg.Timezone == zone {
				w.logger.Debug("config changed, timezone unchanged", "timezone", zone)
				continue
			}
			w.logger.Info("timezone changed", "from", zone, "to", cfg.Timezone)
			old := zone
			zone = cfg.Timezone
			onChange(ctx, old, zone, cfg)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
