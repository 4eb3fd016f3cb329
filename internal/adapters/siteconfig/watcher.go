package siteconfig

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
)

// DefaultDebounce is how long the file must stay quiet before a reload.
const DefaultDebounce = 250 * time.Millisecond

// Reloader is what the Watcher drives.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher reloads content when the file changes. It watches the parent
// directory rather than the file itself, so editors that save through a
// rename keep triggering reloads.
type Watcher struct {
	path     string
	target   Reloader
	debounce time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching the directory of path. Call Run to process
// events.
func NewWatcher(path string, target Reloader, debounce time.Duration, clock clockwork.Clock, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving content path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating content watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		target:   target,
		debounce: debounce,
		clock:    clock,
		logger:   logger,
		watcher:  fw,
	}, nil
}

// Run processes file events until ctx is done, then closes the underlying
// watcher. Bursts of events within the debounce window cause one reload.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("closing content watcher", slog.Any("error", err))
		}
	}()

	var (
		timer   clockwork.Timer
		timerCh <-chan time.Time
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

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !w.relevant(ev) {
				continue
			}

			w.logger.Debug("content file event", slog.String("op", ev.Op.String()))

			if timer == nil {
				timer = w.clock.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.Chan()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.logger.Error("content watcher error", slog.Any("error", err))

		case <-timerCh:
			timerCh = nil
			// Reload logs and reports its own failures.
			_ = w.target.Reload(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}

	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
