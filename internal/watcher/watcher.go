// Package watcher provides debounced file system watching for board storage
// directories.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// debounceDelay is the time to wait after the last file event before triggering
// a callback. This coalesces a temp-file write plus rename into a single
// notification.
const debounceDelay = 100 * time.Millisecond

// Watcher watches storage directories for changes and invokes a callback
// with debouncing.
type Watcher struct {
	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	delay    time.Duration
	log      log.FieldLogger
}

// New creates a Watcher that monitors the given paths for changes.
// The callback is invoked (debounced) whenever a relevant file changes.
func New(paths []string, callback func(), logger log.FieldLogger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	if logger == nil {
		logger = log.StandardLogger()
	}

	return &Watcher{
		fsw:      fsw,
		callback: callback,
		delay:    debounceDelay,
		log:      logger.WithField("component", "watcher"),
	}, nil
}

// Run starts the watch loop. It blocks until the context is canceled.
// Errors from the underlying watcher are passed to the optional errFn callback.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !Relevant(event) {
				continue
			}
			w.log.WithField("path", event.Name).Debugf("change detected: %s", event.Op)
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Relevant reports whether an event should trigger a reload. Hidden files
// (locks, in-flight temp files) and chmod-only events are ignored.
func Relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !strings.HasPrefix(filepath.Base(event.Name), ".")
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
