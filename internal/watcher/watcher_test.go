package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestRelevant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to entry", fsnotify.Event{Name: "/b/store/tasks", Op: fsnotify.Write}, true},
		{"rename into place", fsnotify.Event{Name: "/b/store/tasks", Op: fsnotify.Rename}, true},
		{"lock file", fsnotify.Event{Name: "/b/store/.lock", Op: fsnotify.Write}, false},
		{"temp file", fsnotify.Event{Name: "/b/store/.tasks.123.tmp", Op: fsnotify.Create}, false},
		{"chmod only", fsnotify.Event{Name: "/b/store/tasks", Op: fsnotify.Chmod}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Relevant(tt.event); got != tt.want {
				t.Errorf("Relevant(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	logger, _ := test.NewNullLogger()

	var calls atomic.Int32
	fired := make(chan struct{}, 10)
	w, err := New([]string{dir}, func() {
		calls.Add(1)
		fired <- struct{}{}
	}, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	path := filepath.Join(dir, "tasks")
	for i := range 3 {
		if err := os.WriteFile(path, []byte{byte('0' + i)}, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
	}
	time.Sleep(3 * debounceDelay)
	if n := calls.Load(); n != 1 {
		t.Errorf("callback invoked %d times, want 1", n)
	}
}
