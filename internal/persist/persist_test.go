package persist

import (
	"context"
	"errors"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/kv"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

type taskList []task.Task

func (l taskList) Flatten() []task.Task { return l }

func newAdapter(t *testing.T, store kv.Store) (*Adapter, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	return New(store, logger), hook
}

func TestLoadMissingEntry(t *testing.T) {
	t.Parallel()
	a, hook := newAdapter(t, kv.NewMemoryStore(0))

	got := a.Load(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("Load = %#v, want empty non-nil slice", got)
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("missing entry should not log, got %d entries", len(hook.AllEntries()))
	}
}

func TestLoadCorruptEntry(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{`{"id":"1"}`, `not json`, `null`, `"tasks"`} {
		store := kv.NewMemoryStore(0)
		_ = store.Set(context.Background(), kv.TasksKey, []byte(raw))
		a, hook := newAdapter(t, store)

		if got := a.Load(context.Background()); len(got) != 0 {
			t.Errorf("Load(%s) = %v, want empty", raw, got)
		}
		entry := hook.LastEntry()
		if entry == nil || entry.Level != log.WarnLevel {
			t.Errorf("Load(%s): expected a warning to be logged", raw)
		}
	}
}

func TestLoadDropsMalformedRecords(t *testing.T) {
	t.Parallel()
	raw := `[
		{"id":"a","title":"keep","progress":55,"deadline":"2024-05-10"},
		{"title":"no id","progress":1},
		{"id":"b","title":"","progress":1},
		{"id":"c","title":"fraction","progress":1.5},
		{"id":"d","title":"bad date","progress":1,"deadline":"10/05/2024"},
		{"id":"a","title":"dup","progress":1},
		42,
		{"id":7,"title":"numeric id","progress":250},
		{"id":"e","title":"no progress"}
	]`
	store := kv.NewMemoryStore(0)
	_ = store.Set(context.Background(), kv.TasksKey, []byte(raw))
	a, hook := newAdapter(t, store)

	got := a.Load(context.Background())

	wantIDs := []string{"a", "7", "e"}
	if len(got) != len(wantIDs) {
		t.Fatalf("Load returned %d tasks (%v), want %d", len(got), got, len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("task %d id = %q, want %q", i, got[i].ID, id)
		}
	}
	if got[0].Title != "keep" || got[0].Deadline == nil || !got[0].Deadline.Same(date.New(2024, 5, 10)) {
		t.Errorf("first task decoded wrong: %+v", got[0])
	}
	if got[1].Progress != 100 {
		t.Errorf("progress not clamped: %d", got[1].Progress)
	}
	if got[2].Progress != 0 {
		t.Errorf("missing progress = %d, want 0", got[2].Progress)
	}

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel {
			warnings++
		}
	}
	if warnings != 6 {
		t.Errorf("logged %d warnings, want 6", warnings)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()
	a, _ := newAdapter(t, kv.NewMemoryStore(0))
	due := date.New(2024, 5, 10)
	in := taskList{
		{ID: "1", Title: "Write docs", Progress: 90},
		{ID: "2", Title: "Ship", Progress: 10, Deadline: &due},
	}

	if err := a.Save(context.Background(), in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out := a.Load(context.Background())
	if len(out) != len(in) {
		t.Fatalf("round trip lost tasks: %v", out)
	}
	for i := range in {
		if out[i].ID != in[i].ID || out[i].Title != in[i].Title || out[i].Progress != in[i].Progress {
			t.Errorf("task %d = %+v, want %+v", i, out[i], in[i])
		}
	}
	if out[1].Deadline == nil || !out[1].Deadline.Same(due) {
		t.Errorf("deadline lost: %+v", out[1])
	}
	if out[0].Deadline != nil {
		t.Errorf("unexpected deadline: %v", out[0].Deadline)
	}
}

func TestSaveEmptyWritesList(t *testing.T) {
	t.Parallel()
	store := kv.NewMemoryStore(0)
	a, _ := newAdapter(t, store)
	if err := a.SaveTasks(context.Background(), nil); err != nil {
		t.Fatalf("SaveTasks: %v", err)
	}
	data, _ := store.Get(context.Background(), kv.TasksKey)
	if string(data) != "[]" {
		t.Errorf("stored %q, want []", data)
	}
}

func TestSaveQuotaExceeded(t *testing.T) {
	t.Parallel()
	a, hook := newAdapter(t, kv.NewMemoryStore(8))

	err := a.SaveTasks(context.Background(), []task.Task{{ID: "1", Title: "too big to fit", Progress: 0}})
	if !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("SaveTasks = %v, want ErrWriteFailure", err)
	}
	if !errors.Is(err, kv.ErrQuotaExceeded) {
		t.Errorf("SaveTasks = %v, want wrapped ErrQuotaExceeded", err)
	}
	if e := hook.LastEntry(); e == nil || e.Level != log.ErrorLevel {
		t.Error("expected an error to be logged")
	}
}

func TestNotes(t *testing.T) {
	t.Parallel()
	a, _ := newAdapter(t, kv.NewMemoryStore(0))
	ctx := context.Background()

	if got := a.LoadNotes(ctx); got != "" {
		t.Fatalf("LoadNotes on empty store = %q", got)
	}
	if err := a.SaveNotes(ctx, "# Sprint\n- call Bob"); err != nil {
		t.Fatalf("SaveNotes: %v", err)
	}
	if got := a.LoadNotes(ctx); got != "# Sprint\n- call Bob" {
		t.Errorf("LoadNotes = %q", got)
	}
}

func TestPinnedStageRoundTrip(t *testing.T) {
	t.Parallel()
	store := kv.NewMemoryStore(0)
	a, _ := newAdapter(t, store)
	in := taskList{{ID: "1", Title: "Dragged", Progress: 10, Pinned: stage.Completed}}

	if err := a.Save(context.Background(), in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, _ := store.Get(context.Background(), kv.TasksKey)
	if want := `"stage":"Completed"`; !strings.Contains(string(raw), want) {
		t.Errorf("stored blob %s lacks %s", raw, want)
	}
	if out := a.Load(context.Background()); len(out) != 1 || out[0].Pinned != stage.Completed {
		t.Errorf("Load = %+v", out)
	}

	// An unknown pin is ignored, not fatal.
	_ = store.Set(context.Background(), kv.TasksKey, []byte(`[{"id":"1","title":"x","progress":5,"stage":"Backlog"}]`))
	if out := a.Load(context.Background()); len(out) != 1 || out[0].Pinned != "" {
		t.Errorf("Load with unknown pin = %+v", out)
	}
}
