package board

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

func sample() []task.Task {
	return []task.Task{
		{ID: "a", Title: "Write outline", Progress: 0},
		{ID: "b", Title: "Review", Progress: 40},
		{ID: "c", Title: "Build", Progress: 41},
		{ID: "d", Title: "Test", Progress: 80},
		{ID: "e", Title: "Release", Progress: 81},
		{ID: "f", Title: "Celebrate", Progress: 100},
	}
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHydrateClassifies(t *testing.T) {
	t.Parallel()
	b := Hydrate(sample())

	want := map[stage.Stage][]string{
		stage.ToDo:       {"a", "b"},
		stage.InProgress: {"c", "d"},
		stage.Completed:  {"e", "f"},
	}
	for s, w := range want {
		if got := ids(b.Column(s)); !equalIDs(got, w) {
			t.Errorf("%s = %v, want %v", s, got, w)
		}
	}
}

func TestHydrateEmptyAndDuplicates(t *testing.T) {
	t.Parallel()
	b := Hydrate(nil)
	for _, s := range stage.All() {
		if b.Column(s) == nil || len(b.Column(s)) != 0 {
			t.Errorf("%s should be an empty column", s)
		}
	}

	b = Hydrate([]task.Task{
		{ID: "x", Title: "first", Progress: 10},
		{ID: "x", Title: "second", Progress: 90},
	})
	if b.Len() != 1 || b.Column(stage.ToDo)[0].Title != "first" {
		t.Errorf("duplicate handling wrong: %v", b)
	}
}

func TestHydrateFlattenRoundTrip(t *testing.T) {
	t.Parallel()
	in := sample()
	b := Hydrate(in)
	again := Hydrate(b.Flatten())
	for _, s := range stage.All() {
		if !equalIDs(ids(b.Column(s)), ids(again.Column(s))) {
			t.Errorf("%s changed across round trip: %v vs %v", s, ids(b.Column(s)), ids(again.Column(s)))
		}
	}
}

func TestMoveTask(t *testing.T) {
	t.Parallel()
	s := NewStore(sample())

	b, err := s.MoveTask("a", stage.ToDo, stage.Completed, MoveOptions{})
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	if got := ids(b.Column(stage.Completed)); !equalIDs(got, []string{"e", "f", "a"}) {
		t.Errorf("Completed = %v", got)
	}
	if got := ids(b.Column(stage.ToDo)); !equalIDs(got, []string{"b"}) {
		t.Errorf("ToDo = %v", got)
	}
	// Progress is left alone by moves.
	if b.Column(stage.Completed)[2].Progress != 0 {
		t.Error("MoveTask must not rewrite progress")
	}
	if err := s.CheckInvariant(); err != nil {
		t.Fatal(err)
	}
}

func TestMoveTaskIndex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{"front", 0, []string{"a", "c", "d"}},
		{"middle", 1, []string{"c", "a", "d"}},
		{"clamped high", 99, []string{"c", "d", "a"}},
		{"clamped low", -5, []string{"a", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(sample())
			b, err := s.MoveTask("a", stage.ToDo, stage.InProgress, AtIndex(tt.index))
			if err != nil {
				t.Fatalf("MoveTask: %v", err)
			}
			if got := ids(b.Column(stage.InProgress)); !equalIDs(got, tt.want) {
				t.Errorf("InProgress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoveTaskReorderWithinStage(t *testing.T) {
	t.Parallel()
	s := NewStore(sample())
	b, err := s.MoveTask("b", stage.ToDo, stage.ToDo, AtIndex(0))
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	if got := ids(b.Column(stage.ToDo)); !equalIDs(got, []string{"b", "a"}) {
		t.Errorf("ToDo = %v", got)
	}
}

func TestMoveTaskInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		id       string
		from, to stage.Stage
	}{
		{"not in source", "c", stage.ToDo, stage.Completed},
		{"unknown id", "zz", stage.ToDo, stage.Completed},
		{"same stage without index", "a", stage.ToDo, stage.ToDo},
		{"bad source stage", "a", "Backlog", stage.Completed},
		{"bad target stage", "a", stage.ToDo, "Archive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(sample())
			before := s.Flatten()
			_, err := s.MoveTask(tt.id, tt.from, tt.to, MoveOptions{})
			if !errors.Is(err, ErrInvalidMove) {
				t.Fatalf("MoveTask = %v, want ErrInvalidMove", err)
			}
			if !equalIDs(ids(before), ids(s.Flatten())) {
				t.Error("failed move changed the board")
			}
		})
	}
}

func TestConcurrentMovesPreserveIDs(t *testing.T) {
	t.Parallel()
	s := NewStore(sample())
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := stage.All()[i%3]
			from, ok := s.StageOf("a")
			if !ok {
				t.Errorf("task a vanished")
				return
			}
			_, _ = s.MoveTask("a", from, to, MoveOptions{})
		}(i)
	}
	wg.Wait()

	if err := s.CheckInvariant(); err != nil {
		t.Fatal(err)
	}
	if n := s.Snapshot().Len(); n != len(sample()) {
		t.Fatalf("board has %d tasks, want %d", n, len(sample()))
	}
}

func TestPutAndRemove(t *testing.T) {
	t.Parallel()
	s := NewStore(sample())

	if st := s.Put(task.Task{ID: "g", Title: "New", Progress: 60}); st != stage.InProgress {
		t.Errorf("Put new task landed in %s", st)
	}

	// Editing keeps the current stage even when progress would classify elsewhere.
	if _, err := s.MoveTask("a", stage.ToDo, stage.Completed, MoveOptions{}); err != nil {
		t.Fatal(err)
	}
	if st := s.Put(task.Task{ID: "a", Title: "Renamed", Progress: 5}); st != stage.Completed {
		t.Errorf("Put existing task moved it to %s", st)
	}
	if got, _ := s.Get("a"); got.Title != "Renamed" {
		t.Errorf("Put did not replace attributes: %+v", got)
	}

	if !s.Remove("a") {
		t.Fatal("Remove(a) = false")
	}
	if s.Remove("a") {
		t.Error("second Remove(a) = true")
	}
	if _, ok := s.StageOf("a"); ok {
		t.Error("removed task still located")
	}
	if err := s.CheckInvariant(); err != nil {
		t.Fatal(err)
	}
	if got := s.Counts(); got[stage.ToDo] != 1 || got[stage.InProgress] != 3 || got[stage.Completed] != 2 {
		t.Errorf("Counts = %v", got)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	t.Parallel()
	s := NewStore(sample())
	snap := s.Snapshot()
	snap[stage.ToDo][0].Title = "mutated"
	snap[stage.ToDo] = nil

	if got, _ := s.Get("a"); got.Title != "Write outline" {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestCheckInvariantDetectsDuplicate(t *testing.T) {
	t.Parallel()
	s := NewStore(sample())
	s.board[stage.Completed] = append(s.board[stage.Completed], s.board[stage.ToDo][0])
	if err := s.CheckInvariant(); err == nil {
		t.Fatal("expected duplicate to be reported")
	}
}

func ExampleStore_MoveTask() {
	s := NewStore([]task.Task{{ID: "1", Title: "Draft", Progress: 10}})
	b, _ := s.MoveTask("1", stage.ToDo, stage.Completed, MoveOptions{})
	fmt.Println(len(b.Column(stage.ToDo)), len(b.Column(stage.Completed)))
	// Output: 0 1
}

func TestFlattenPinsManualPlacement(t *testing.T) {
	t.Parallel()
	s := NewStore(sample())
	if _, err := s.MoveTask("a", stage.ToDo, stage.InProgress, MoveOptions{}); err != nil {
		t.Fatal(err)
	}

	flat := s.Flatten()
	for _, tk := range flat {
		switch {
		case tk.ID == "a" && tk.Pinned != stage.InProgress:
			t.Errorf("moved task pinned to %q, want %q", tk.Pinned, stage.InProgress)
		case tk.ID != "a" && tk.Pinned != "":
			t.Errorf("task %s unexpectedly pinned to %q", tk.ID, tk.Pinned)
		}
	}

	reloaded := Hydrate(flat)
	if got := ids(reloaded.Column(stage.InProgress)); !equalIDs(got, []string{"c", "d", "a"}) {
		t.Errorf("reloaded InProgress = %v", got)
	}
	if reloaded.Column(stage.InProgress)[2].Pinned != "" {
		t.Error("hydrated tasks should not carry a pin")
	}
}
