package task

import (
	"errors"
	"testing"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
)

func TestNew(t *testing.T) {
	t.Parallel()
	a, err := New("  Write report ", 140, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Title != "Write report" || a.Progress != MaxProgress || a.ID == "" {
		t.Errorf("New = %+v", a)
	}
	b, _ := New("Other", -3, nil)
	if b.Progress != MinProgress {
		t.Errorf("progress = %d, want 0", b.Progress)
	}
	if a.ID == b.ID {
		t.Error("identifiers collide")
	}

	_, err = New("   ", 10, nil)
	var ce *clierr.Error
	if !errors.As(err, &ce) || ce.Code != clierr.InvalidInput {
		t.Errorf("empty title error = %v", err)
	}
}

func TestPlacement(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress int
		pinned   stage.Stage
		want     stage.Stage
	}{
		{10, "", stage.ToDo},
		{90, "", stage.Completed},
		{10, stage.Completed, stage.Completed},
		{60, "Archived", stage.InProgress},
	}
	for _, tt := range tests {
		got := Task{Progress: tt.progress, Pinned: tt.pinned}.Placement()
		if got != tt.want {
			t.Errorf("Placement(%d, %q) = %q, want %q", tt.progress, tt.pinned, got, tt.want)
		}
	}
}

func TestDueOn(t *testing.T) {
	t.Parallel()
	d := date.New(2024, 5, 10)
	tk := Task{Deadline: &d}
	if !tk.DueOn(date.New(2024, 5, 10)) || tk.DueOn(d.AddDays(1)) {
		t.Error("DueOn mismatch")
	}
	if (Task{}).DueOn(d) {
		t.Error("task without deadline is due")
	}
}

func TestFind(t *testing.T) {
	t.Parallel()
	tasks := []Task{
		{ID: "abc123", Title: "one"},
		{ID: "abd456", Title: "two"},
		{ID: "ab", Title: "exact"},
	}
	tests := []struct {
		ref      string
		wantID   string
		wantCode string
	}{
		{"abc", "abc123", ""},
		{"abd456", "abd456", ""},
		{"ab", "ab", ""},
		{"a", "", clierr.AmbiguousTaskID},
		{"zzz", "", clierr.TaskNotFound},
		{" ", "", clierr.InvalidInput},
	}
	for _, tt := range tests {
		got, err := Find(tasks, tt.ref)
		if tt.wantCode != "" {
			var ce *clierr.Error
			if !errors.As(err, &ce) || ce.Code != tt.wantCode {
				t.Errorf("Find(%q) error = %v, want %s", tt.ref, err, tt.wantCode)
			}
			continue
		}
		if err != nil || got.ID != tt.wantID {
			t.Errorf("Find(%q) = %q, %v, want %q", tt.ref, got.ID, err, tt.wantID)
		}
	}
}

func TestParseRefs(t *testing.T) {
	t.Parallel()
	refs, err := ParseRefs("a, b,,a ,c")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 3 || refs[0] != "a" || refs[1] != "b" || refs[2] != "c" {
		t.Errorf("ParseRefs = %v", refs)
	}
	if _, err := ParseRefs(" , "); err == nil {
		t.Error("empty list accepted")
	}
}
