package stage

import (
	"errors"
	"testing"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress int
		want     Stage
	}{
		{-5, ToDo},
		{0, ToDo},
		{40, ToDo},
		{41, InProgress},
		{80, InProgress},
		{81, Completed},
		{100, Completed},
		{150, Completed},
	}
	for _, tt := range tests {
		if got := Classify(tt.progress); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.progress, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Stage
		ok   bool
	}{
		{"To Do", ToDo, true},
		{"todo", ToDo, true},
		{"in_progress", InProgress, true},
		{" In Progress ", InProgress, true},
		{"done", Completed, true},
		{"COMPLETED", Completed, true},
		{"backlog", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Parse(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseArgError(t *testing.T) {
	t.Parallel()
	_, err := ParseArg("blocked")
	var ce *clierr.Error
	if !errors.As(err, &ce) || ce.Code != clierr.InvalidStage {
		t.Fatalf("ParseArg error = %v, want INVALID_STAGE", err)
	}
	allowed, _ := ce.Details["allowed"].([]string)
	if len(allowed) != 3 || allowed[1] != "in-progress" {
		t.Errorf("allowed = %v", ce.Details["allowed"])
	}
}

func TestIndexAndSlug(t *testing.T) {
	t.Parallel()
	for i, s := range All() {
		if s.Index() != i {
			t.Errorf("%q.Index() = %d, want %d", s, s.Index(), i)
		}
		if back, ok := Parse(s.Slug()); !ok || back != s {
			t.Errorf("Parse(%q) = %q, %v", s.Slug(), back, ok)
		}
	}
	if Stage("Blocked").Valid() {
		t.Error("unknown stage reported valid")
	}
}
