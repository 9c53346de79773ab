package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/kv"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

func TestValidateEvent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		title, kind string
		want        Input
		wantErr     bool
	}{
		{"Standup", "", Input{"Standup", KindEvent}, false},
		{"  Tax return ", "Deadline", Input{"Tax return", KindDeadline}, false},
		{"Party", "event", Input{"Party", KindEvent}, false},
		{"   ", "event", Input{}, true},
		{"Party", "meeting", Input{}, true},
	}
	for _, tt := range tests {
		got, err := ValidateEvent(tt.title, tt.kind)
		if tt.wantErr {
			var ce *clierr.Error
			if !errors.As(err, &ce) || ce.Code != clierr.InvalidEvent {
				t.Errorf("ValidateEvent(%q, %q) error = %v, want INVALID_EVENT", tt.title, tt.kind, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ValidateEvent(%q, %q) = %+v, %v, want %+v", tt.title, tt.kind, got, err, tt.want)
		}
	}
}

func TestProject(t *testing.T) {
	t.Parallel()
	d := date.New(2024, 6, 3)
	events := Project([]task.Task{
		{ID: "1", Title: "No deadline"},
		{ID: "2", Title: "Launch", Deadline: &d},
	})
	if len(events) != 1 {
		t.Fatalf("Project = %+v", events)
	}
	if ev := events[0]; ev.Kind != KindDeadline || ev.TaskID != "2" || !ev.Date.Same(d) {
		t.Errorf("event = %+v", ev)
	}
}

func TestBuildMonth(t *testing.T) {
	t.Parallel()
	// June 2024 starts on a Saturday and needs six week rows.
	events := []Event{
		{Title: "in", Date: date.New(2024, 6, 15), Kind: KindEvent},
		{Title: "padding day", Date: date.New(2024, 5, 26), Kind: KindEvent},
		{Title: "outside", Date: date.New(2024, 8, 1), Kind: KindEvent},
	}
	m := BuildMonth(2024, time.June, events)

	if len(m.Weeks) != 6 {
		t.Fatalf("weeks = %d, want 6", len(m.Weeks))
	}
	first := m.Weeks[0][0]
	if !first.Date.Same(date.New(2024, 5, 26)) || first.InMonth {
		t.Errorf("first cell = %+v", first)
	}
	if m.Total != 2 {
		t.Errorf("Total = %d, want 2", m.Total)
	}
	for _, w := range m.Weeks {
		if len(w) != 7 || w[0].Date.Weekday() != time.Sunday {
			t.Fatalf("malformed week %+v", w)
		}
	}
}

func TestBookAdd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := NewBook(kv.NewMemoryStore(0), nil)

	if got := b.Events(ctx); len(got) != 0 {
		t.Fatalf("Events on empty store = %v", got)
	}
	in, _ := ValidateEvent("Dentist", "")
	if _, err := b.Add(ctx, date.New(2024, 6, 20), in); err != nil {
		t.Fatalf("Add: %v", err)
	}
	in, _ = ValidateEvent("Invoice", "deadline")
	if _, err := b.Add(ctx, date.New(2024, 6, 10), in); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got := b.Events(ctx)
	if len(got) != 2 || got[0].Title != "Invoice" || got[1].Kind != KindEvent {
		t.Errorf("Events = %+v", got)
	}
}
