package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

func deadline(d date.Date) *date.Date { return &d }

func TestScan(t *testing.T) {
	t.Parallel()
	today := date.New(2024, 3, 31)
	tasks := []task.Task{
		{ID: "1", Title: "Later", Deadline: deadline(today.AddDays(2))},
		{ID: "2", Title: "Tomorrow", Deadline: deadline(today.AddDays(1))},
		{ID: "3", Title: "None"},
		{ID: "4", Title: "Today", Deadline: deadline(today)},
		{ID: "5", Title: "Yesterday", Deadline: deadline(today.AddDays(-1))},
	}

	events := Scan(tasks, today)
	if len(events) != 2 {
		t.Fatalf("Scan returned %d events, want 2: %+v", len(events), events)
	}
	if events[0].TaskID != "2" || events[0].Severity != SeverityWarning || events[0].Message != `Task Due Tomorrow: "Tomorrow"` {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].TaskID != "4" || events[1].Severity != SeverityUrgent || events[1].Message != `Task Due Today: "Today"` {
		t.Errorf("second event = %+v", events[1])
	}
	if events[1].CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestScanAcrossMonthEnd(t *testing.T) {
	t.Parallel()
	today := date.New(2024, 2, 29)
	events := Scan([]task.Task{{ID: "1", Title: "March", Deadline: deadline(date.New(2024, 3, 1))}}, today)
	if len(events) != 1 || events[0].Severity != SeverityWarning {
		t.Fatalf("events = %+v", events)
	}
}

type recorder struct {
	visual, audio []string
	failAudio     bool
}

func (r *recorder) Visual(ev Event) error {
	r.visual = append(r.visual, ev.TaskID)
	return nil
}

func (r *recorder) Audio(ev Event) error {
	r.audio = append(r.audio, ev.TaskID)
	if r.failAudio {
		return errors.New("no sound device")
	}
	return nil
}

func TestDispatchOncePerEvent(t *testing.T) {
	t.Parallel()
	events := []Event{{TaskID: "a"}, {TaskID: "b"}}
	r := &recorder{}
	if err := Dispatch(events, r); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if strings.Join(r.visual, ",") != "a,b" || strings.Join(r.audio, ",") != "a,b" {
		t.Errorf("visual=%v audio=%v", r.visual, r.audio)
	}

	r = &recorder{failAudio: true}
	if err := Dispatch(events, r); err == nil {
		t.Error("expected audio failures to be reported")
	}
	if len(r.visual) != 2 || len(r.audio) != 2 {
		t.Error("a failed cue must not stop or repeat delivery")
	}
}

func TestTerminalAlerter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	a := NewTerminal(&buf, TerminalOptions{Sound: true, NoColor: true})
	ev := Event{TaskID: "1", Message: `Task Due Today: "Ship"`, Severity: SeverityUrgent}

	if err := Dispatch([]Event{ev}, a); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if want := "🚨 Task Due Today: \"Ship\"\n\a"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	quiet := NewTerminal(&buf, TerminalOptions{NoColor: true})
	_ = Dispatch([]Event{ev}, quiet)
	if strings.Contains(buf.String(), "\a") {
		t.Error("bell rung with sound disabled")
	}
}
