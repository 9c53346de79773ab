// Package notify scans tasks for upcoming deadlines and delivers the
// resulting alerts.
package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

// Severity ranks an alert. Higher is more urgent.
type Severity int

// Severities.
const (
	SeverityWarning Severity = iota + 1
	SeverityUrgent
)

func (s Severity) String() string {
	switch s {
	case SeverityUrgent:
		return "urgent"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Event is a single deadline alert. Events are not persisted.
type Event struct {
	TaskID    string    `json:"task_id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Scan returns one event per task due today or tomorrow, in input order.
func Scan(tasks []task.Task, today date.Date) []Event {
	now := time.Now()
	tomorrow := today.AddDays(1)

	var events []Event
	for _, t := range tasks {
		switch {
		case t.DueOn(today):
			events = append(events, Event{
				TaskID:    t.ID,
				Message:   fmt.Sprintf("Task Due Today: %q", t.Title),
				Severity:  SeverityUrgent,
				CreatedAt: now,
			})
		case t.DueOn(tomorrow):
			events = append(events, Event{
				TaskID:    t.ID,
				Message:   fmt.Sprintf("Task Due Tomorrow: %q", t.Title),
				Severity:  SeverityWarning,
				CreatedAt: now,
			})
		}
	}
	return events
}

// Alerter presents events to the user.
type Alerter interface {
	// Visual shows the event.
	Visual(ev Event) error
	// Audio plays the event's sound cue.
	Audio(ev Event) error
}

// Dispatch delivers every event exactly once: one visual alert and one audio
// cue each. Failures are collected, not retried.
func Dispatch(events []Event, a Alerter) error {
	var errs []error
	for _, ev := range events {
		if err := a.Visual(ev); err != nil {
			errs = append(errs, fmt.Errorf("showing alert for %s: %w", ev.TaskID, err))
		}
		if err := a.Audio(ev); err != nil {
			errs = append(errs, fmt.Errorf("sounding alert for %s: %w", ev.TaskID, err))
		}
	}
	return errors.Join(errs...)
}
