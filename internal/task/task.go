// Package task defines the task record shared by the board, persistence and
// notification components.
package task

import (
	"strings"

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
)

// Progress bounds.
const (
	MinProgress = 0
	MaxProgress = 100
)

// Task is a single board item.
type Task struct {
	ID       string     `yaml:"id" json:"id"`
	Title    string     `yaml:"title" json:"title"`
	Progress int        `yaml:"progress" json:"progress"`
	Deadline *date.Date `yaml:"deadline,omitempty" json:"deadline,omitempty"`

	// Pinned records a manual placement that differs from the stage the
	// progress classifies into. It is only set on flattened (persisted)
	// tasks; on the board the column is authoritative.
	Pinned stage.Stage `yaml:"stage,omitempty" json:"stage,omitempty"`
}

// New creates a task with a fresh identifier. Progress is clamped.
func New(title string, progress int, deadline *date.Date) (Task, error) {
	t := Task{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(title),
		Progress: ClampProgress(progress),
		Deadline: deadline,
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// ClampProgress limits p to [MinProgress, MaxProgress].
func ClampProgress(p int) int {
	return min(max(p, MinProgress), MaxProgress)
}

// Validate checks the identity and title invariants.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ValidateTaskID(t.ID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return ValidateTitle(t.Title)
	}
	return nil
}

// Placement returns the stage the task belongs in when hydrated: its pin
// if valid, else the classification of its progress.
func (t Task) Placement() stage.Stage {
	if t.Pinned.Valid() {
		return t.Pinned
	}
	return stage.Classify(t.Progress)
}

// DueOn reports whether the task's deadline falls on d.
func (t Task) DueOn(d date.Date) bool {
	return t.Deadline != nil && t.Deadline.Same(d)
}

// ShortID returns the first eight characters of the identifier for display.
func (t Task) ShortID() string {
	const n = 8
	if len(t.ID) <= n {
		return t.ID
	}
	return t.ID[:n]
}
