// Package board holds the in-memory stage board and the operations that
// mutate it. Store is the only component that changes board state.
package board

import (
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

// Board maps each stage to its tasks in display order.
type Board map[stage.Stage][]task.Task

// Hydrate groups tasks by the stage their progress classifies into,
// preserving input order within each stage. A task pinned to a stage by an
// earlier manual move goes back to that stage. Later duplicates of an ID are
// ignored.
func Hydrate(tasks []task.Task) Board {
	b := empty()
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		s := t.Placement()
		t.Pinned = ""
		b[s] = append(b[s], t)
	}
	return b
}

func empty() Board {
	b := make(Board, len(stage.All()))
	for _, s := range stage.All() {
		b[s] = []task.Task{}
	}
	return b
}

// Column returns the tasks of s. The slice must not be modified.
func (b Board) Column(s stage.Stage) []task.Task {
	return b[s]
}

// Flatten returns all tasks in stage order, then display order. Tasks whose
// column differs from their progress classification come back pinned to
// that column, so Hydrate(b.Flatten()) restores the same placement.
func (b Board) Flatten() []task.Task {
	out := make([]task.Task, 0, b.Len())
	for _, s := range stage.All() {
		for _, t := range b[s] {
			t.Pinned = ""
			if stage.Classify(t.Progress) != s {
				t.Pinned = s
			}
			out = append(out, t)
		}
	}
	return out
}

// Len returns the total number of tasks on the board.
func (b Board) Len() int {
	n := 0
	for _, s := range stage.All() {
		n += len(b[s])
	}
	return n
}

// Counts returns the number of tasks in every stage.
func (b Board) Counts() map[stage.Stage]int {
	counts := make(map[stage.Stage]int, len(stage.All()))
	for _, s := range stage.All() {
		counts[s] = len(b[s])
	}
	return counts
}

// Entries returns every task paired with its stage, in Flatten order.
func (b Board) Entries() []Entry {
	out := make([]Entry, 0, b.Len())
	for _, s := range stage.All() {
		for i, t := range b[s] {
			out = append(out, Entry{Task: t, Stage: s, Position: i})
		}
	}
	return out
}

// Tasks returns the tasks of all entries.
func Tasks(entries []Entry) []task.Task {
	out := make([]task.Task, len(entries))
	for i, e := range entries {
		out[i] = e.Task
	}
	return out
}

func (b Board) clone() Board {
	c := make(Board, len(b))
	for s, col := range b {
		c[s] = append([]task.Task{}, col...)
	}
	return c
}

// Entry is a task together with where it sits on the board.
type Entry struct {
	Task     task.Task   `json:"task"`
	Stage    stage.Stage `json:"stage"`
	Position int         `json:"position"`
}

// StageSummary holds metrics for a single stage column.
type StageSummary struct {
	Stage    stage.Stage `json:"stage"`
	Count    int         `json:"count"`
	Overdue  int         `json:"overdue"`
	DueToday int         `json:"due_today"`
	DueSoon  int         `json:"due_tomorrow"`
}

// Overview is the aggregate board overview.
type Overview struct {
	BoardName       string         `json:"board_name"`
	TotalTasks      int            `json:"total_tasks"`
	AverageProgress int            `json:"average_progress"`
	Stages          []StageSummary `json:"stages"`
}

// Summary computes per-stage analytics. Completed tasks never count as
// overdue.
func Summary(name string, b Board, today date.Date) Overview {
	ov := Overview{BoardName: name, Stages: make([]StageSummary, 0, len(stage.All()))}
	total := 0
	for _, s := range stage.All() {
		ss := StageSummary{Stage: s, Count: len(b[s])}
		for _, t := range b[s] {
			total += t.Progress
			if t.Deadline == nil {
				continue
			}
			switch days := today.DaysUntil(*t.Deadline); {
			case days < 0 && s != stage.Completed:
				ss.Overdue++
			case days == 0:
				ss.DueToday++
			case days == 1:
				ss.DueSoon++
			}
		}
		ov.TotalTasks += ss.Count
		ov.Stages = append(ov.Stages, ss)
	}
	if ov.TotalTasks > 0 {
		ov.AverageProgress = total / ov.TotalTasks
	}
	return ov
}
