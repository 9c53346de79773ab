package board

import (
	"sort"
	"strings"
)

// Sort fields.
const (
	SortStage    = "stage"
	SortTitle    = "title"
	SortProgress = "progress"
	SortDeadline = "deadline"
	SortID       = "id"
)

// SortFields lists the accepted sort fields.
func SortFields() []string {
	return []string{SortStage, SortTitle, SortProgress, SortDeadline, SortID}
}

// Sort sorts entries by field. The stage field keeps board order (stage,
// then position) and is the default.
func Sort(entries []Entry, field string, reverse bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if reverse {
			return compareEntries(entries[j], entries[i], field)
		}
		return compareEntries(entries[i], entries[j], field)
	})
}

func compareEntries(a, b Entry, field string) bool {
	switch field {
	case SortTitle:
		return strings.ToLower(a.Task.Title) < strings.ToLower(b.Task.Title)
	case SortProgress:
		return a.Task.Progress < b.Task.Progress
	case SortDeadline:
		return compareDeadline(a, b)
	case SortID:
		return a.Task.ID < b.Task.ID
	default:
		if a.Stage != b.Stage {
			return a.Stage.Index() < b.Stage.Index()
		}
		return a.Position < b.Position
	}
}

func compareDeadline(a, b Entry) bool {
	if a.Task.Deadline == nil {
		return false // nil sorts last
	}
	if b.Task.Deadline == nil {
		return true
	}
	return a.Task.Deadline.Before(b.Task.Deadline.Time)
}
