package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
)

// FilterOptions defines which entries to include.
type FilterOptions struct {
	Stages      []stage.Stage
	Search      string     // case-insensitive substring match on the title
	DueBefore   *date.Date // deadline on or before this date
	HasDeadline *bool      // nil=no filter
	Overdue     bool       // deadline before Today, not completed
	Today       date.Date  // reference date for Overdue
}

// ListOptions controls how entries are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// List applies filters, sorting and the limit to the board's entries.
func List(b Board, opts ListOptions) []Entry {
	entries := Filter(b.Entries(), opts.Filter)
	Sort(entries, opts.SortBy, opts.Reverse)
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries
}

// Filter returns entries matching all specified criteria (AND logic).
func Filter(entries []Entry, opts FilterOptions) []Entry {
	var result []Entry
	for _, e := range entries {
		if matchesFilter(e, opts) {
			result = append(result, e)
		}
	}
	return result
}

func matchesFilter(e Entry, opts FilterOptions) bool {
	if len(opts.Stages) > 0 && !slices.Contains(opts.Stages, e.Stage) {
		return false
	}
	if opts.Search != "" && !strings.Contains(strings.ToLower(e.Task.Title), strings.ToLower(opts.Search)) {
		return false
	}
	return matchesDeadline(e, opts)
}

func matchesDeadline(e Entry, opts FilterOptions) bool {
	d := e.Task.Deadline
	if opts.HasDeadline != nil && (d != nil) != *opts.HasDeadline {
		return false
	}
	if opts.DueBefore != nil && (d == nil || d.After(opts.DueBefore.Time)) {
		return false
	}
	if opts.Overdue && !IsOverdue(e, opts.Today) {
		return false
	}
	return true
}

// IsOverdue reports whether the entry's deadline has passed and the task is
// not completed.
func IsOverdue(e Entry, today date.Date) bool {
	return e.Stage != stage.Completed && e.Task.Deadline != nil && e.Task.Deadline.Before(today.Time)
}
