package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
)

// TaskCompact renders entries in one-line-per-record compact format.
func TaskCompact(w io.Writer, entries []board.Entry, today date.Date) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(w, formatTaskLine(e, today))
	}
}

// TaskDetailCompact renders a single entry with its activity in compact format.
func TaskDetailCompact(w io.Writer, e board.Entry, history []board.LogEntry, today date.Date) {
	fmt.Fprintln(w, formatTaskLine(e, today)+" id:"+e.Task.ID)
	for _, h := range history {
		fmt.Fprintln(w, "  "+h.Timestamp.Format("2006-01-02")+" "+h.Action+" "+h.Detail)
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks, avg %d%%)\n", s.BoardName, s.TotalTasks, s.AverageProgress)

	for _, ss := range s.Stages {
		line := "  " + string(ss.Stage) + ": " + strconv.Itoa(ss.Count)
		var annotations []string
		if ss.Overdue > 0 {
			annotations = append(annotations, strconv.Itoa(ss.Overdue)+" overdue")
		}
		if ss.DueToday > 0 {
			annotations = append(annotations, strconv.Itoa(ss.DueToday)+" due today")
		}
		if ss.DueSoon > 0 {
			annotations = append(annotations, strconv.Itoa(ss.DueSoon)+" due tomorrow")
		}
		if len(annotations) > 0 {
			line += " (" + strings.Join(annotations, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

// GroupedCompact renders deadline buckets one task per line.
func GroupedCompact(w io.Writer, gs board.GroupedSummary, today date.Date) {
	for _, g := range gs.Groups {
		fmt.Fprintf(w, "%s: %d\n", g.Key, g.Total)
		for _, e := range g.Tasks {
			fmt.Fprintln(w, "  "+formatTaskLine(e, today))
		}
	}
}

// formatTaskLine builds the one-line representation of an entry.
func formatTaskLine(e board.Entry, today date.Date) string {
	line := e.Task.ShortID() + " [" + e.Stage.Slug() + " " + strconv.Itoa(e.Task.Progress) + "%] " + e.Task.Title
	if d := e.Task.Deadline; d != nil {
		line += " due:" + d.String()
		if board.IsOverdue(e, today) {
			line += " (overdue)"
		}
	}
	return line
}
