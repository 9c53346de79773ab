package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/calendar"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boldStyle   = lipgloss.NewStyle().Bold(true)

	// Stage colors aligned with the TUI column-header palette.
	stageStyles = map[string]lipgloss.Style{
		string(stage.ToDo):       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		string(stage.InProgress): lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		string(stage.Completed):  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dueSoonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	deadlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	eventStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	todayStyle    = lipgloss.NewStyle().Reverse(true)
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	boldStyle = lipgloss.NewStyle()
	stageStyles = map[string]lipgloss.Style{}
	overdueStyle = lipgloss.NewStyle()
	dueSoonStyle = lipgloss.NewStyle()
	deadlineStyle = lipgloss.NewStyle()
	eventStyle = lipgloss.NewStyle()
	todayStyle = lipgloss.NewStyle()
}

// TaskTable renders board entries as a formatted table.
func TaskTable(w io.Writer, entries []board.Entry, today date.Date) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, stageW, titleW, progW, dueW := 4, 7, 7, 14, 10
	for _, e := range entries {
		idW = max(idW, len(e.Task.ShortID())+pad)
		stageW = max(stageW, len(e.Stage)+pad)
		titleW = max(titleW, min(lipgloss.Width(e.Task.Title)+pad, 50)) //nolint:mnd // max title column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		idW, "ID", stageW, "STAGE", titleW, "TITLE", progW, "PROGRESS", dueW, "DEADLINE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, e := range entries {
		row := fmt.Sprintf("%-*s %s %s %s %s",
			idW, e.Task.ShortID(),
			padRight(styledValue(string(e.Stage), stageStyles), stageW),
			padRight(truncate(e.Task.Title, titleW-pad), titleW),
			padRight(ProgressBar(e.Task.Progress), progW),
			deadlineCell(e, today))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail and its recent activity.
func TaskDetail(w io.Writer, e board.Entry, history []board.LogEntry, today date.Date) {
	t := e.Task
	titleLine := "Task " + t.ShortID() + ": " + t.Title
	fmt.Fprintln(w, boldStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "ID", t.ID)
	printField(w, "Stage", styledValue(string(e.Stage), stageStyles))
	if suggested := stage.Classify(t.Progress); suggested != e.Stage {
		printField(w, "Placement", dimStyle.Render("moved by hand (progress suggests "+string(suggested)+")"))
	}
	printField(w, "Progress", ProgressBar(t.Progress))
	printField(w, "Deadline", deadlineCell(e, today))

	if len(history) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Activity"))
		for _, h := range history {
			fmt.Fprintf(w, "  %s  %-7s %s\n", h.Timestamp.Format("2006-01-02 15:04"), h.Action, h.Detail)
		}
	}
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, boldStyle.Render(s.BoardName))
	fmt.Fprintf(w, "Total: %d tasks, average progress %d%%\n\n", s.TotalTasks, s.AverageProgress)

	const stageColW = 16
	header := fmt.Sprintf("%-*s %6s %8s %6s %9s", stageColW, "STAGE", "COUNT", "OVERDUE", "TODAY", "TOMORROW")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, ss := range s.Stages {
		fmt.Fprintf(w, "%s %6d %8d %6d %9d\n",
			padRight(styledValue(string(ss.Stage), stageStyles), stageColW),
			ss.Count, ss.Overdue, ss.DueToday, ss.DueSoon)
	}
}

// GroupedTable renders entries grouped by deadline bucket.
func GroupedTable(w io.Writer, gs board.GroupedSummary, today date.Date) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, boldStyle.Render(fmt.Sprintf("%s (%d tasks)", g.Key, g.Total)))
		for _, e := range g.Tasks {
			const groupStageW = 14
			fmt.Fprintf(w, "  %s %s %s\n",
				padRight(styledValue(string(e.Stage), stageStyles), groupStageW),
				padRight(e.Task.ShortID(), 9), //nolint:mnd // short id plus space
				e.Task.Title+deadlineSuffix(e, today))
		}
	}
}

// CalendarTable renders a month grid. Days with deadlines or events are
// marked and listed below the grid.
func CalendarTable(w io.Writer, m calendar.Month, today date.Date) {
	const cellW = 5
	title := m.Month.String() + " " + strconv.Itoa(m.Year)
	fmt.Fprintln(w, boldStyle.Render(title))

	var head strings.Builder
	for _, d := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		head.WriteString(padRight(d, cellW))
	}
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(head.String(), " ")))

	var listed []calendar.Event
	for _, week := range m.Weeks {
		var line strings.Builder
		for _, day := range week {
			line.WriteString(padRight(dayCell(day, today), cellW))
			if day.InMonth {
				listed = append(listed, day.Events...)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	if len(listed) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, ev := range listed {
		style := eventStyle
		if ev.Kind == calendar.KindDeadline {
			style = deadlineStyle
		}
		fmt.Fprintf(w, "  %s  %s %s\n", ev.Date.String(), style.Render(padRight(string(ev.Kind), 8)), ev.Title) //nolint:mnd // kind column
	}
}

func dayCell(day calendar.Day, today date.Date) string {
	if !day.InMonth {
		return dimStyle.Render(fmt.Sprintf("%2d", day.Date.Day()))
	}
	cell := fmt.Sprintf("%2d", day.Date.Day())
	if day.Date.Same(today) {
		cell = todayStyle.Render(cell)
	}
	mark := ""
	for _, ev := range day.Events {
		if ev.Kind == calendar.KindDeadline {
			mark = deadlineStyle.Render("!")
			break
		}
		mark = eventStyle.Render("*")
	}
	return cell + mark
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// ProgressBar renders progress as a ten-cell bar followed by the percentage.
func ProgressBar(p int) string {
	const cells = 10
	p = task.ClampProgress(p)
	filled := p / cells
	return strings.Repeat("█", filled) + dimStyle.Render(strings.Repeat("░", cells-filled)) + fmt.Sprintf(" %3d%%", p)
}

func deadlineCell(e board.Entry, today date.Date) string {
	if e.Task.Deadline == nil {
		return dimStyle.Render("--")
	}
	s := e.Task.Deadline.String()
	switch {
	case board.IsOverdue(e, today):
		return overdueStyle.Render(s + " overdue")
	case e.Task.DueOn(today):
		return dueSoonStyle.Render(s + " today")
	case e.Task.DueOn(today.AddDays(1)):
		return dueSoonStyle.Render(s + " tomorrow")
	}
	return s
}

func deadlineSuffix(e board.Entry, today date.Date) string {
	if e.Task.Deadline == nil {
		return ""
	}
	return " " + dimStyle.Render("("+deadlineCell(e, today)+")")
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncate shortens s to at most width visible runes, marking the cut.
func truncate(s string, width int) string {
	const ellipsis = "..."
	r := []rune(s)
	if len(r) <= width || width <= len(ellipsis) {
		return s
	}
	return string(r[:width-len(ellipsis)]) + ellipsis
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
