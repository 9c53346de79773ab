// Package tui implements a terminal UI for taskboard boards.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/notify"
	"github.com/twiced-technology-gmbh/taskboard/internal/session"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewConfirmDelete
	viewNotes
)

// Key and layout constants.
const (
	keyEsc = "esc"

	progressStep = 10
	boardChrome  = 2 // blank line + status bar below the column area
	errorChrome  = 1 // extra line when an error or toast is displayed
	maxToasts    = 3
	tickInterval = time.Minute // how often deadline labels refresh
)

// Options tweak NewBoard; the zero value uses the real clock and no bell.
type Options struct {
	// Today returns the date deadlines are compared against.
	Today func() date.Date
	// Bell receives the audio cue for deadline alerts. Nil disables it.
	Bell io.Writer
}

// Board is the top-level bubbletea model.
type Board struct {
	sess       *session.Session
	ctx        context.Context
	columns    []column
	activeCol  int
	activeRow  int
	view       view
	width      int
	height     int
	err        error
	flash      string
	toasts     []notify.Event
	today      func() date.Date
	bell       io.Writer
	titleLines int

	drag *dragState

	// Delete confirmation.
	deleteID    string
	deleteTitle string

	notes viewport.Model
	bar   progress.Model
}

// dragState is the card currently picked up.
type dragState struct {
	id    string
	title string
	mouse bool
}

// column groups tasks belonging to a single stage.
type column struct {
	stage     stage.Stage
	tasks     []task.Task
	scrollOff int // first visible row index
}

// NewBoard creates a Board model over an open session. Deadline alerts found
// when the session was opened are dispatched once, as toasts plus a bell.
func NewBoard(ctx context.Context, sess *session.Session, opts Options) *Board {
	b := &Board{
		sess:       sess,
		ctx:        ctx,
		today:      opts.Today,
		bell:       opts.Bell,
		titleLines: sess.Config.TitleLines(),
		bar:        progress.New(progress.WithSolidFill("62"), progress.WithoutPercentage()),
	}
	if b.today == nil {
		b.today = date.Today
	}
	b.applyBoard(sess.Board.Snapshot())
	if err := notify.Dispatch(sess.Alerts, b); err != nil {
		sess.Log.WithError(err).Warn("deadline alerts incomplete")
	}
	return b
}

// Visual implements notify.Alerter by queueing a toast.
func (b *Board) Visual(ev notify.Event) error {
	b.toasts = append(b.toasts, ev)
	return nil
}

// Audio implements notify.Alerter by ringing the terminal bell.
func (b *Board) Audio(notify.Event) error {
	if b.bell == nil {
		return nil
	}
	_, err := io.WriteString(b.bell, "\a")
	return err
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.notes.Width = msg.Width
		b.notes.Height = max(msg.Height-boardChrome, 1)
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.reload()
		return b, nil
	case TickMsg:
		return b, tickCmd()
	case errMsg:
		b.err = msg.err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewConfirmDelete:
		return b.viewDeleteConfirm()
	case viewNotes:
		return b.notes.View() + "\n\n" + statusBarStyle.Render(" notes | j/k:scroll esc:back")
	default:
		return b.viewBoard()
	}
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}

	switch b.view {
	case viewBoard:
		return b.handleBoardKey(msg)
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	case viewNotes:
		if msg.String() == keyEsc || msg.String() == "q" || msg.String() == "n" {
			b.view = viewBoard
			return b, nil
		}
		var cmd tea.Cmd
		b.notes, cmd = b.notes.Update(msg)
		return b, cmd
	}

	return b, nil
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return b, tea.Quit
	case keyEsc:
		if b.drag != nil {
			b.drag = nil
			b.flash = "drag canceled"
			return b, nil
		}
		return b, tea.Quit
	case "h", "left":
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case "l", "right":
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case "j", "down":
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case "k", "up":
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case " ":
		if b.drag == nil {
			b.pickUp(false)
		} else {
			b.dropOnColumn()
		}
	case "enter":
		if b.drag != nil {
			b.dropOnColumn()
		}
	case "K", "shift+up":
		b.reorder(-1)
	case "J", "shift+down":
		b.reorder(1)
	case "+", "=":
		b.adjustProgress(progressStep)
	case "-":
		b.adjustProgress(-progressStep)
	case "d", "D":
		b.handleDeleteStart()
	case "n":
		b.openNotes()
	case "x":
		b.toasts = nil
		b.flash = ""
	case "r":
		b.reload()
	}
	return b, nil
}

// pickUp starts dragging the selected card.
func (b *Board) pickUp(mouse bool) {
	t := b.selectedTask()
	if t == nil {
		return
	}
	b.drag = &dragState{id: t.ID, title: t.Title, mouse: mouse}
	if !mouse {
		b.flash = "moving " + t.ShortID() + ": choose a column, enter to drop"
	}
}

// dropOnColumn drops the dragged card on the active column.
func (b *Board) dropOnColumn() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	b.drop(string(col.stage))
}

// drop hands the gesture to the session's coordinator. overID is a task ID or
// a stage name.
func (b *Board) drop(overID string) {
	d := b.drag
	b.drag = nil
	if d == nil {
		return
	}

	res, err := b.sess.Drops.OnDrop(b.ctx, d.id, overID)
	if err != nil {
		b.err = err
		return
	}
	b.applyBoard(res.Board)
	if !res.Moved {
		b.flash = ""
		b.selectTask(d.id)
		return
	}

	board.LogMutation(b.sess.Config.Dir(), board.ActionDrop, d.id, string(res.From)+" -> "+string(res.To))
	b.flash = fmt.Sprintf("moved %q to %s", d.title, res.To)
	b.err = nil
	if !res.Saved {
		b.err = fmt.Errorf("moved %q but the board could not be saved", d.title)
	}
	b.selectTask(d.id)
}

// reorder moves the selected card up or down within its column.
func (b *Board) reorder(delta int) {
	t := b.selectedTask()
	col := b.currentColumn()
	if t == nil || col == nil {
		return
	}
	target := b.activeRow + delta
	if target < 0 || target >= len(col.tasks) {
		return
	}
	snap, err := b.sess.Board.MoveTask(t.ID, col.stage, col.stage, board.AtIndex(target))
	if err != nil {
		b.err = err
		return
	}
	b.applyBoard(snap)
	b.save()
	b.selectTask(t.ID)
}

// adjustProgress changes the selected task's progress without moving it.
func (b *Board) adjustProgress(delta int) {
	t := b.selectedTask()
	if t == nil {
		return
	}
	updated := *t
	updated.Progress = task.ClampProgress(t.Progress + delta)
	if updated.Progress == t.Progress {
		return
	}
	b.sess.Board.Put(updated)
	b.save()
	board.LogMutation(b.sess.Config.Dir(), board.ActionEdit, t.ID, fmt.Sprintf("progress %d%%", updated.Progress))
	b.applyBoard(b.sess.Board.Snapshot())
	b.selectTask(t.ID)
}

func (b *Board) save() {
	if err := b.sess.Save(b.ctx); err != nil {
		b.err = err
		return
	}
	b.err = nil
}

func (b *Board) handleDeleteStart() {
	if t := b.selectedTask(); t != nil {
		b.deleteID = t.ID
		b.deleteTitle = t.Title
		b.view = viewConfirmDelete
	}
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return b.executeDelete()
	case "n", "N", keyEsc, "q":
		b.view = viewBoard
	}
	return b, nil
}

func (b *Board) executeDelete() (tea.Model, tea.Cmd) {
	if b.sess.Board.Remove(b.deleteID) {
		b.save()
		board.LogMutation(b.sess.Config.Dir(), board.ActionDelete, b.deleteID, b.deleteTitle)
	}
	b.view = viewBoard
	b.applyBoard(b.sess.Board.Snapshot())
	return b, nil
}

func (b *Board) openNotes() {
	notes := b.sess.Persist.LoadNotes(b.ctx)
	if strings.TrimSpace(notes) == "" {
		notes = "_No notes yet. Use `taskboard notes set` to write some._"
	}
	rendered := notes
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(max(b.width-4, 20))) //nolint:mnd // margins
	if err == nil {
		if out, rerr := r.Render(notes); rerr == nil {
			rendered = out
		}
	}
	b.notes = viewport.New(b.width, max(b.height-boardChrome, 1))
	b.notes.SetContent(rendered)
	b.view = viewNotes
}

// handleMouse implements drag and drop: pressing on a card picks it up,
// releasing over another card or column drops it there.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if b.view != viewBoard {
		return b, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return b, nil
		}
		colIdx, rowIdx, ok := b.hitTest(msg.X, msg.Y)
		if !ok {
			return b, nil
		}
		b.activeCol = colIdx
		if rowIdx < 0 {
			b.clampRow()
			return b, nil
		}
		b.activeRow = rowIdx
		b.ensureVisible()
		b.pickUp(true)
	case tea.MouseActionRelease:
		if b.drag == nil || !b.drag.mouse {
			return b, nil
		}
		colIdx, rowIdx, ok := b.hitTest(msg.X, msg.Y)
		if !ok {
			b.drag = nil
			return b, nil
		}
		over := string(b.columns[colIdx].stage)
		if rowIdx >= 0 {
			over = b.columns[colIdx].tasks[rowIdx].ID
		}
		b.drop(over)
	}
	return b, nil
}

// hitTest maps a screen position to a column and card row. Row is -1 for the
// header or the empty area below the cards.
func (b *Board) hitTest(x, y int) (int, int, bool) {
	colWidth := b.columnWidth()
	colIdx := x / colWidth
	if colIdx < 0 || colIdx >= len(b.columns) {
		return 0, 0, false
	}

	col := &b.columns[colIdx]
	lineY := y - 1
	if col.scrollOff > 0 {
		lineY-- // "↑ N more" indicator
	}
	if lineY < 0 {
		return colIdx, -1, true
	}

	cardLine := 0
	for rowIdx := col.scrollOff; rowIdx < len(col.tasks); rowIdx++ {
		cardH := b.cardHeight(col.tasks[rowIdx], colWidth)
		if lineY < cardLine+cardH {
			return colIdx, rowIdx, true
		}
		cardLine += cardH
	}
	return colIdx, -1, true
}

// reload re-reads the board from storage, typically after another process
// wrote it.
func (b *Board) reload() {
	selected := ""
	if t := b.selectedTask(); t != nil {
		selected = t.ID
	}
	b.applyBoard(b.sess.Reload(b.ctx))
	if selected != "" {
		b.selectTask(selected)
	}
}

// applyBoard rebuilds the columns from a board snapshot.
func (b *Board) applyBoard(bd board.Board) {
	stages := stage.All()
	cols := make([]column, len(stages))
	for i, st := range stages {
		cols[i] = column{stage: st, tasks: bd.Column(st)}
		if i < len(b.columns) {
			cols[i].scrollOff = b.columns[i].scrollOff
		}
	}
	b.columns = cols
	b.clampRow()
}

func (b *Board) selectTask(id string) {
	for ci, col := range b.columns {
		for ri, t := range col.tasks {
			if t.ID == id {
				b.activeCol = ci
				b.activeRow = ri
				b.ensureVisible()
				return
			}
		}
	}
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.tasks) {
		return &col.tasks[b.activeRow]
	}
	return nil
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

// chromeHeight returns the number of lines consumed by non-card elements below
// the column area.
func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil || b.flash != "" {
		h += errorChrome
	}
	h += min(len(b.toasts), maxToasts)
	return h
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for scroll indicator lines.
func (b *Board) visibleCardsForColumn(col *column, width int) int {
	budget := b.height - b.chromeHeight()
	if budget < 1 {
		return 1
	}

	avail := budget - 1 // column header
	if col.scrollOff > 0 {
		avail--
	}

	n := b.fitCardsInHeight(col, avail, width)
	if col.scrollOff+n < len(col.tasks) {
		n = max(b.fitCardsInHeight(col, avail-1, width), 1)
	}
	return n
}

// ensureVisible adjusts the active column's scroll offset so the
// selected row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil || b.height == 0 {
		return
	}
	w := b.columnWidth()

	for range len(col.tasks) + 1 {
		maxVis := b.visibleCardsForColumn(col, w)

		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

func (b *Board) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.tasks) == 0 || avail < 1 {
		return 1
	}

	used := 0
	count := 0
	for i := col.scrollOff; i < len(col.tasks); i++ {
		cardLines := b.cardHeight(col.tasks[i], width)
		if count > 0 && used+cardLines > avail {
			break
		}
		count++
		used += cardLines
		if used >= avail {
			break
		}
	}
	return max(count, 1)
}

// WatchPaths returns the paths that should be watched for storage changes.
func (b *Board) WatchPaths() []string {
	return b.sess.WatchPaths()
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

type errMsg struct{ err error }

// TickMsg is sent periodically to refresh deadline labels.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	dropTargetHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("226")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = cardStyle.BorderForeground(lipgloss.Color("226"))

	draggedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(lipgloss.Color("226")).
				Padding(0, 1)

	overdueCardStyle = cardStyle.BorderForeground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	flashStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	dueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

// --- View rendering ---

func (b *Board) viewBoard() string {
	colWidth := b.columnWidth()

	renderedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		renderedCols[i] = b.renderColumn(i, col, colWidth)
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)

	// Clamp from the bottom (keeping headers at the top) and pad if needed.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	const maxColWidth = 60
	return min(b.width/len(b.columns), maxColWidth)
}

func (b *Board) renderColumn(colIdx int, col column, width int) string {
	const headerPad = 2
	headerText := truncate(fmt.Sprintf("%s (%d)", col.stage, len(col.tasks)), width-headerPad)

	style := columnHeaderStyle
	switch {
	case b.drag != nil && colIdx == b.activeCol && !b.drag.mouse:
		style = dropTargetHeaderStyle
	case colIdx == b.activeCol:
		style = activeColumnHeaderStyle
	}
	parts := []string{style.Width(width).Render(headerText)}

	maxVis := b.visibleCardsForColumn(&col, width)
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+maxVis, len(col.tasks))

	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}

	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for rowIdx := start; rowIdx < end; rowIdx++ {
		active := colIdx == b.activeCol && rowIdx == b.activeRow
		parts = append(parts, b.renderCard(col.tasks[rowIdx], col.stage, active, width))
	}

	if end < len(col.tasks) {
		indicator := fmt.Sprintf("  ↓ %d more", len(col.tasks)-end)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(t task.Task, st stage.Stage, active bool, width int) string {
	content := strings.Join(b.cardContentLines(t, width), "\n")

	style := cardStyle
	if board.IsOverdue(board.Entry{Task: t, Stage: st}, b.today()) {
		style = overdueCardStyle
	}
	if active {
		style = activeCardStyle
	}
	if b.drag != nil && b.drag.id == t.ID {
		style = draggedCardStyle
	}

	return style.Width(width - 2).Render(content) //nolint:mnd // border width
}

func (b *Board) cardHeight(t task.Task, width int) int {
	return len(b.cardContentLines(t, width)) + 2 //nolint:mnd // top and bottom borders
}

func (b *Board) cardContentLines(t task.Task, width int) []string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := max(width-cardChrome, 1)

	lines := wrapTitle(t.Title, cardWidth, b.titleLines)

	const pctWidth = 5
	bar := b.bar
	bar.Width = max(cardWidth-pctWidth, 1)
	lines = append(lines, bar.ViewAs(float64(t.Progress)/100)+fmt.Sprintf(" %3d%%", t.Progress)) //nolint:mnd // percent

	if t.Deadline != nil {
		today := b.today()
		label := "due " + t.Deadline.String()
		switch {
		case t.DueOn(today):
			lines = append(lines, dueStyle.Render(label+" (today)"))
		case t.DueOn(today.AddDays(1)):
			lines = append(lines, dueStyle.Render(label+" (tomorrow)"))
		default:
			lines = append(lines, dimStyle.Render(label))
		}
	}
	return lines
}

// wrapTitle splits a title across maxLines lines, word-wrapping at word
// boundaries. Each line is at most maxWidth characters.
func wrapTitle(title string, maxWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if lipgloss.Width(title) <= maxWidth || maxLines == 1 {
		return []string{truncate(title, maxWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if lipgloss.Width(current.String())+1+lipgloss.Width(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
			continue
		}
		lines = append(lines, truncate(current.String(), maxWidth))
		current.Reset()
		current.WriteString(word)
		if len(lines) == maxLines-1 {
			// Last line: append all remaining words.
			for _, w := range words[i+1:] {
				current.WriteByte(' ')
				current.WriteString(w)
			}
			break
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func (b *Board) renderStatusBar() string {
	total := 0
	for _, col := range b.columns {
		total += len(col.tasks)
	}
	who := ""
	if u, ok := b.sess.User(); ok {
		who = " | " + u.Email
	}
	help := "space:drag +/-:progress J/K:reorder d:del n:notes q:quit"
	if b.drag != nil {
		help = "h/l:choose column enter:drop esc:cancel"
	}
	status := truncate(fmt.Sprintf(" %s | %d tasks%s | %s", b.sess.Config.Board.Name, total, who, help), b.width)

	var lines []string
	for i, ev := range b.toasts {
		if i == maxToasts {
			break
		}
		lines = append(lines, notify.Style(ev.Severity).Render(truncate(notify.Icon(ev.Severity)+" "+ev.Message, b.width)))
	}
	switch {
	case b.err != nil:
		lines = append(lines, errorStyle.Render(truncate("Error: "+b.err.Error(), b.width)))
	case b.flash != "":
		lines = append(lines, flashStyle.Render(truncate(b.flash, b.width)))
	}
	lines = append(lines, statusBarStyle.Render(status))
	return strings.Join(lines, "\n")
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  %s: %s", task.Task{ID: b.deleteID}.ShortID(), b.deleteTitle) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}

// Compile-time interface check.
var _ notify.Alerter = (*Board)(nil)
