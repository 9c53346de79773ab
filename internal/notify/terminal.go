package notify

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	bell     = "\a"
	appTitle = "taskboard"
)

var (
	urgentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

// Icon returns the glyph shown in front of an event message.
func Icon(s Severity) string {
	if s == SeverityUrgent {
		return "🚨"
	}
	return "⏳"
}

// Style returns the lipgloss style for a severity.
func Style(s Severity) lipgloss.Style {
	if s == SeverityUrgent {
		return urgentStyle
	}
	return warningStyle
}

// Terminal writes alerts to a terminal: a colored line per event, an
// optional desktop notification and the BEL character as the audio cue.
type Terminal struct {
	w       io.Writer
	out     *termenv.Output
	desktop bool
	sound   bool
	color   bool
}

// TerminalOptions configures a Terminal alerter.
type TerminalOptions struct {
	Desktop bool // send an OSC 777 desktop notification as well
	Sound   bool // ring the terminal bell
	NoColor bool
}

// NewTerminal creates a Terminal alerter writing to w.
func NewTerminal(w io.Writer, opts TerminalOptions) *Terminal {
	out := termenv.NewOutput(w)
	return &Terminal{
		w:       w,
		out:     out,
		desktop: opts.Desktop,
		sound:   opts.Sound,
		color:   !opts.NoColor && !out.EnvNoColor(),
	}
}

// Visual implements Alerter.
func (t *Terminal) Visual(ev Event) error {
	line := Icon(ev.Severity) + " " + ev.Message
	if t.color {
		line = Style(ev.Severity).Render(line)
	}
	if _, err := fmt.Fprintln(t.w, line); err != nil {
		return err
	}
	if t.desktop {
		t.out.Notify(appTitle, ev.Message)
	}
	return nil
}

// Audio implements Alerter.
func (t *Terminal) Audio(Event) error {
	if !t.sound {
		return nil
	}
	_, err := io.WriteString(t.w, bell)
	return err
}
