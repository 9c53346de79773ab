package cmd

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/tui"
	"github.com/twiced-technology-gmbh/taskboard/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive board",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	// Log lines would tear the alternate screen.
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	opts := tui.Options{}
	if sess.Config.NotificationsEnabled() && sess.Config.BellEnabled() {
		opts.Bell = os.Stderr
	}
	if !sess.Config.NotificationsEnabled() {
		sess.Alerts = nil
	}

	model := tui.NewBoard(ctx, sess, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	paths := model.WatchPaths()
	if len(paths) == 0 {
		return
	}
	w, err := watcher.New(paths, func() {
		p.Send(tui.ReloadMsg{})
	}, log.StandardLogger())
	if err != nil {
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}
