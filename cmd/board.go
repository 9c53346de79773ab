package cmd

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
	"github.com/twiced-technology-gmbh/taskboard/internal/session"
	"github.com/twiced-technology-gmbh/taskboard/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show board summary",
	Long: `Displays a summary of the board: task counts per stage, average progress,
and how many tasks are overdue, due today or due tomorrow.

Use --watch to keep the display live-updating. The board re-renders automatically
whenever the stored board changes (e.g., from the TUI in another terminal).
Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the board on storage changes")
	boardCmd.Flags().String("group-by", "", "group board by field ("+groupByDeadline+")")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && groupBy != groupByDeadline {
		return clierr.Newf(clierr.InvalidInput, "invalid --group-by field %q; valid: %s", groupBy, groupByDeadline)
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := renderBoard(sess.Config, sess.Board.Snapshot(), groupBy); err != nil {
		return err
	}

	if !flagWatch {
		return nil
	}

	return watchBoard(cmd.Context(), sess, groupBy)
}

func renderBoard(cfg *config.Config, b board.Board, groupBy string) error {
	if groupBy != "" {
		return outputGroupedList(b.Entries())
	}

	summary := board.Summary(cfg.Board.Name, b, today())

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, summary)
	default:
		output.OverviewTable(os.Stdout, summary)
	}
	return nil
}

func watchBoard(ctx context.Context, sess *session.Session, groupBy string) error {
	paths := sess.WatchPaths()
	if len(paths) == 0 {
		return clierr.Newf(clierr.InvalidInput, "--watch needs file or sqlite storage (board uses %s)", sess.Config.Storage.Backend)
	}

	w, err := watcher.New(paths, func() {
		clearScreen()
		if renderErr := renderBoard(sess.Config, sess.Reload(ctx), groupBy); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering board: %v\n", renderErr)
		}
	}, log.StandardLogger())
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})

	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
