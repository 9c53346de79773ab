package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

const showHistoryLimit = 10

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long:  `Displays full details of a single task including its recent activity.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	e, err := findEntry(sess, args[0])
	if err != nil {
		return err
	}
	history, err := board.ReadLog(sess.Config.Dir(), e.Task.ID, showHistoryLimit)
	if err != nil {
		sess.Log.WithError(err).Warn("reading activity log")
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, struct {
			board.Entry
			Activity []board.LogEntry `json:"activity"`
		}{e, history})
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, e, history, today())
	default:
		output.TaskDetail(os.Stdout, e, history, today())
	}
	return nil
}
