package cmd

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add [TITLE]",
	Aliases: []string{"create"},
	Short:   "Add a new task",
	Long: `Adds a task with the given title, progress and optional deadline.
The task lands in the stage its progress falls into: 0-40 To Do,
41-80 In Progress, 81-100 Completed.

Title can be provided as a positional argument or via --title flag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	addCmd.Flags().String("progress", "0", "progress percentage 0-100")
	addCmd.Flags().String("deadline", "", "deadline (YYYY-MM-DD)")
	addCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "due":
			name = "deadline"
		case "percent":
			name = "progress"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title, err := resolveAddTitle(cmd, args)
	if err != nil {
		return err
	}
	progress, err := parseProgressFlag(cmd)
	if err != nil {
		return err
	}
	deadline, err := parseDeadlineFlag(cmd)
	if err != nil {
		return err
	}

	t, err := task.New(title, progress, deadline)
	if err != nil {
		return task.ValidateTitle(title)
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	st := sess.Board.Put(t)
	if err := saveBoard(cmd.Context(), sess); err != nil {
		return err
	}
	logActivity(sess.Config, board.ActionAdd, t.ID, t.Title)

	_, pos, _ := sess.Board.Locate(t.ID)
	entry := board.Entry{Task: t, Stage: st, Position: pos}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, entry)
	}

	output.Messagef(os.Stdout, "Added task %s: %s", t.ShortID(), t.Title)
	output.Messagef(os.Stdout, "  Stage: %s | Progress: %d%%", st, t.Progress)
	if t.Deadline != nil {
		output.Messagef(os.Stdout, "  Deadline: %s", t.Deadline)
	}
	return nil
}

// resolveAddTitle returns the task title from either the positional arg or --title flag.
func resolveAddTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagTitle, nil
	default:
		return "", errors.New("title is required: provide it as an argument or with --title")
	}
}

// parseProgressFlag reads --progress as an integer. Values outside 0-100 are
// clamped rather than rejected.
func parseProgressFlag(cmd *cobra.Command) (int, error) {
	v, _ := cmd.Flags().GetString("progress")
	v = strings.TrimSuffix(strings.TrimSpace(v), "%")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, task.ValidateProgress(v)
	}
	return task.ClampProgress(n), nil
}

func parseDeadlineFlag(cmd *cobra.Command) (*date.Date, error) {
	v, _ := cmd.Flags().GetString("deadline")
	if v == "" {
		return nil, nil
	}
	d, err := date.Parse(v)
	if err != nil {
		return nil, task.FormatDeadline(v, err)
	}
	return &d, nil
}
