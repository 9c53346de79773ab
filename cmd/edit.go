package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
	"github.com/twiced-technology-gmbh/taskboard/internal/session"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID[,ID,...]",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
The task stays in its current stage unless --reclassify is given, which moves
it to the stage its progress falls into.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("progress", "", "new progress percentage 0-100")
	editCmd.Flags().String("deadline", "", "new deadline (YYYY-MM-DD)")
	editCmd.Flags().Bool("clear-deadline", false, "clear the deadline")
	editCmd.Flags().Bool("reclassify", false, "move the task to the stage its progress falls into")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	refs, err := task.ParseRefs(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	// Single ID: full output.
	if len(refs) == 1 {
		return editSingleTask(cmd, sess, refs[0])
	}

	return runBatch(refs, func(ref string) error {
		_, err := executeEdit(cmd, sess, ref)
		return err
	})
}

// editSingleTask handles a single task edit with full output.
func editSingleTask(cmd *cobra.Command, sess *session.Session, ref string) error {
	e, err := executeEdit(cmd, sess, ref)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, e)
	}

	output.Messagef(os.Stdout, "Updated task %s: %s (%s, %d%%)", e.Task.ShortID(), e.Task.Title, e.Stage, e.Task.Progress)
	return nil
}

// executeEdit performs the core edit: find, apply, validate, save, log.
func executeEdit(cmd *cobra.Command, sess *session.Session, ref string) (board.Entry, error) {
	e, err := findEntry(sess, ref)
	if err != nil {
		return board.Entry{}, err
	}

	t := e.Task
	t.Pinned = ""
	changes, err := applyEditFlags(cmd, &t)
	if err != nil {
		return board.Entry{}, err
	}
	reclassify, _ := cmd.Flags().GetBool("reclassify")
	if len(changes) == 0 && !reclassify {
		return board.Entry{}, clierr.New(clierr.NoChanges, "no changes specified")
	}
	if err := t.Validate(); err != nil {
		return board.Entry{}, task.ValidateTitle(t.Title)
	}

	st := sess.Board.Put(t)
	if target := stage.Classify(t.Progress); reclassify && target != st {
		if _, err := sess.Board.MoveTask(t.ID, st, target, board.MoveOptions{}); err != nil {
			return board.Entry{}, clierr.Wrap(clierr.InvalidMove, err)
		}
		changes = append(changes, fmt.Sprintf("stage %s -> %s", st, target))
		st = target
	}
	if err := saveBoard(cmd.Context(), sess); err != nil {
		return board.Entry{}, err
	}

	logActivity(sess.Config, board.ActionEdit, t.ID, strings.Join(changes, ", "))
	_, pos, _ := sess.Board.Locate(t.ID)
	return board.Entry{Task: t, Stage: st, Position: pos}, nil
}

// applyEditFlags applies field edits and describes each change.
func applyEditFlags(cmd *cobra.Command, t *task.Task) ([]string, error) {
	var changes []string

	if v, _ := cmd.Flags().GetString("title"); v != "" {
		t.Title = strings.TrimSpace(v)
		changes = append(changes, "title")
	}
	if cmd.Flags().Changed("progress") {
		p, err := parseProgressFlag(cmd)
		if err != nil {
			return nil, err
		}
		if p != t.Progress {
			changes = append(changes, fmt.Sprintf("progress %d%% -> %d%%", t.Progress, p))
		}
		t.Progress = p
	}
	if cmd.Flags().Changed("deadline") {
		d, err := parseDeadlineFlag(cmd)
		if err != nil {
			return nil, err
		}
		t.Deadline = d
		if d == nil {
			changes = append(changes, "deadline cleared")
		} else {
			changes = append(changes, "deadline "+d.String())
		}
	}
	if clearDeadline, _ := cmd.Flags().GetBool("clear-deadline"); clearDeadline {
		t.Deadline = nil
		changes = append(changes, "deadline cleared")
	}
	return changes, nil
}
