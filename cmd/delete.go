package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
	"github.com/twiced-technology-gmbh/taskboard/internal/session"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Removes a task from the board. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	refs, err := task.ParseRefs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(refs) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq,
			"batch delete requires --yes")
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	if len(refs) == 1 {
		return deleteSingleTask(cmd, sess, refs[0], yes)
	}

	return runBatch(refs, func(ref string) error {
		_, err := executeDelete(cmd, sess, ref)
		return err
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(cmd *cobra.Command, sess *session.Session, ref string, yes bool) error {
	e, err := findEntry(sess, ref)
	if err != nil {
		return err
	}

	// Require confirmation in TTY mode unless --yes.
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task %s %q? [y/N] ", e.Task.ShortID(), e.Task.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if _, err := executeDelete(cmd, sess, e.Task.ID); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     e.Task.ID,
			"title":  e.Task.Title,
			"stage":  e.Stage,
		})
	}

	output.Messagef(os.Stdout, "Deleted task %s: %s", e.Task.ShortID(), e.Task.Title)
	return nil
}

// executeDelete removes the task from whichever stage holds it, saves and logs.
func executeDelete(cmd *cobra.Command, sess *session.Session, ref string) (board.Entry, error) {
	e, err := findEntry(sess, ref)
	if err != nil {
		return board.Entry{}, err
	}
	if !sess.Board.Remove(e.Task.ID) {
		return e, nil
	}
	if err := saveBoard(cmd.Context(), sess); err != nil {
		return board.Entry{}, err
	}
	logActivity(sess.Config, board.ActionDelete, e.Task.ID, e.Task.Title)
	return e, nil
}
