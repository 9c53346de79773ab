package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/dragdrop"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
	"github.com/twiced-technology-gmbh/taskboard/internal/session"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID[,ID,...] [TARGET]",
	Short: "Move a task to a different stage",
	Long: `Moves a task as if it were dragged on the board. TARGET is either a stage
(todo, in-progress, completed) or another task, in which case the task joins
that task's stage. Use --next/--prev to move one stage along the board.

With --to STAGE the move is explicit: --index N places the task at a position
inside the stage and allows reordering within the current stage. Explicit moves
that cannot be applied fail with INVALID_MOVE.

Moving never changes a task's progress.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Bool("next", false, "move to the next stage")
	moveCmd.Flags().Bool("prev", false, "move to the previous stage")
	moveCmd.Flags().String("to", "", "explicit target stage")
	moveCmd.Flags().Int("index", -1, "position within the target stage (with --to)")
	rootCmd.AddCommand(moveCmd)
}

// moveResult is the JSON form of a move.
type moveResult struct {
	ID string `json:"id"`
	dragdrop.Result
}

func runMove(cmd *cobra.Command, args []string) error {
	refs, err := task.ParseRefs(args[0])
	if err != nil {
		return err
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" && len(args) == 2 { //nolint:mnd // positional target
		return clierr.New(clierr.InvalidInput, "provide either TARGET or --to, not both")
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	if len(refs) == 1 {
		res, err := executeMove(cmd, sess, refs[0], args)
		if err != nil {
			return err
		}
		return outputMoveResult(res)
	}

	return runBatch(refs, func(ref string) error {
		_, err := executeMove(cmd, sess, ref, args)
		return err
	})
}

// executeMove resolves the task and target, applies the move and logs it.
func executeMove(cmd *cobra.Command, sess *session.Session, ref string, args []string) (moveResult, error) {
	e, err := findEntry(sess, ref)
	if err != nil {
		return moveResult{}, err
	}

	var res dragdrop.Result
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		res, err = explicitMove(cmd, sess, e, to)
	} else {
		var over string
		over, err = resolveDropTarget(cmd, sess, e, args)
		if err != nil {
			return moveResult{}, err
		}
		res, err = sess.Drops.OnDrop(cmd.Context(), e.Task.ID, over)
	}
	if err != nil {
		return moveResult{}, err
	}

	out := moveResult{ID: e.Task.ID, Result: res}
	if !res.Moved {
		out.From, out.To = e.Stage, e.Stage
		return out, nil
	}
	logActivity(sess.Config, board.ActionMove, e.Task.ID, string(res.From)+" -> "+string(res.To))
	if !res.Saved {
		return out, clierr.Newf(clierr.PersistenceWriteFailure,
			"task %s moved to %s but the board could not be saved", e.Task.ShortID(), res.To)
	}
	return out, nil
}

// resolveDropTarget turns the TARGET argument or --next/--prev into a drop
// target: a stage name or a task ID.
func resolveDropTarget(cmd *cobra.Command, sess *session.Session, e board.Entry, args []string) (string, error) {
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")
	all := stage.All()
	idx := e.Stage.Index()

	switch {
	case len(args) == 2: //nolint:mnd // positional target
		if st, ok := stage.Parse(args[1]); ok {
			return string(st), nil
		}
		over, err := findEntry(sess, args[1])
		if err != nil {
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) && cliErr.Code == clierr.TaskNotFound {
				return "", stageArgError(args[1])
			}
			return "", err
		}
		return over.Task.ID, nil
	case next:
		if idx >= len(all)-1 {
			return "", clierr.Newf(clierr.InvalidMove, "task %s is already in the last stage", e.Task.ShortID())
		}
		return string(all[idx+1]), nil
	case prev:
		if idx <= 0 {
			return "", clierr.Newf(clierr.InvalidMove, "task %s is already in the first stage", e.Task.ShortID())
		}
		return string(all[idx-1]), nil
	default:
		return "", clierr.New(clierr.InvalidInput, "provide a target stage or task, or use --next/--prev/--to")
	}
}

func stageArgError(arg string) error {
	_, err := stage.ParseArg(arg)
	return err
}

// explicitMove calls the board store directly so invalid moves surface.
func explicitMove(cmd *cobra.Command, sess *session.Session, e board.Entry, to string) (dragdrop.Result, error) {
	target, err := stage.ParseArg(to)
	if err != nil {
		return dragdrop.Result{}, err
	}
	opts := board.MoveOptions{}
	if cmd.Flags().Changed("index") {
		i, _ := cmd.Flags().GetInt("index")
		opts = board.AtIndex(i)
	}

	b, err := sess.Board.MoveTask(e.Task.ID, e.Stage, target, opts)
	if errors.Is(err, board.ErrInvalidMove) {
		return dragdrop.Result{}, clierr.Wrap(clierr.InvalidMove, err).
			WithDetails(map[string]any{"id": e.Task.ID, "from": e.Stage, "to": target})
	}
	if err != nil {
		return dragdrop.Result{}, err
	}

	res := dragdrop.Result{Moved: true, From: e.Stage, To: target, Board: b}
	if err := sess.Save(cmd.Context()); err != nil {
		sess.Log.WithError(err).Error("move applied but not saved")
		return res, nil
	}
	res.Saved = true
	return res, nil
}

func outputMoveResult(res moveResult) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}
	short := task.Task{ID: res.ID}.ShortID()
	if !res.Moved {
		output.Messagef(os.Stdout, "Task %s is already in %s", short, res.To)
		return nil
	}
	output.Messagef(os.Stdout, "Moved task %s: %s -> %s", short, res.From, res.To)
	return nil
}
