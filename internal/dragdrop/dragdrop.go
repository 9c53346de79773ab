// Package dragdrop turns a drag gesture (the dragged card and whatever it
// was dropped on) into a board move followed by a save.
package dragdrop

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/persist"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
)

// Saver persists the board after a successful move.
type Saver interface {
	Save(ctx context.Context, b persist.Flattener) error
}

// Result describes the outcome of a drop.
type Result struct {
	Moved bool        `json:"moved"`
	From  stage.Stage `json:"from,omitempty"`
	To    stage.Stage `json:"to,omitempty"`
	Saved bool        `json:"saved"`
	Board board.Board `json:"-"`
}

// Coordinator resolves drops against a board store.
type Coordinator struct {
	store *board.Store
	saver Saver
	log   log.FieldLogger
}

// New creates a Coordinator. A nil logger uses the standard logrus logger.
func New(store *board.Store, saver Saver, logger log.FieldLogger) *Coordinator {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Coordinator{store: store, saver: saver, log: logger}
}

// OnDrop moves activeID into the stage of overID, where overID is either
// another task's ID or a stage name (an empty column). Drops that do not
// resolve to a different stage are no-ops and never touch storage. A save
// failure is logged and reported through Result.Saved; the move stands.
func (c *Coordinator) OnDrop(ctx context.Context, activeID, overID string) (Result, error) {
	logger := c.log.WithFields(log.Fields{"task": activeID, "over": overID})
	noop := func(reason string) (Result, error) {
		logger.WithField("reason", reason).Debug("drop ignored")
		return Result{Board: c.store.Snapshot()}, nil
	}

	if activeID == "" || overID == "" {
		return noop("nothing to drop")
	}
	if activeID == overID {
		return noop("dropped on itself")
	}

	from, ok := c.store.StageOf(activeID)
	if !ok {
		return noop("unknown task")
	}
	to, ok := c.resolveTarget(overID)
	if !ok {
		return noop("unknown drop target")
	}
	if from == to {
		return noop("same stage")
	}

	b, err := c.store.MoveTask(activeID, from, to, board.MoveOptions{})
	if errors.Is(err, board.ErrInvalidMove) {
		// A concurrent move got there first.
		return noop(err.Error())
	}
	if err != nil {
		return Result{}, err
	}

	res := Result{Moved: true, From: from, To: to, Board: b}
	logger = logger.WithFields(log.Fields{"from": from, "to": to})
	if err := c.saver.Save(ctx, b); err != nil {
		logger.WithError(err).Error("move applied but not saved")
		return res, nil
	}
	res.Saved = true
	logger.Debug("task moved")
	return res, nil
}

func (c *Coordinator) resolveTarget(overID string) (stage.Stage, bool) {
	if st, ok := c.store.StageOf(overID); ok {
		return st, true
	}
	if st := stage.Stage(overID); st.Valid() {
		return st, true
	}
	return stage.Parse(overID)
}
