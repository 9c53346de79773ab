// Package persist reads and writes the board's task collection and notes
// through a kv.Store. Loading never fails: unreadable data degrades to an
// empty or partial collection and is logged.
package persist

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/taskboard/internal/kv"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

// Sentinel errors.
var (
	ErrWriteFailure   = errors.New("persistence write failure")
	ErrReadCorruption = errors.New("persistence read corruption")
)

// Flattener is anything that can produce the board's tasks in stage order.
type Flattener interface {
	Flatten() []task.Task
}

// Adapter binds the codec to a storage backend.
type Adapter struct {
	store kv.Store
	log   log.FieldLogger
}

// New creates an Adapter. A nil logger uses the standard logrus logger.
func New(store kv.Store, logger log.FieldLogger) *Adapter {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Adapter{store: store, log: logger}
}

// Load returns the persisted tasks. A missing entry yields an empty slice.
func (a *Adapter) Load(ctx context.Context) []task.Task {
	logger := a.log.WithField("entry", kv.TasksKey)

	data, err := a.store.Get(ctx, kv.TasksKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []task.Task{}
	}
	if err != nil {
		logger.WithError(err).Error("reading task collection")
		return []task.Task{}
	}

	tasks, dropped, err := Decode(data)
	if err != nil {
		logger.WithError(err).Warn("stored task collection is unreadable, starting empty")
		return []task.Task{}
	}
	for _, d := range dropped {
		logger.WithFields(log.Fields{"index": d.Index, "reason": d.Reason}).Warn("dropping malformed task record")
	}
	return tasks
}

// Save flattens the board and writes it as the task collection.
func (a *Adapter) Save(ctx context.Context, b Flattener) error {
	return a.SaveTasks(ctx, b.Flatten())
}

// SaveTasks writes tasks as the task collection, in the given order.
func (a *Adapter) SaveTasks(ctx context.Context, tasks []task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return a.writeFailed(kv.TasksKey, err)
	}
	if err := a.store.Set(ctx, kv.TasksKey, data); err != nil {
		return a.writeFailed(kv.TasksKey, err)
	}
	a.log.WithFields(log.Fields{"entry": kv.TasksKey, "tasks": len(tasks)}).Debug("saved task collection")
	return nil
}

// LoadNotes returns the notes text, or "" when none is stored.
func (a *Adapter) LoadNotes(ctx context.Context) string {
	data, err := a.store.Get(ctx, kv.NotesKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			a.log.WithField("entry", kv.NotesKey).WithError(err).Error("reading notes")
		}
		return ""
	}
	return string(data)
}

// SaveNotes replaces the notes text.
func (a *Adapter) SaveNotes(ctx context.Context, notes string) error {
	if err := a.store.Set(ctx, kv.NotesKey, []byte(notes)); err != nil {
		return a.writeFailed(kv.NotesKey, err)
	}
	return nil
}

func (a *Adapter) writeFailed(entry string, err error) error {
	a.log.WithField("entry", entry).WithError(err).Error("persisting board state failed")
	return fmt.Errorf("%w: %w", ErrWriteFailure, err)
}
