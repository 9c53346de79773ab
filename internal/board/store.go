package board

import (
	"errors"
	"fmt"
	"sync"

	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

// ErrInvalidMove is returned when a move cannot be applied. The board is left
// unchanged.
var ErrInvalidMove = errors.New("invalid move")

// MoveOptions tunes MoveTask.
type MoveOptions struct {
	// Index is the insert position in the target stage; nil appends.
	// Out-of-range values are clamped.
	Index *int
}

// AtIndex is a convenience for building MoveOptions with an index.
func AtIndex(i int) MoveOptions {
	return MoveOptions{Index: &i}
}

// Store owns the board and serializes every mutation.
type Store struct {
	mu    sync.Mutex
	board Board
	ids   map[string]struct{}
}

// NewStore creates a Store hydrated from tasks.
func NewStore(tasks []task.Task) *Store {
	s := &Store{}
	s.Hydrate(tasks)
	return s
}

// Hydrate replaces the board with tasks grouped by classification and
// returns a snapshot of the result.
func (s *Store) Hydrate(tasks []task.Task) Board {
	b := Hydrate(tasks)
	ids := make(map[string]struct{}, b.Len())
	for _, t := range b.Flatten() {
		ids[t.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = b
	s.ids = ids
	return s.board.clone()
}

// MoveTask moves the task id from one stage to another. Moving within the
// same stage is only allowed when an index is given.
func (s *Store) MoveTask(id string, from, to stage.Stage, opts MoveOptions) (Board, error) {
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q -> %q", ErrInvalidMove, from, to)
	}
	if from == to && opts.Index == nil {
		return nil, fmt.Errorf("%w: task %s is already in %s", ErrInvalidMove, id, to)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.board[from]
	pos := indexOf(src, id)
	if pos < 0 {
		return nil, fmt.Errorf("%w: task %s is not in %s", ErrInvalidMove, id, from)
	}
	moved := src[pos]

	next := s.board.clone()
	next[from] = append(next[from][:pos], next[from][pos+1:]...)

	dst := next[to]
	at := len(dst)
	if opts.Index != nil {
		at = min(max(*opts.Index, 0), len(dst))
	}
	dst = append(dst, task.Task{})
	copy(dst[at+1:], dst[at:])
	dst[at] = moved
	next[to] = dst

	s.board = next
	return s.board.clone(), nil
}

// Put inserts a new task into the stage its progress classifies into, or
// replaces an existing task's attributes without moving it. It returns the
// stage holding the task.
func (s *Store) Put(t task.Task) stage.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.Pinned = ""
	if st, pos, ok := s.locate(t.ID); ok {
		col := append([]task.Task{}, s.board[st]...)
		col[pos] = t
		s.board[st] = col
		return st
	}

	st := stage.Classify(t.Progress)
	s.board[st] = append(append([]task.Task{}, s.board[st]...), t)
	s.ids[t.ID] = struct{}{}
	return st
}

// Remove deletes the task from whichever stage holds it.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, pos, ok := s.locate(id)
	if !ok {
		return false
	}
	col := s.board[st]
	s.board[st] = append(append([]task.Task{}, col[:pos]...), col[pos+1:]...)
	delete(s.ids, id)
	return true
}

// Locate returns the stage and position of id.
func (s *Store) Locate(id string) (stage.Stage, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locate(id)
}

// StageOf returns the stage holding id.
func (s *Store) StageOf(id string) (stage.Stage, bool) {
	st, _, ok := s.Locate(id)
	return st, ok
}

// Get returns the task with the exact ID id.
func (s *Store) Get(id string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, pos, ok := s.locate(id)
	if !ok {
		return task.Task{}, false
	}
	return s.board[st][pos], true
}

// Snapshot returns a copy of the board.
func (s *Store) Snapshot() Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.clone()
}

// Flatten returns all tasks in stage order, then display order.
func (s *Store) Flatten() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Flatten()
}

// Counts returns the number of tasks in every stage.
func (s *Store) Counts() map[stage.Stage]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Counts()
}

// CheckInvariant verifies that every tracked task appears in exactly one
// stage and that no stage holds an untracked task.
func (s *Store) CheckInvariant() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]stage.Stage, len(s.ids))
	for st, col := range s.board {
		if !st.Valid() {
			return fmt.Errorf("board holds unknown stage %q", st)
		}
		for _, t := range col {
			if prev, dup := seen[t.ID]; dup {
				return fmt.Errorf("task %s appears in both %s and %s", t.ID, prev, st)
			}
			if _, ok := s.ids[t.ID]; !ok {
				return fmt.Errorf("task %s in %s is not tracked", t.ID, st)
			}
			seen[t.ID] = st
		}
	}
	if len(seen) != len(s.ids) {
		for id := range s.ids {
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("task %s was lost from the board", id)
			}
		}
	}
	return nil
}

func (s *Store) locate(id string) (stage.Stage, int, bool) {
	for _, st := range stage.All() {
		if pos := indexOf(s.board[st], id); pos >= 0 {
			return st, pos, true
		}
	}
	return "", -1, false
}

func indexOf(tasks []task.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
