// Package stage defines the fixed workflow stages of a board and the
// progress-to-stage classification rule.
package stage

import (
	"strings"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
)

// Stage is one workflow bucket a task can occupy.
type Stage string

// The fixed, ordered stage set.
const (
	ToDo       Stage = "To Do"
	InProgress Stage = "In Progress"
	Completed  Stage = "Completed"
)

// Progress boundaries, inclusive upper bounds.
const (
	ToDoMax       = 40
	InProgressMax = 80
)

// All returns the stages in board order.
func All() []Stage {
	return []Stage{ToDo, InProgress, Completed}
}

// Classify maps a progress value to its stage. Callers clamp progress to
// [0,100] beforehand; out-of-range values still land in the nearest stage.
func Classify(progress int) Stage {
	switch {
	case progress <= ToDoMax:
		return ToDo
	case progress <= InProgressMax:
		return InProgress
	default:
		return Completed
	}
}

// Valid reports whether s is one of the fixed stages.
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Index returns the position of s in board order, or -1.
func (s Stage) Index() int {
	for i, st := range All() {
		if st == s {
			return i
		}
	}
	return -1
}

// Slug returns the command-line form of the stage, e.g. "in-progress".
func (s Stage) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "-")
}

func (s Stage) String() string { return string(s) }

// Parse resolves a stage from its display name or slug, case-insensitively.
// "done" is accepted as an alias for Completed.
func Parse(name string) (Stage, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", "-", " ", "-").Replace(n)
	switch n {
	case "to-do", "todo":
		return ToDo, true
	case "in-progress", "inprogress", "doing":
		return InProgress, true
	case "completed", "done":
		return Completed, true
	}
	return "", false
}

// ParseArg is like Parse but returns a coded error naming the allowed stages.
func ParseArg(name string) (Stage, error) {
	if s, ok := Parse(name); ok {
		return s, nil
	}
	return "", clierr.Newf(clierr.InvalidStage, "invalid stage %q", name).
		WithDetails(map[string]any{
			"stage":   name,
			"allowed": Slugs(),
		})
}

// Slugs returns the command-line names of all stages in board order.
func Slugs() []string {
	all := All()
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.Slug()
	}
	return out
}
