package persist

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

// Dropped describes a record skipped while decoding.
type Dropped struct {
	Index  int
	Reason string
}

// Encode serializes tasks as a JSON list.
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return sonic.Marshal(tasks)
}

// Decode parses a stored collection. It fails only when data is not a JSON
// list; individual bad records are skipped and reported in dropped. Progress
// is clamped and the first occurrence of a duplicate ID wins.
func Decode(data []byte) (tasks []task.Task, dropped []Dropped, err error) {
	var raw []any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrReadCorruption, err)
	}
	if raw == nil {
		// "null" decodes without error but is not a list.
		if strings.TrimSpace(string(data)) != "[]" {
			return nil, nil, fmt.Errorf("%w: collection is not a list", ErrReadCorruption)
		}
	}

	tasks = make([]task.Task, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, item := range raw {
		t, reason := decodeRecord(item)
		if reason == "" && seen[t.ID] {
			reason = "duplicate id " + t.ID
		}
		if reason != "" {
			dropped = append(dropped, Dropped{Index: i, Reason: reason})
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, dropped, nil
}

func decodeRecord(item any) (task.Task, string) {
	rec, ok := item.(map[string]any)
	if !ok {
		return task.Task{}, "record is not an object"
	}

	var t task.Task

	switch id := rec["id"].(type) {
	case string:
		t.ID = strings.TrimSpace(id)
	case float64:
		// Numeric ids written by other clients are kept in decimal form.
		if id != math.Trunc(id) {
			return t, "non-integer id"
		}
		t.ID = strconv.FormatFloat(id, 'f', -1, 64)
	}
	if t.ID == "" {
		return t, "missing id"
	}

	title, _ := rec["title"].(string)
	t.Title = strings.TrimSpace(title)
	if t.Title == "" {
		return t, "missing title"
	}

	switch p := rec["progress"].(type) {
	case nil:
	case float64:
		if p != math.Trunc(p) || math.IsInf(p, 0) {
			return t, "non-integer progress"
		}
		t.Progress = task.ClampProgress(int(max(min(p, math.MaxInt32), math.MinInt32)))
	default:
		return t, "non-integer progress"
	}

	switch d := rec["deadline"].(type) {
	case nil:
	case string:
		if d != "" {
			parsed, err := date.Parse(d)
			if err != nil {
				return t, "bad deadline " + strconv.Quote(d)
			}
			t.Deadline = &parsed
		}
	default:
		return t, "bad deadline"
	}

	// An unknown pin falls back to classification rather than dropping the record.
	if name, ok := rec["stage"].(string); ok {
		if st, ok := stage.Parse(name); ok {
			t.Pinned = st
		}
	}

	return t, ""
}
