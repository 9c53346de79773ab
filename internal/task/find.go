package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
)

// Find resolves ref against tasks. An exact ID match wins; otherwise ref must
// be a prefix of exactly one ID, so users can type the short form shown in
// listings.
func Find(tasks []Task, ref string) (Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, ValidateTaskID(ref)
	}

	var matches []Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return Task{}, clierr.Newf(clierr.TaskNotFound, "task not found: %s", ref).
			WithDetails(map[string]any{"id": ref})
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return Task{}, clierr.Newf(clierr.AmbiguousTaskID, "task ID prefix %q matches %d tasks", ref, len(matches)).
			WithDetails(map[string]any{"id": ref, "matches": ids})
	}
}

// ParseRefs splits a comma-separated list of task references, dropping
// blanks and duplicates.
func ParseRefs(arg string) ([]string, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[string]bool, len(parts))
	refs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		refs = append(refs, p)
	}
	if len(refs) == 0 {
		return nil, clierr.New(clierr.InvalidInput, "no valid task IDs provided")
	}
	return refs, nil
}
