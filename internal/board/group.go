package board

import (
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
)

// Deadline buckets, in display order.
const (
	BucketOverdue  = "overdue"
	BucketToday    = "today"
	BucketTomorrow = "tomorrow"
	BucketThisWeek = "this-week"
	BucketLater    = "later"
	BucketNone     = "no-deadline"
)

const weekDays = 7

// Buckets returns the deadline bucket names in display order.
func Buckets() []string {
	return []string{BucketOverdue, BucketToday, BucketTomorrow, BucketThisWeek, BucketLater, BucketNone}
}

// GroupSummary is one deadline bucket with per-stage counts.
type GroupSummary struct {
	Key    string              `json:"key"`
	Stages map[stage.Stage]int `json:"stages"`
	Total  int                 `json:"total"`
	Tasks  []Entry             `json:"tasks"`
}

// GroupedSummary holds entries grouped by deadline proximity.
type GroupedSummary struct {
	Groups []GroupSummary `json:"groups"`
}

// Bucket returns the deadline bucket of an entry relative to today.
func Bucket(e Entry, today date.Date) string {
	if e.Task.Deadline == nil {
		return BucketNone
	}
	days := today.DaysUntil(*e.Task.Deadline)
	switch {
	case days < 0:
		if e.Stage == stage.Completed {
			return BucketLater
		}
		return BucketOverdue
	case days == 0:
		return BucketToday
	case days == 1:
		return BucketTomorrow
	case days < weekDays:
		return BucketThisWeek
	default:
		return BucketLater
	}
}

// GroupByDeadline groups entries into deadline buckets. Empty buckets are
// omitted; entry order is preserved inside each bucket.
func GroupByDeadline(entries []Entry, today date.Date) GroupedSummary {
	byKey := make(map[string]*GroupSummary)
	for _, e := range entries {
		key := Bucket(e, today)
		g, ok := byKey[key]
		if !ok {
			g = &GroupSummary{Key: key, Stages: make(map[stage.Stage]int)}
			byKey[key] = g
		}
		g.Stages[e.Stage]++
		g.Total++
		g.Tasks = append(g.Tasks, e)
	}

	var out GroupedSummary
	for _, key := range Buckets() {
		if g, ok := byKey[key]; ok {
			out.Groups = append(out.Groups, *g)
		}
	}
	return out
}
