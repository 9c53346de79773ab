// Package calendar projects task deadlines onto calendar days and keeps the
// user's ad hoc calendar events.
package calendar

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/kv"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

// Kind distinguishes deadlines from plain events.
type Kind string

// Event kinds.
const (
	KindDeadline Kind = "deadline"
	KindEvent    Kind = "event"
)

// Event is one entry on a calendar day.
type Event struct {
	Title  string    `json:"title"`
	Date   date.Date `json:"date"`
	Kind   Kind      `json:"type"`
	TaskID string    `json:"task_id,omitempty"`
}

// Input is a validated request to add an ad hoc event.
type Input struct {
	Title string
	Kind  Kind
}

// ValidateEvent checks user input for a new event. An empty kind means a
// plain event.
func ValidateEvent(title, kind string) (Input, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Input{}, clierr.New(clierr.InvalidEvent, "event title must not be empty").
			WithDetails(map[string]any{"field": "title"})
	}
	k := Kind(strings.ToLower(strings.TrimSpace(kind)))
	switch k {
	case "":
		k = KindEvent
	case KindDeadline, KindEvent:
	default:
		return Input{}, clierr.Newf(clierr.InvalidEvent, "invalid event type %q", kind).
			WithDetails(map[string]any{
				"field":   "type",
				"input":   kind,
				"allowed": []Kind{KindDeadline, KindEvent},
			})
	}
	return Input{Title: title, Kind: k}, nil
}

// Project turns every task deadline into a deadline event. Tasks without a
// deadline are skipped.
func Project(tasks []task.Task) []Event {
	var out []Event
	for _, t := range tasks {
		if t.Deadline == nil {
			continue
		}
		out = append(out, Event{Title: t.Title, Date: *t.Deadline, Kind: KindDeadline, TaskID: t.ID})
	}
	return out
}

// Day is one cell of a month grid.
type Day struct {
	Date    date.Date `json:"date"`
	InMonth bool      `json:"in_month"`
	Events  []Event   `json:"events,omitempty"`
}

const daysPerWeek = 7

// Month is a calendar month laid out as full weeks starting on Sunday.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Weeks [][]Day    `json:"weeks"`
	Total int        `json:"total_events"`
}

// BuildMonth lays out the given month and attaches events to their days.
// Events outside the visible weeks are ignored.
func BuildMonth(year int, month time.Month, events []Event) Month {
	first := date.New(year, month, 1)
	start := first.AddDays(-int(first.Weekday()))

	byDay := make(map[string][]Event)
	for _, ev := range events {
		byDay[ev.Date.String()] = append(byDay[ev.Date.String()], ev)
	}

	m := Month{Year: year, Month: month}
	for d := start; ; {
		week := make([]Day, 0, daysPerWeek)
		for range daysPerWeek {
			evs := byDay[d.String()]
			m.Total += len(evs)
			week = append(week, Day{Date: d, InMonth: d.Month() == month, Events: evs})
			d = d.AddDays(1)
		}
		m.Weeks = append(m.Weeks, week)
		if d.Month() != month || d.Year() != year {
			break
		}
	}
	return m
}

// Book stores ad hoc events in a kv.Store.
type Book struct {
	store kv.Store
	log   log.FieldLogger
}

// NewBook creates a Book. A nil logger uses the standard logrus logger.
func NewBook(store kv.Store, logger log.FieldLogger) *Book {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Book{store: store, log: logger}
}

// Events returns the stored ad hoc events. Unreadable data yields none.
func (b *Book) Events(ctx context.Context) []Event {
	data, err := b.store.Get(ctx, kv.EventsKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			b.log.WithField("entry", kv.EventsKey).WithError(err).Error("reading calendar events")
		}
		return nil
	}
	var events []Event
	if err := sonic.Unmarshal(data, &events); err != nil {
		b.log.WithField("entry", kv.EventsKey).WithError(err).Warn("stored calendar events are unreadable")
		return nil
	}
	return events
}

// Add stores a new event on day.
func (b *Book) Add(ctx context.Context, day date.Date, in Input) (Event, error) {
	ev := Event{Title: in.Title, Date: day, Kind: in.Kind}
	events := append(b.Events(ctx), ev)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date.Time) })

	data, err := sonic.Marshal(events)
	if err != nil {
		return Event{}, err
	}
	if err := b.store.Set(ctx, kv.EventsKey, data); err != nil {
		return Event{}, err
	}
	return ev, nil
}
