package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/streak-cli/internal/domain"
)

// stateFile is the on-disk shape as read. Pointers tell a missing or null
// collection apart from an empty one.
type stateFile struct {
	Todos  *[]taskRecord  `json:"todos"`
	Habits *[]habitRecord `json:"habits"`
}

// stateSnapshot is the on-disk shape as written. Collections are never nil so
// empty ones round-trip as [].
type stateSnapshot struct {
	Todos  []taskRecord  `json:"todos"`
	Habits []habitRecord `json:"habits"`
}

type taskRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
}

type habitRecord struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	CreatedAt      string   `json:"created_at"`
	CompletedDates []string `json:"completed_dates"`
}

var (
	stateKeys = []string{"todos", "habits"}
	todoKeys  = []string{"id", "text", "done", "created_at"}
	habitKeys = []string{"id", "name", "created_at", "completed_dates"}
)

// checkKeySpelling rejects keys that match a known field only when case is
// ignored. encoding/json fills fields case-insensitively, so such keys would
// slip past the schema and overwrite validated values. It returns the JSON
// pointer of the offending object.
func checkKeySpelling(raw interface{}) (string, error) {
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return "", nil
	}
	if err := exactKeys(doc, stateKeys); err != nil {
		return "", err
	}
	for _, c := range []struct {
		key    string
		fields []string
	}{
		{"todos", todoKeys},
		{"habits", habitKeys},
	} {
		items, _ := doc[c.key].([]interface{})
		for i, item := range items {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if err := exactKeys(obj, c.fields); err != nil {
				return fmt.Sprintf("/%s/%d", c.key, i), err
			}
		}
	}
	return "", nil
}

func exactKeys(obj map[string]interface{}, known []string) error {
	for key := range obj {
		for _, want := range known {
			if key != want && strings.EqualFold(key, want) {
				return fmt.Errorf("key %q must be spelled %q", key, want)
			}
		}
	}
	return nil
}

// naiveTimestampLayout is accepted on read for files whose timestamps carry no
// zone (fractional seconds optional). Such values are taken as local time.
const naiveTimestampLayout = "2006-01-02T15:04:05"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(naiveTimestampLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func toSnapshot(state *domain.AppState) stateSnapshot {
	snap := stateSnapshot{
		Todos:  make([]taskRecord, 0, len(state.Tasks)),
		Habits: make([]habitRecord, 0, len(state.Habits)),
	}
	for _, t := range state.Tasks {
		snap.Todos = append(snap.Todos, taskRecord{
			ID:        t.ID,
			Text:      t.Text,
			Done:      t.Done,
			CreatedAt: formatTimestamp(t.CreatedAt),
		})
	}
	for _, h := range state.Habits {
		dates := h.CompletedDates
		if dates == nil {
			dates = []string{}
		}
		snap.Habits = append(snap.Habits, habitRecord{
			ID:             h.ID,
			Name:           h.Name,
			CreatedAt:      formatTimestamp(h.CreatedAt),
			CompletedDates: dates,
		})
	}
	return snap
}

// toState converts decoded records into an AppState, defaulting missing
// collections. It returns the names of the collections that were defaulted.
func (f stateFile) toState() (*domain.AppState, []string, error) {
	state := domain.NewAppState()
	var defaulted []string

	if f.Todos == nil {
		defaulted = append(defaulted, "todos")
	} else {
		for i, r := range *f.Todos {
			createdAt, err := parseTimestamp(r.CreatedAt)
			if err != nil {
				return nil, nil, fmt.Errorf("todos[%d].created_at: %w", i, err)
			}
			state.Tasks = append(state.Tasks, &domain.Task{
				ID:        r.ID,
				Text:      r.Text,
				Done:      r.Done,
				CreatedAt: createdAt,
			})
		}
	}

	if f.Habits == nil {
		defaulted = append(defaulted, "habits")
	} else {
		for i, r := range *f.Habits {
			createdAt, err := parseTimestamp(r.CreatedAt)
			if err != nil {
				return nil, nil, fmt.Errorf("habits[%d].created_at: %w", i, err)
			}
			for j, d := range r.CompletedDates {
				if _, err := domain.ParseDate(d); err != nil {
					return nil, nil, fmt.Errorf("habits[%d].completed_dates[%d]: %w", i, j, err)
				}
			}
			state.Habits = append(state.Habits, &domain.Habit{
				ID:             r.ID,
				Name:           r.Name,
				CreatedAt:      createdAt,
				CompletedDates: domain.UniqueDates(r.CompletedDates),
			})
		}
	}

	return state, defaulted, nil
}
