package domain

import (
	"sort"
	"time"
)

// Habit is a recurring daily activity. CompletedDates holds the calendar
// dates (YYYY-MM-DD) the habit was done, without duplicates.
type Habit struct {
	ID             string
	Name           string
	CreatedAt      time.Time
	CompletedDates []string
}

// NewHabit creates a habit with no completions. The name is trimmed; blank
// names are rejected.
func NewHabit(name string, createdAt time.Time) (*Habit, error) {
	name = cleanLabel(name)
	if name == "" {
		return nil, ErrEmptyHabitName
	}

	return &Habit{
		ID:             generateID(),
		Name:           name,
		CreatedAt:      createdAt,
		CompletedDates: []string{},
	}, nil
}

// IsCompletedOn reports whether date is among the completions.
func (h *Habit) IsCompletedOn(date string) bool {
	for _, d := range h.CompletedDates {
		if d == date {
			return true
		}
	}
	return false
}

// SetCompleted adds or removes date from the completions and reports whether
// anything changed. Repeating a call with the same arguments is a no-op.
func (h *Habit) SetCompleted(date string, completed bool) bool {
	if completed {
		if h.IsCompletedOn(date) {
			return false
		}
		h.CompletedDates = append(h.CompletedDates, date)
		return true
	}

	for i, d := range h.CompletedDates {
		if d == date {
			h.CompletedDates = append(h.CompletedDates[:i], h.CompletedDates[i+1:]...)
			return true
		}
	}
	return false
}

// SortedDates returns a sorted copy of the completions, newest first when
// newestFirst is set.
func (h *Habit) SortedDates(newestFirst bool) []string {
	dates := make([]string, len(h.CompletedDates))
	copy(dates, h.CompletedDates)
	if newestFirst {
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	} else {
		sort.Strings(dates)
	}
	return dates
}

// RecentCompletions returns at most n completions, newest first.
func (h *Habit) RecentCompletions(n int) []string {
	dates := h.SortedDates(true)
	if n >= 0 && len(dates) > n {
		dates = dates[:n]
	}
	return dates
}

// CurrentStreak counts consecutive completed days ending today. A streak
// that ended yesterday still counts while today is open.
func (h *Habit) CurrentStreak(today time.Time) int {
	done := make(map[string]bool, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		done[d] = true
	}

	day := midday(today)
	if !done[FormatDate(day)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for done[FormatDate(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// Clone returns a deep copy of the habit.
func (h *Habit) Clone() *Habit {
	c := *h
	c.CompletedDates = make([]string, len(h.CompletedDates))
	copy(c.CompletedDates, h.CompletedDates)
	return &c
}

// UniqueDates drops repeated dates, keeping the first occurrence. It never
// returns nil.
func UniqueDates(dates []string) []string {
	out := make([]string, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
