// Package domain contains the core records of streak: tasks, habits and the
// AppState that holds them. The types here know nothing about files, flags or
// terminals.
package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrEmptyTaskText  = errors.New("task text cannot be empty")
	ErrEmptyHabitName = errors.New("habit name cannot be empty")
	ErrTaskNotFound   = errors.New("task not found")
	ErrHabitNotFound  = errors.New("habit not found")
	ErrAmbiguousRef   = errors.New("reference matches more than one record")
	ErrInvalidDate    = errors.New("invalid calendar date")
	ErrPersist        = errors.New("failed to persist state")
)

// Task is a single to-do item.
type Task struct {
	ID        string
	Text      string
	Done      bool
	CreatedAt time.Time
}

// NewTask creates a pending task. The text is trimmed; blank text is rejected.
func NewTask(text string, createdAt time.Time) (*Task, error) {
	text = cleanLabel(text)
	if text == "" {
		return nil, ErrEmptyTaskText
	}

	return &Task{
		ID:        generateID(),
		Text:      text,
		Done:      false,
		CreatedAt: createdAt,
	}, nil
}

// cleanLabel trims s and replaces invalid UTF-8 with U+FFFD, so the value
// kept in memory is the one that survives JSON encoding.
func cleanLabel(s string) string {
	return strings.TrimSpace(strings.ToValidUTF8(s, "\uFFFD"))
}

// Toggle flips the done flag.
func (t *Task) Toggle() {
	t.Done = !t.Done
}

// Clone returns a copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// SortForDisplay returns the tasks ordered open first, then oldest first.
// The input slice is left untouched.
func SortForDisplay(tasks []*Task) []*Task {
	sorted := make([]*Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Done != sorted[j].Done {
			return !sorted[i].Done
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}
