// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xvierd/streak-cli/internal/domain"
	"github.com/xvierd/streak-cli/internal/logging"
	"github.com/xvierd/streak-cli/internal/ports"
)

// RecordStore owns the AppState of one session and is the only sanctioned
// way to change it. Every mutation is saved through the StateStore before the
// call returns.
//
// The caller creates a RecordStore once at session start with Open and keeps
// the handle for the rest of the session; there is no teardown. All
// operations, reads included, are serialized on one mutex so a
// read-modify-write-save sequence is never interleaved with another.
//
// When a save fails the in-memory change is kept and the error is returned.
// The caller should treat memory and disk as out of sync until a later save
// succeeds or Reload is called.
type RecordStore struct {
	mu     sync.Mutex
	store  ports.StateStore
	state  *domain.AppState
	now    func() time.Time
	logger *log.Logger
}

// Ensure RecordStore implements ports.RecordStore.
var _ ports.RecordStore = (*RecordStore)(nil)

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithClock sets the clock used for created_at stamps and "today".
func WithClock(now func() time.Time) Option {
	return func(s *RecordStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *RecordStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads the state from store and returns a RecordStore holding it.
func Open(ctx context.Context, store ports.StateStore, opts ...Option) (*RecordStore, error) {
	s := &RecordStore{
		store:  store,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	s.state = state
	return s, nil
}

// Location describes where the state is persisted.
func (s *RecordStore) Location() string {
	return s.store.Location()
}

// Today returns the current calendar date according to the store clock.
func (s *RecordStore) Today() string {
	return domain.FormatDate(s.now())
}

// Snapshot returns a deep copy of the current state for rendering or export.
func (s *RecordStore) Snapshot() *domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Reload discards the in-memory state and reads it again from storage.
func (s *RecordStore) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload state: %w", err)
	}
	s.state = state
	return nil
}

// AddTask appends a new open task. Blank text is ignored: nothing is created
// or saved and both return values are nil.
func (s *RecordStore) AddTask(ctx context.Context, text string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := domain.NewTask(text, s.now())
	if errors.Is(err, domain.ErrEmptyTaskText) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.state.Tasks = append(s.state.Tasks, task)
	return task.Clone(), s.persist(ctx, "add task")
}

// DeleteTask removes the task with the given id. It reports false, and saves
// nothing, when there is no such task.
func (s *RecordStore) DeleteTask(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.RemoveTask(id) {
		return false, nil
	}
	return true, s.persist(ctx, "delete task")
}

// ToggleTask flips the done flag of the task with the given id and returns
// the updated task, or nil when there is no such task.
func (s *RecordStore) ToggleTask(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.state.Task(id)
	if task == nil {
		return nil, nil
	}
	task.Toggle()
	return task.Clone(), s.persist(ctx, "toggle task")
}

// AddHabit appends a new habit with no completions. Blank names are ignored
// like blank task text.
func (s *RecordStore) AddHabit(ctx context.Context, name string) (*domain.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habit, err := domain.NewHabit(name, s.now())
	if errors.Is(err, domain.ErrEmptyHabitName) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.state.Habits = append(s.state.Habits, habit)
	return habit.Clone(), s.persist(ctx, "add habit")
}

// DeleteHabit removes the habit with the given id. It reports false, and
// saves nothing, when there is no such habit.
func (s *RecordStore) DeleteHabit(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.RemoveHabit(id) {
		return false, nil
	}
	return true, s.persist(ctx, "delete habit")
}

// SetHabitToday marks or unmarks today's date for the habit with the given
// id. Repeating the call is a no-op and does not write. Returns nil when
// there is no such habit.
func (s *RecordStore) SetHabitToday(ctx context.Context, id string, completed bool) (*domain.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habit := s.state.Habit(id)
	if habit == nil {
		return nil, nil
	}
	if !habit.SetCompleted(domain.FormatDate(s.now()), completed) {
		return habit.Clone(), nil
	}
	return habit.Clone(), s.persist(ctx, "set habit today")
}

// ClearAll replaces the state with the empty default and saves it. It does
// not ask for confirmation.
func (s *RecordStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.NewAppState()
	return s.persist(ctx, "clear all")
}

// persist saves the whole state. Callers hold s.mu.
func (s *RecordStore) persist(ctx context.Context, op string) error {
	if err := s.store.Save(ctx, s.state); err != nil {
		s.logger.Error("state not saved, memory and storage may differ", "op", op, "location", s.store.Location(), "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug("state saved", "op", op)
	return nil
}
