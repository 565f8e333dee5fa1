package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/streak-cli/internal/adapters/storage"
	"github.com/xvierd/streak-cli/internal/domain"
)

// fixedClock returns a settable clock for date-dependent tests.
func fixedClock(t time.Time) (func() time.Time, func(time.Time)) {
	var mu sync.Mutex
	now := t
	return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}, func(next time.Time) {
			mu.Lock()
			defer mu.Unlock()
			now = next
		}
}

func setupTestStore(t *testing.T, opts ...Option) (*RecordStore, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory(nil)
	store, err := Open(context.Background(), mem, opts...)
	require.NoError(t, err)
	return store, mem
}

func TestRecordStore_TaskScenario(t *testing.T) {
	store, mem := setupTestStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, "buy milk")
	require.NoError(t, err)
	require.NotNil(t, task)

	snap := store.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "buy milk", snap.Tasks[0].Text)
	assert.False(t, snap.Tasks[0].Done)

	toggled, err := store.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)
	assert.True(t, store.Snapshot().Tasks[0].Done)

	found, err := store.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, store.Snapshot().Tasks)

	assert.Equal(t, 3, mem.Saves())
	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted.Tasks)
}

func TestRecordStore_HabitScenario(t *testing.T) {
	now, _ := fixedClock(time.Date(2024, 7, 4, 21, 0, 0, 0, time.Local))
	store, mem := setupTestStore(t, WithClock(now))
	ctx := context.Background()

	habit, err := store.AddHabit(ctx, "stretch")
	require.NoError(t, err)
	require.NotNil(t, habit)
	assert.Empty(t, habit.CompletedDates)

	updated, err := store.SetHabitToday(ctx, habit.ID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-07-04"}, updated.CompletedDates)

	updated, err = store.SetHabitToday(ctx, habit.ID, false)
	require.NoError(t, err)
	assert.Empty(t, updated.CompletedDates)

	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	require.Len(t, persisted.Habits, 1)
	assert.Empty(t, persisted.Habits[0].CompletedDates)
}

func TestRecordStore_SetHabitTodayIdempotent(t *testing.T) {
	now, _ := fixedClock(time.Date(2024, 7, 4, 9, 0, 0, 0, time.Local))
	store, mem := setupTestStore(t, WithClock(now))
	ctx := context.Background()

	habit, err := store.AddHabit(ctx, "water")
	require.NoError(t, err)
	savesAfterAdd := mem.Saves()

	for i := 0; i < 2; i++ {
		_, err := store.SetHabitToday(ctx, habit.ID, true)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"2024-07-04"}, store.Snapshot().Habits[0].CompletedDates)
	assert.Equal(t, savesAfterAdd+1, mem.Saves(), "repeat call does not write")

	for i := 0; i < 2; i++ {
		_, err := store.SetHabitToday(ctx, habit.ID, false)
		require.NoError(t, err)
	}
	assert.Empty(t, store.Snapshot().Habits[0].CompletedDates)
	assert.Equal(t, savesAfterAdd+2, mem.Saves())
}

func TestRecordStore_SetHabitTodayFollowsClock(t *testing.T) {
	now, set := fixedClock(time.Date(2024, 7, 4, 23, 59, 0, 0, time.Local))
	store, _ := setupTestStore(t, WithClock(now))
	ctx := context.Background()

	habit, err := store.AddHabit(ctx, "journal")
	require.NoError(t, err)

	_, err = store.SetHabitToday(ctx, habit.ID, true)
	require.NoError(t, err)
	set(time.Date(2024, 7, 5, 0, 1, 0, 0, time.Local))
	_, err = store.SetHabitToday(ctx, habit.ID, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-07-04", "2024-07-05"}, store.Snapshot().Habits[0].CompletedDates)
	assert.Equal(t, "2024-07-05", store.Today())
}

func TestRecordStore_EmptyGuard(t *testing.T) {
	store, mem := setupTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\t\n"} {
		task, err := store.AddTask(ctx, text)
		assert.NoError(t, err)
		assert.Nil(t, task)

		habit, err := store.AddHabit(ctx, text)
		assert.NoError(t, err)
		assert.Nil(t, habit)
	}

	snap := store.Snapshot()
	assert.Empty(t, snap.Tasks)
	assert.Empty(t, snap.Habits)
	assert.Zero(t, mem.Saves(), "blank input triggers no write")
}

func TestRecordStore_TrimsInput(t *testing.T) {
	store, _ := setupTestStore(t)

	task, err := store.AddTask(context.Background(), "  call mum  ")
	require.NoError(t, err)
	assert.Equal(t, "call mum", task.Text)
}

func TestRecordStore_NotFoundIsNoop(t *testing.T) {
	store, mem := setupTestStore(t)
	ctx := context.Background()

	found, err := store.DeleteTask(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, found)

	task, err := store.ToggleTask(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, task)

	found, err = store.DeleteHabit(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, found)

	habit, err := store.SetHabitToday(ctx, "missing", true)
	assert.NoError(t, err)
	assert.Nil(t, habit)

	assert.Zero(t, mem.Saves())
}

func TestRecordStore_UniqueIDs(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		_, err := store.AddTask(ctx, fmt.Sprintf("task %d", i))
		require.NoError(t, err)
		_, err = store.AddHabit(ctx, fmt.Sprintf("habit %d", i))
		require.NoError(t, err)
	}

	snap := store.Snapshot()
	taskIDs := make(map[string]bool)
	for _, task := range snap.Tasks {
		assert.False(t, taskIDs[task.ID])
		taskIDs[task.ID] = true
	}
	habitIDs := make(map[string]bool)
	for _, h := range snap.Habits {
		assert.False(t, habitIDs[h.ID])
		habitIDs[h.ID] = true
	}
	assert.Len(t, taskIDs, 100)
	assert.Len(t, habitIDs, 100)
}

func TestRecordStore_InsertionOrder(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		_, err := store.AddTask(ctx, text)
		require.NoError(t, err)
	}
	snap := store.Snapshot()
	assert.Equal(t, "first", snap.Tasks[0].Text)
	assert.Equal(t, "third", snap.Tasks[2].Text)
}

func TestRecordStore_ClearAll(t *testing.T) {
	store, mem := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddTask(ctx, "a")
	require.NoError(t, err)
	_, err = store.AddHabit(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, store.ClearAll(ctx))

	snap := store.Snapshot()
	assert.NotNil(t, snap.Tasks)
	assert.NotNil(t, snap.Habits)
	assert.Empty(t, snap.Tasks)
	assert.Empty(t, snap.Habits)

	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted.Tasks)
	assert.Empty(t, persisted.Habits)
}

func TestRecordStore_SnapshotIsolation(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, "immutable")
	require.NoError(t, err)
	task.Text = "mutated return value"

	snap := store.Snapshot()
	snap.Tasks[0].Done = true
	snap.Tasks = append(snap.Tasks, &domain.Task{ID: "injected"})

	fresh := store.Snapshot()
	require.Len(t, fresh.Tasks, 1)
	assert.Equal(t, "immutable", fresh.Tasks[0].Text)
	assert.False(t, fresh.Tasks[0].Done)
}

func TestRecordStore_SaveFailureKeepsMutation(t *testing.T) {
	store, mem := setupTestStore(t)
	ctx := context.Background()

	mem.FailSaves(errors.New("disk full"))

	task, err := store.AddTask(ctx, "unsaved")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersist)
	require.NotNil(t, task)

	assert.Len(t, store.Snapshot().Tasks, 1, "no rollback")

	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted.Tasks)

	err = store.ClearAll(ctx)
	assert.ErrorIs(t, err, domain.ErrPersist)

	t.Run("reload resynchronises", func(t *testing.T) {
		mem.FailSaves(nil)
		require.NoError(t, store.Reload(ctx))
		assert.Empty(t, store.Snapshot().Tasks)
	})
}

func TestRecordStore_ConcurrentMutations(t *testing.T) {
	store, mem := setupTestStore(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task, err := store.AddTask(ctx, fmt.Sprintf("task %d", i))
			assert.NoError(t, err)
			_, err = store.ToggleTask(ctx, task.ID)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap := store.Snapshot()
	assert.Len(t, snap.Tasks, workers)
	for _, task := range snap.Tasks {
		assert.True(t, task.Done)
	}

	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted.Tasks, workers, "last save holds every mutation")
	assert.Equal(t, 2*workers, mem.Saves())
}

func TestRecordStore_WithJSONFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), storage.DefaultFileName)

	file, err := storage.NewJSONFile(path)
	require.NoError(t, err)
	store, err := Open(ctx, file)
	require.NoError(t, err)

	task, err := store.AddTask(ctx, "survives restart")
	require.NoError(t, err)
	habit, err := store.AddHabit(ctx, "stretch")
	require.NoError(t, err)
	_, err = store.SetHabitToday(ctx, habit.ID, true)
	require.NoError(t, err)

	reopened, err := Open(ctx, file)
	require.NoError(t, err)
	snap := reopened.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, task.ID, snap.Tasks[0].ID)
	require.Len(t, snap.Habits, 1)
	assert.Equal(t, []string{reopened.Today()}, snap.Habits[0].CompletedDates)
	assert.Equal(t, path, reopened.Location())
}
