package notification

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/streak-cli/internal/config"
	"github.com/xvierd/streak-cli/internal/domain"
)

type sent struct {
	title, message string
}

func recordingNotifier(enabled bool) (*Notifier, *[]sent) {
	var log []sent
	n := New(&config.NotificationConfig{Enabled: enabled})
	n.send = func(title, message string, _ any) error {
		log = append(log, sent{title, message})
		return nil
	}
	return n, &log
}

func habits(names ...string) *domain.AppState {
	state := domain.NewAppState()
	for i, name := range names {
		state.Habits = append(state.Habits, &domain.Habit{
			ID:             fmt.Sprintf("h-%d", i),
			Name:           name,
			CompletedDates: []string{},
		})
	}
	return state
}

func TestNotifier_Disabled(t *testing.T) {
	n, log := recordingNotifier(false)
	assert.False(t, n.IsEnabled())
	require.NoError(t, n.Notify("title", "message"))
	assert.Empty(t, *log)

	assert.False(t, New(nil).IsEnabled())
}

func TestRemindPending(t *testing.T) {
	n, log := recordingNotifier(true)
	state := habits("stretch", "water", "read")
	state.Habits[1].CompletedDates = []string{"2024-07-04"}

	due, err := RemindPending(n, state, "2024-07-04")
	require.NoError(t, err)
	assert.True(t, due)
	require.Len(t, *log, 1)
	assert.Equal(t, "🌱 2 habits left today", (*log)[0].title)
	assert.Equal(t, "stretch, read", (*log)[0].message)
}

func TestRemindPending_AllDone(t *testing.T) {
	n, log := recordingNotifier(true)
	state := habits("stretch")
	state.Habits[0].CompletedDates = []string{"2024-07-04"}

	due, err := RemindPending(n, state, "2024-07-04")
	require.NoError(t, err)
	assert.False(t, due)
	assert.Empty(t, *log)
}

func TestRemindPending_SendError(t *testing.T) {
	n, _ := recordingNotifier(true)
	n.send = func(string, string, any) error { return errors.New("no dbus") }

	due, err := RemindPending(n, habits("stretch"), "2024-07-04")
	assert.True(t, due)
	assert.EqualError(t, err, "no dbus")
}

func TestReminderMessage_Elides(t *testing.T) {
	state := habits("a", "b", "c", "d", "e", "f", "g")
	assert.Equal(t, "a, b, c, d, e and 2 more", ReminderMessage(state.Habits))
	assert.Equal(t, "🌱 1 habit left today", ReminderTitle(1))
}
