package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/streak-cli/internal/domain"
)

func TestHabitFlow(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "habit", "add", "stretch")
	env.mustRun(t, "habit", "add", "drink water")

	out := env.mustRun(t, "habit", "check", "stretch")
	assert.Contains(t, out, "stretch done for")

	// repeating is a no-op
	env.mustRun(t, "habit", "check", "stretch")
	doc := env.readData(t)
	require.Len(t, doc["habits"], 2)
	assert.Len(t, doc["habits"][0]["completed_dates"], 1)

	out = env.mustRun(t, "today")
	assert.Contains(t, out, "1/2 habits (50%)")
	assert.Contains(t, out, "[x] stretch")
	assert.Contains(t, out, "[ ] drink water")

	out = env.mustRun(t, "--json", "habit", "history", "stretch")
	var history map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	assert.Equal(t, float64(1), history["streak"])
	assert.Len(t, history["recent"], 1)

	out = env.mustRun(t, "habit", "uncheck", "stretch")
	assert.Contains(t, out, "unmarked")
	doc = env.readData(t)
	assert.Empty(t, doc["habits"][0]["completed_dates"])

	out = env.mustRun(t, "habit", "list")
	assert.Contains(t, out, "[ ] stretch")

	env.mustRun(t, "habit", "delete", "water")
	doc = env.readData(t)
	require.Len(t, doc["habits"], 1)
	assert.Equal(t, "stretch", doc["habits"][0]["name"])
}

func TestHabit_UnknownRef(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "habit", "check", "yoga")
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)

	_, err = env.run(t, "habit", "add", "")
	assert.ErrorContains(t, err, "must not be blank")
}

func TestHabitHistory_Never(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "habit", "add", "meditate")

	out := env.mustRun(t, "habit", "history", "meditate")
	assert.Contains(t, out, "never completed")
	assert.Contains(t, out, "0 day streak")
}

func TestToday_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "habit", "add", "stretch")
	env.mustRun(t, "add", "buy milk")

	out := env.mustRun(t, "--json", "today")
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, float64(0), data["habits_done"])
	assert.Equal(t, float64(1), data["habits_total"])
	assert.Equal(t, float64(1), data["open_tasks"])
	assert.Equal(t, []interface{}{"stretch"}, data["pending_habits"])
}

func TestCheck_NeedsTerminal(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "check")
	assert.ErrorContains(t, err, "interactive terminal")
}

func TestRemind_NotificationsDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "habit", "add", "stretch")

	out := env.mustRun(t, "remind")
	assert.Contains(t, out, "1 habit left today: stretch")
	assert.Contains(t, out, "disabled")

	env.mustRun(t, "habit", "check", "stretch")
	out = env.mustRun(t, "remind")
	assert.Contains(t, out, "All habits done")
}
