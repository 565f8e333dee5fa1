package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/streak-cli/internal/config"
	"github.com/xvierd/streak-cli/internal/domain"
)

var testToday = time.Date(2024, 7, 4, 9, 0, 0, 0, time.Local)

func key(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m tea.Model, keys ...string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m, cmd
}

func testHabits() []*domain.Habit {
	return []*domain.Habit{
		{ID: "h-1", Name: "stretch", CompletedDates: []string{"2024-07-03"}},
		{ID: "h-2", Name: "water", CompletedDates: []string{}},
	}
}

// fakeToggle applies toggles to its own copy of the habits, like a store.
func fakeToggle(habits []*domain.Habit, calls *[]string) ToggleFunc {
	byID := map[string]*domain.Habit{}
	for _, h := range habits {
		byID[h.ID] = h.Clone()
	}
	return func(id string, completed bool) (*domain.Habit, error) {
		mark := "-"
		if completed {
			mark = "+"
		}
		*calls = append(*calls, mark+id)
		h := byID[id]
		h.SetCompleted(domain.FormatDate(testToday), completed)
		return h.Clone(), nil
	}
}

func TestResolveTheme(t *testing.T) {
	defaults := config.DefaultThemeConfig()
	if got := resolveTheme(nil); got != defaults {
		t.Errorf("resolveTheme(nil) = %+v, want defaults", got)
	}

	partial := &config.ThemeConfig{ColorTitle: "#000000"}
	got := resolveTheme(partial)
	if got.ColorTitle != "#000000" {
		t.Errorf("explicit color overwritten: %q", got.ColorTitle)
	}
	if got.ColorDone != defaults.ColorDone {
		t.Errorf("empty color not filled: %q", got.ColorDone)
	}
}

func TestChecklist_ToggleFlow(t *testing.T) {
	var calls []string
	habits := testHabits()
	m := NewChecklistModel(habits, testToday, fakeToggle(habits, &calls), nil)

	next, _ := press(m, "space")
	cl := next.(ChecklistModel)
	if p := cl.Progress(); p.Done != 1 || p.Total != 2 {
		t.Errorf("after first toggle progress = %+v", p)
	}

	next, _ = press(cl, "down", "x", "space")
	cl = next.(ChecklistModel)

	want := []string{"+h-1", "+h-2", "-h-2"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("toggle calls = %v, want %v", calls, want)
	}
	if p := cl.Progress(); p.Done != 1 {
		t.Errorf("expected 1 done, got %+v", p)
	}
	if len(habits[0].CompletedDates) != 1 {
		t.Error("model must not mutate the caller's habits")
	}
}

func TestChecklist_CursorBounds(t *testing.T) {
	m := NewChecklistModel(testHabits(), testToday, nil, nil)

	next, _ := press(m, "up", "k")
	if next.(ChecklistModel).cursor != 0 {
		t.Error("cursor should stay at 0")
	}

	next, _ = press(m, "down", "j", "j")
	if next.(ChecklistModel).cursor != 1 {
		t.Error("cursor should stop at the last habit")
	}
}

func TestChecklist_ToggleError(t *testing.T) {
	toggle := func(string, bool) (*domain.Habit, error) {
		return nil, errors.New("persistence failed: disk full")
	}
	m := NewChecklistModel(testHabits(), testToday, toggle, nil)

	next, _ := press(m, "space")
	view := next.View()
	if !strings.Contains(view, "disk full") {
		t.Errorf("view should show the error, got:\n%s", view)
	}
	if next.(ChecklistModel).Progress().Done != 0 {
		t.Error("failed toggle should not change the view")
	}
}

func TestChecklist_Quit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m := NewChecklistModel(testHabits(), testToday, nil, nil)
		next, cmd := press(m, k)
		if cmd == nil {
			t.Fatalf("%s should return a quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should quit", k)
		}
		if !next.(ChecklistModel).quitting {
			t.Errorf("%s should set quitting", k)
		}
	}
}

func TestChecklist_View(t *testing.T) {
	m := NewChecklistModel(testHabits(), testToday, nil, nil)
	view := m.View()

	for _, want := range []string{"Habits for 2024-07-04", "stretch", "water", "0/2 done today", "🔥 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestChecklist_EmptyView(t *testing.T) {
	m := NewChecklistModel(nil, testToday, nil, nil)
	next, _ := press(m, "space")
	if !strings.Contains(next.View(), "No habits yet") {
		t.Error("empty checklist should hint at habit add")
	}
}

func TestChecklist_WindowResize(t *testing.T) {
	m := NewChecklistModel(testHabits(), testToday, nil, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if w := next.(ChecklistModel).progress.Width; w != 52 {
		t.Errorf("progress width = %d, want 52", w)
	}
}

func TestTextPrompt(t *testing.T) {
	m := newTextPromptModel("New task:", "what needs doing?", nil)

	next, _ := press(m, "  buy milk ", "enter")
	res := next.(textPromptModel).result()
	if res.Aborted || res.Value != "buy milk" {
		t.Errorf("result = %+v", res)
	}

	next, _ = press(m, "x", "esc")
	if !next.(textPromptModel).result().Aborted {
		t.Error("esc should abort")
	}
}
