package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/streak-cli/internal/config"
	"github.com/xvierd/streak-cli/internal/domain"
)

// ToggleFunc marks or unmarks a habit for today and returns the updated
// habit. It is called synchronously from Update.
type ToggleFunc func(id string, completed bool) (*domain.Habit, error)

// ChecklistModel is today's habit checklist. Space toggles the habit under
// the cursor through the ToggleFunc; the view always reflects the habit the
// store returned.
type ChecklistModel struct {
	habits   []*domain.Habit
	today    time.Time
	cursor   int
	toggle   ToggleFunc
	err      error
	quitting bool
	progress progress.Model
	theme    config.ThemeConfig
}

// NewChecklistModel creates a checklist over habits for the calendar day of
// today.
func NewChecklistModel(habits []*domain.Habit, today time.Time, toggle ToggleFunc, theme *config.ThemeConfig) ChecklistModel {
	resolved := resolveTheme(theme)
	pbar := progress.New(progress.WithGradient(resolved.ColorPending, resolved.ColorDone))
	pbar.Width = getTerminalWidth() - 8

	items := make([]*domain.Habit, len(habits))
	for i, h := range habits {
		items[i] = h.Clone()
	}

	return ChecklistModel{
		habits:   items,
		today:    today,
		toggle:   toggle,
		progress: pbar,
		theme:    resolved,
	}
}

// Init implements tea.Model.
func (m ChecklistModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m ChecklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 8
		if m.progress.Width < 10 {
			m.progress.Width = 10
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.habits)-1 {
				m.cursor++
			}
		case " ", "space", "x", "enter":
			m.toggleCurrent()
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *ChecklistModel) toggleCurrent() {
	if len(m.habits) == 0 || m.toggle == nil {
		return
	}
	h := m.habits[m.cursor]
	updated, err := m.toggle(h.ID, !h.IsCompletedOn(m.date()))
	m.err = err
	if updated != nil {
		m.habits[m.cursor] = updated
	}
}

func (m ChecklistModel) date() string {
	return domain.FormatDate(m.today)
}

// Progress returns today's completion counts for the habits on screen.
func (m ChecklistModel) Progress() domain.DailyProgress {
	state := &domain.AppState{Habits: m.habits}
	return state.ProgressOn(m.date())
}

// View implements tea.Model.
func (m ChecklistModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDone))
	pendingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPending))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorCursor)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  %s Habits for %s", m.theme.IconHabit, m.date())) + "\n\n")

	if len(m.habits) == 0 {
		b.WriteString(dimStyle.Render("  No habits yet. Add one with: streak habit add <name>") + "\n")
	}

	for i, h := range m.habits {
		box, style := "[ ]", pendingStyle
		if h.IsCompletedOn(m.date()) {
			box, style = "[x]", doneStyle
		}
		line := fmt.Sprintf("%s %s", box, h.Name)
		if streak := h.CurrentStreak(m.today); streak > 0 {
			line += fmt.Sprintf("  %s %d", m.theme.IconStreak, streak)
		}

		if i == m.cursor {
			b.WriteString(fmt.Sprintf("  %s %s\n", cursorStyle.Render("▸"), style.Bold(true).Render(line)))
		} else {
			b.WriteString(fmt.Sprintf("    %s\n", style.Render(line)))
		}
	}

	if len(m.habits) > 0 {
		p := m.Progress()
		b.WriteString("\n  " + m.progress.ViewAs(p.Ratio()) + "\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d done today", p.Done, p.Total)) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errStyle.Render("  "+m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑/↓ navigate · space toggle · q quit") + "\n")

	return b.String()
}

// RunChecklist launches the interactive habit checklist and blocks until
// the user quits.
func RunChecklist(habits []*domain.Habit, today time.Time, toggle ToggleFunc, theme *config.ThemeConfig) error {
	m := NewChecklistModel(habits, today, toggle, theme)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("checklist failed: %w", err)
	}
	return nil
}
