package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xvierd/streak-cli/internal/domain"
	"github.com/xvierd/streak-cli/internal/ports"
)

// recentInReport is how many completions the habit table shows.
const recentInReport = 3

// Markdown renders a human-readable summary: today's progress, a habit
// table with streaks and the task list in display order.
type Markdown struct {
	Now func() time.Time
}

var _ ports.Exporter = Markdown{}

// Format implements ports.Exporter.
func (Markdown) Format() string { return FormatMarkdown }

// Export implements ports.Exporter.
func (m Markdown) Export(ctx context.Context, w io.Writer, state *domain.AppState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(w, m.Render(state))
	return err
}

// Render returns the Markdown document for state.
func (m Markdown) Render(state *domain.AppState) string {
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	today := domain.FormatDate(now)

	var b strings.Builder
	b.WriteString("# streak report\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n\n", now.Format("2006-01-02 15:04"))

	progress := state.ProgressOn(today)
	fmt.Fprintf(&b, "## Today (%s)\n\n", today)
	fmt.Fprintf(&b, "%d/%d habits done (%.0f%%), %d open tasks\n\n",
		progress.Done, progress.Total, progress.Ratio()*100, state.OpenTasks())

	b.WriteString("## Habits\n\n")
	if len(state.Habits) == 0 {
		b.WriteString("_No habits yet._\n\n")
	} else {
		b.WriteString("| Habit | Today | Streak | Recent |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, h := range state.Habits {
			mark := " "
			if h.IsCompletedOn(today) {
				mark = "✓"
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
				escapeCell(h.Name), mark, h.CurrentStreak(now),
				strings.Join(h.RecentCompletions(recentInReport), ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Tasks\n\n")
	if len(state.Tasks) == 0 {
		b.WriteString("_No tasks yet._\n")
		return b.String()
	}
	for _, t := range domain.SortForDisplay(state.Tasks) {
		box := "[ ]"
		if t.Done {
			box = "[x]"
		}
		fmt.Fprintf(&b, "- %s %s\n", box, t.Text)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
