package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak-cli/internal/adapters/notification"
	"github.com/xvierd/streak-cli/internal/adapters/tui"
	"github.com/xvierd/streak-cli/internal/domain"
)

// todayCmd represents the today command
var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's habit progress and open tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToday(cmd)
	},
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Interactive checklist of today's habits",
	Long:  `Open an interactive checklist. Space toggles the habit under the cursor and saves immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInteractive() {
			return fmt.Errorf("check needs an interactive terminal; use \"streak habit check <ref>\" instead")
		}

		ctx := setupSignalHandler()
		state := app.store.Snapshot()
		toggle := func(id string, completed bool) (*domain.Habit, error) {
			return app.store.SetHabitToday(ctx, id, completed)
		}
		return tui.RunChecklist(state.Habits, todayTime(app.store.Today()), toggle, &app.config.Theme)
	},
}

// remindCmd represents the remind command
var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send a desktop reminder for habits not done today",
	Long: `Send a desktop notification listing the habits not yet completed today.
Nothing is sent when every habit is done or notifications are disabled.
Suitable for cron.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state := app.store.Snapshot()
		today := app.store.Today()
		pending := state.PendingHabitsOn(today)

		out := cmd.OutOrStdout()
		if jsonOutput {
			names := make([]string, 0, len(pending))
			for _, h := range pending {
				names = append(names, h.Name)
			}
			if err := printJSON(out, map[string]interface{}{"date": today, "pending": names}, "reminder"); err != nil {
				return err
			}
		}

		due, err := notification.RemindPending(app.notifier, state, today)
		if err != nil {
			return fmt.Errorf("failed to send reminder: %w", err)
		}
		if jsonOutput {
			return nil
		}
		if !due {
			fmt.Fprintln(out, "🎉 All habits done for today.")
			return nil
		}

		fmt.Fprintf(out, "%s: %s\n", notification.ReminderTitle(len(pending)), notification.ReminderMessage(pending))
		if !app.notifier.IsEnabled() {
			fmt.Fprintln(out, "(desktop notifications are disabled)")
		}
		return nil
	},
}

func runToday(cmd *cobra.Command) error {
	state := app.store.Snapshot()
	today := app.store.Today()
	progress := state.ProgressOn(today)

	out := cmd.OutOrStdout()
	if jsonOutput {
		pending := make([]string, 0)
		for _, h := range state.PendingHabitsOn(today) {
			pending = append(pending, h.Name)
		}
		data := map[string]interface{}{
			"date":           today,
			"habits_done":    progress.Done,
			"habits_total":   progress.Total,
			"ratio":          progress.Ratio(),
			"pending_habits": pending,
			"open_tasks":     state.OpenTasks(),
		}
		return printJSON(out, data, "progress")
	}

	fmt.Fprintf(out, "%s Today %s: %d/%d habits (%.0f%%)\n",
		app.config.Theme.IconHabit, today, progress.Done, progress.Total, progress.Ratio()*100)
	for _, h := range state.Habits {
		fmt.Fprintf(out, "  %s %s\n", checkbox(h.IsCompletedOn(today)), h.Name)
	}
	fmt.Fprintf(out, "%s %d open tasks\n", app.config.Theme.IconTask, state.OpenTasks())
	return nil
}
