package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak-cli/internal/domain"
)

// historyLimit is how many completions habit history shows.
const historyLimit = 10

// habitCmd groups the habit subcommands
var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage daily habits",
	Long:  `Add, list, check off and delete daily habits.`,
}

var habitAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new habit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		name, ok := argsOrPrompt(args, "New habit:", "e.g. stretch")
		if !ok {
			return nil
		}

		habit, err := app.store.AddHabit(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to add habit: %w", err)
		}
		if habit == nil {
			return errors.New("habit name must not be blank")
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, habitJSON(habit, app.store.Today()), "habit")
		}

		fmt.Fprintf(out, "%s Habit added: %s (ID: %s)\n", app.config.Theme.IconHabit, habit.Name, domain.ShortID(habit.ID))
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits with today's status and streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := app.store.Snapshot()
		today := app.store.Today()

		out := cmd.OutOrStdout()
		if jsonOutput {
			habits := make([]map[string]interface{}, 0, len(state.Habits))
			for _, h := range state.Habits {
				habits = append(habits, habitJSON(h, today))
			}
			return printJSON(out, map[string]interface{}{"habits": habits, "count": len(habits)}, "habits")
		}

		if len(state.Habits) == 0 {
			fmt.Fprintln(out, "No habits yet. Add one with: streak habit add <name>")
			return nil
		}

		fmt.Fprintf(out, "%s Habits (%d):\n\n", app.config.Theme.IconHabit, len(state.Habits))
		for _, h := range state.Habits {
			line := fmt.Sprintf("%s %s (ID: %s)", checkbox(h.IsCompletedOn(today)), h.Name, domain.ShortID(h.ID))
			if streak := h.CurrentStreak(todayTime(today)); streak > 0 {
				line += fmt.Sprintf("  %s %d", app.config.Theme.IconStreak, streak)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var habitCheckCmd = &cobra.Command{
	Use:   "check <ref>",
	Short: "Mark a habit as done today",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHabitToday(cmd, strings.Join(args, " "), true)
	},
}

var habitUncheckCmd = &cobra.Command{
	Use:   "uncheck <ref>",
	Short: "Unmark a habit for today",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHabitToday(cmd, strings.Join(args, " "), false)
	},
}

var habitDeleteCmd = &cobra.Command{
	Use:     "delete <ref>",
	Aliases: []string{"rm"},
	Short:   "Delete a habit and its history",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ref := strings.Join(args, " ")
		target, err := app.store.ResolveHabit(ref)
		if err != nil {
			return fmt.Errorf("%w: %q", err, ref)
		}

		found, err := app.store.DeleteHabit(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: %q", domain.ErrHabitNotFound, ref)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]interface{}{"id": target.ID, "deleted": true}, "result")
		}

		fmt.Fprintf(out, "🗑️  Deleted habit: %s\n", target.Name)
		return nil
	},
}

var habitHistoryCmd = &cobra.Command{
	Use:   "history <ref>",
	Short: "Show the most recent completions of a habit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := strings.Join(args, " ")
		habit, err := app.store.ResolveHabit(ref)
		if err != nil {
			return fmt.Errorf("%w: %q", err, ref)
		}

		recent := habit.RecentCompletions(historyLimit)
		streak := habit.CurrentStreak(todayTime(app.store.Today()))

		out := cmd.OutOrStdout()
		if jsonOutput {
			data := map[string]interface{}{
				"id":     habit.ID,
				"name":   habit.Name,
				"streak": streak,
				"recent": recent,
				"total":  len(habit.CompletedDates),
			}
			return printJSON(out, data, "history")
		}

		fmt.Fprintf(out, "%s %s: %d day streak, %d completions\n", app.config.Theme.IconStreak, habit.Name, streak, len(habit.CompletedDates))
		if len(recent) == 0 {
			fmt.Fprintln(out, "  never completed")
			return nil
		}
		for _, d := range recent {
			fmt.Fprintf(out, "  %s\n", d)
		}
		return nil
	},
}

func init() {
	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitCheckCmd)
	habitCmd.AddCommand(habitUncheckCmd)
	habitCmd.AddCommand(habitDeleteCmd)
	habitCmd.AddCommand(habitHistoryCmd)
}

func setHabitToday(cmd *cobra.Command, ref string, completed bool) error {
	ctx := context.Background()

	target, err := app.store.ResolveHabit(ref)
	if err != nil {
		return fmt.Errorf("%w: %q", err, ref)
	}

	habit, err := app.store.SetHabitToday(ctx, target.ID, completed)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if habit == nil {
		return fmt.Errorf("%w: %q", domain.ErrHabitNotFound, ref)
	}

	today := app.store.Today()
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, habitJSON(habit, today), "habit")
	}

	if completed {
		fmt.Fprintf(out, "✅ %s done for %s", habit.Name, today)
		if streak := habit.CurrentStreak(todayTime(today)); streak > 1 {
			fmt.Fprintf(out, " (%s %d days)", app.config.Theme.IconStreak, streak)
		}
		fmt.Fprintln(out)
	} else {
		fmt.Fprintf(out, "↩️  %s unmarked for %s\n", habit.Name, today)
	}
	return nil
}

// todayTime parses a store date back into a time for streak arithmetic.
func todayTime(date string) time.Time {
	t, err := domain.ParseDate(date)
	if err != nil {
		return time.Now()
	}
	return t
}

func habitJSON(h *domain.Habit, today string) map[string]interface{} {
	return map[string]interface{}{
		"id":              h.ID,
		"name":            h.Name,
		"created_at":      h.CreatedAt.Format(time.RFC3339),
		"completed_today": h.IsCompletedOn(today),
		"streak":          h.CurrentStreak(todayTime(today)),
		"completed_dates": h.SortedDates(false),
	}
}
