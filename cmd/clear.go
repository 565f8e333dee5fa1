package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak-cli/internal/adapters/tui"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every task and habit",
	Long:  `Delete every task and habit. Asks for confirmation unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if !clearForce {
			if !isInteractive() {
				return errors.New("refusing to clear without --force")
			}
			res := tui.RunTextPrompt(`Type "yes" to delete everything:`, "yes", &app.config.Theme)
			if res.Aborted || !strings.EqualFold(res.Value, "yes") {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
				return nil
			}
		}

		state := app.store.Snapshot()
		if err := app.store.ClearAll(ctx); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]interface{}{
				"cleared":        true,
				"tasks_removed":  len(state.Tasks),
				"habits_removed": len(state.Habits),
			}, "result")
		}
		fmt.Fprintf(out, "🧹 Removed %d tasks and %d habits.\n", len(state.Tasks), len(state.Habits))
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "Skip the confirmation prompt")
}
