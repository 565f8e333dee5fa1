package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak-cli/internal/adapters/tui"
	"github.com/xvierd/streak-cli/internal/domain"
)

var (
	listAll     bool
	listPending bool
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a new task",
	Long:  `Add a new task to the list. Without arguments on a terminal, prompts for the text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		text, ok := argsOrPrompt(args, "New task:", "what needs doing?")
		if !ok {
			return nil
		}

		task, err := app.store.AddTask(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}
		if task == nil {
			return errors.New("task text must not be blank")
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, taskJSON(task), "task")
		}

		fmt.Fprintf(out, "✅ Task added: %s (ID: %s)\n", task.Text, domain.ShortID(task.ID))
		return nil
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List tasks, open ones first. Use --pending to hide finished tasks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state := app.store.Snapshot()

		var tasks []*domain.Task
		for _, t := range domain.SortForDisplay(state.Tasks) {
			if listPending && !listAll && t.Done {
				continue
			}
			tasks = append(tasks, t)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			taskList := make([]map[string]interface{}, 0, len(tasks))
			for _, t := range tasks {
				taskList = append(taskList, taskJSON(t))
			}
			data := map[string]interface{}{
				"tasks": taskList,
				"count": len(taskList),
			}
			return printJSON(out, data, "tasks")
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		fmt.Fprintf(out, "%s Tasks (%d):\n\n", app.config.Theme.IconTask, len(tasks))
		for _, t := range tasks {
			fmt.Fprintf(out, "%s %s (ID: %s)\n", checkbox(t.Done), t.Text, domain.ShortID(t.ID))
		}
		return nil
	},
}

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done <ref>",
	Short: "Toggle a task between open and done",
	Long: `Toggle a task. The reference may be the task ID, an ID prefix, the
task text or a fragment that matches a single task.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ref := strings.Join(args, " ")
		target, err := app.store.ResolveTask(ref)
		if err != nil {
			return fmt.Errorf("%w: %q", err, ref)
		}

		task, err := app.store.ToggleTask(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		if task == nil {
			return fmt.Errorf("%w: %q", domain.ErrTaskNotFound, ref)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, taskJSON(task), "task")
		}

		if task.Done {
			fmt.Fprintf(out, "✅ Done: %s\n", task.Text)
		} else {
			fmt.Fprintf(out, "↩️  Reopened: %s\n", task.Text)
		}
		return nil
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete <ref>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ref := strings.Join(args, " ")
		target, err := app.store.ResolveTask(ref)
		if err != nil {
			return fmt.Errorf("%w: %q", err, ref)
		}

		found, err := app.store.DeleteTask(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: %q", domain.ErrTaskNotFound, ref)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]interface{}{"id": target.ID, "deleted": true}, "result")
		}

		fmt.Fprintf(out, "🗑️  Deleted task: %s\n", target.Text)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "List all tasks (default)")
	listCmd.Flags().BoolVarP(&listPending, "pending", "p", false, "List only open tasks")
	listCmd.MarkFlagsMutuallyExclusive("all", "pending")
}

// argsOrPrompt joins args into one string, or prompts for it on a terminal
// when there are none. ok is false when the user aborted the prompt.
func argsOrPrompt(args []string, title, placeholder string) (string, bool) {
	if len(args) > 0 || !isInteractive() {
		return strings.Join(args, " "), true
	}
	res := tui.RunTextPrompt(title, placeholder, &app.config.Theme)
	if res.Aborted {
		return "", false
	}
	return res.Value, true
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func taskJSON(t *domain.Task) map[string]interface{} {
	return map[string]interface{}{
		"id":         t.ID,
		"text":       t.Text,
		"done":       t.Done,
		"created_at": t.CreatedAt.Format(time.RFC3339),
	}
}
