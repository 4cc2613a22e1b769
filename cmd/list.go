/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/josephgoksu/TaskQuest/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List tasks",
	Long: `List tasks, optionally narrowed by filters or switched to a derived view.

Views: today (due today, overdue, and daily tasks without a date),
month, year and rolled-over.`,
	Example: `  taskquest list --priority high --pending
  taskquest list --view month
  taskquest list --search report --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, _ := cmd.Flags().GetString("view")
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		return withSession(cmd.Context(), func(s *session) error {
			var tasks []task.Task
			switch view {
			case "":
				tasks = s.store.FilteredTasks(f)
			case "today":
				tasks = s.store.TodaysTasks()
			case "month":
				tasks = s.store.MonthlyTasks()
			case "year":
				tasks = s.store.YearlyTasks()
			case "rolled-over":
				tasks = s.store.RolledOverTasks()
			default:
				return fmt.Errorf("unknown view %q: use today, month, year or rolled-over", view)
			}
			return printTasks(cmd.OutOrStdout(), tasks, s.store.Today(), asJSON)
		})
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's tasks, including rolled-over ones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withSession(cmd.Context(), func(s *session) error {
			out := cmd.OutOrStdout()
			if err := printTasks(out, s.store.TodaysTasks(), s.store.Today(), asJSON); err != nil || asJSON {
				return err
			}
			if n := len(s.store.RolledOverTasks()); n > 0 {
				fmt.Fprintln(out, ui.StyleWarning.Render(fmt.Sprintf("%d task(s) rolled over from earlier days.", n)))
			}
			fmt.Fprintf(out, "Daily completion: %s\n", ui.ProgressBar(int(s.store.CompletionRate(task.HorizonDaily)), 100, 20))
			return nil
		})
	},
}

func printTasks(w io.Writer, tasks []task.Task, today string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}
	fmt.Fprint(w, ui.RenderTasks(tasks, today))
	return nil
}

func filterFromFlags(cmd *cobra.Command) (task.Filter, error) {
	fl := cmd.Flags()
	horizon, _ := fl.GetString("horizon")
	priority, _ := fl.GetString("priority")
	energy, _ := fl.GetString("energy")
	category, _ := fl.GetString("category")
	search, _ := fl.GetString("search")
	f := task.Filter{
		Horizon:     task.Horizon(horizon),
		Priority:    task.Priority(priority),
		EnergyLevel: task.EnergyLevel(energy),
		Category:    category,
		Search:      search,
	}
	if err := validateEnums(f.Horizon, f.Priority, f.EnergyLevel, ""); err != nil {
		return f, err
	}
	done, _ := fl.GetBool("done")
	pending, _ := fl.GetBool("pending")
	switch {
	case done && pending:
		return f, fmt.Errorf("--done and --pending are mutually exclusive")
	case done:
		f.IsCompleted = &done
	case pending:
		no := false
		f.IsCompleted = &no
	}
	return f, nil
}

func init() {
	rootCmd.AddCommand(listCmd, todayCmd)

	listCmd.Flags().String("view", "", "today, month, year or rolled-over")
	listCmd.Flags().StringP("horizon", "H", "", "filter by horizon")
	listCmd.Flags().StringP("priority", "p", "", "filter by priority")
	listCmd.Flags().String("energy", "", "filter by energy level")
	listCmd.Flags().String("category", "", "filter by category")
	listCmd.Flags().StringP("search", "s", "", "case-insensitive search in title and description")
	listCmd.Flags().Bool("done", false, "only completed tasks")
	listCmd.Flags().Bool("pending", false, "only open tasks")
	listCmd.Flags().Bool("json", false, "output JSON")
	todayCmd.Flags().Bool("json", false, "output JSON")
}
