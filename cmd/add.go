/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/logger"
	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/josephgoksu/TaskQuest/internal/ui"
)

var addCmd = &cobra.Command{
	Use:     "add <title>",
	Aliases: []string{"a", "new"},
	Short:   "Add a new task",
	Long: `Add a task. Horizon and priority default to your preferences.
XP is fixed when the task is created: priority points times the horizon multiplier.`,
	Example: `  taskquest add "Write weekly report" --priority high --due 2026-03-14
  taskquest add "Read 12 books" --horizon yearly --category Learning
  taskquest add "Stretch" --recurrence daily --energy low --minutes 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputFromFlags(cmd, strings.Join(args, " "))
		if err != nil {
			return err
		}
		logger.SetLastInput(in.Title)

		return withSession(cmd.Context(), func(s *session) error {
			t := s.store.AddTask(in)
			if err := s.save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSuccessPanel("Task added",
				fmt.Sprintf("%s  %s\n%s", ui.ShortID(t.ID), t.Title, ui.StyleXP.Render(fmt.Sprintf("+%d XP on completion", t.XPValue)))))
			return nil
		})
	},
}

func inputFromFlags(cmd *cobra.Command, title string) (task.Input, error) {
	f := cmd.Flags()
	desc, _ := f.GetString("description")
	horizon, _ := f.GetString("horizon")
	priority, _ := f.GetString("priority")
	category, _ := f.GetString("category")
	due, _ := f.GetString("due")
	recurrence, _ := f.GetString("recurrence")
	energy, _ := f.GetString("energy")
	minutes, _ := f.GetInt("minutes")
	tags, _ := f.GetStringSlice("tag")
	subtasks, _ := f.GetStringArray("subtask")

	in := task.Input{
		Title:            title,
		Description:      desc,
		Horizon:          task.Horizon(horizon),
		Priority:         task.Priority(priority),
		Category:         category,
		DueDate:          due,
		Recurrence:       task.Recurrence(recurrence),
		EnergyLevel:      task.EnergyLevel(energy),
		EstimatedMinutes: minutes,
		Tags:             tags,
		Subtasks:         subtasks,
	}
	if err := validateEnums(in.Horizon, in.Priority, in.EnergyLevel, in.Recurrence); err != nil {
		return in, err
	}
	if in.DueDate != "" {
		if _, err := task.ParseDate(in.DueDate); err != nil {
			return in, fmt.Errorf("invalid --due %q: use YYYY-MM-DD", in.DueDate)
		}
	}
	return in, nil
}

// validateEnums rejects unknown non-empty enum values.
func validateEnums(h task.Horizon, p task.Priority, e task.EnergyLevel, r task.Recurrence) error {
	switch {
	case h != "" && !h.IsValid():
		return fmt.Errorf("invalid horizon %q: use daily, monthly or yearly", h)
	case p != "" && !p.IsValid():
		return fmt.Errorf("invalid priority %q: use low, medium, high or critical", p)
	case e != "" && !e.IsValid():
		return fmt.Errorf("invalid energy %q: use low, medium or high", e)
	case r != "" && !r.IsValid():
		return fmt.Errorf("invalid recurrence %q: use none, daily, weekly or monthly", r)
	}
	return nil
}

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("description", "d", "", "task description")
	cmd.Flags().StringP("horizon", "H", "", "daily, monthly or yearly")
	cmd.Flags().StringP("priority", "p", "", "low, medium, high or critical")
	cmd.Flags().String("category", "", "category, e.g. Work or Health")
	cmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().String("recurrence", "", "none, daily, weekly or monthly")
	cmd.Flags().String("energy", "", "energy needed: low, medium or high")
	cmd.Flags().IntP("minutes", "m", 0, "estimated minutes (1-480)")
	cmd.Flags().StringSlice("tag", nil, "tag (repeatable or comma separated)")
}

func init() {
	rootCmd.AddCommand(addCmd)
	addTaskFlags(addCmd)
	addCmd.Flags().StringArray("subtask", nil, "subtask title (repeatable)")
}
