/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/josephgoksu/TaskQuest/internal/ui"
	"github.com/josephgoksu/TaskQuest/internal/util"
)

var subtaskCmd = &cobra.Command{
	Use:     "subtask",
	Aliases: []string{"sub"},
	Short:   "Manage a task's checklist",
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add <task_id> <title>",
	Short: "Append a subtask",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args[1:], " ")
		return withSession(cmd.Context(), func(s *session) error {
			t, err := s.resolveTask(args[0])
			if err != nil {
				return err
			}
			subs := append(append([]task.Subtask(nil), t.Subtasks...), task.Subtask{Title: title})
			updated, _ := s.store.UpdateTask(t.ID, task.Patch{Subtasks: subs})
			if err := s.save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderTaskDetail(updated, s.store.Today()))
			return nil
		})
	},
}

var subtaskToggleCmd = &cobra.Command{
	Use:   "toggle <task_id> <subtask_id>",
	Short: "Check or uncheck a subtask",
	Long:  `Toggle a subtask. Subtasks carry no XP and never complete their parent.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session) error {
			t, err := s.resolveTask(args[0])
			if err != nil {
				return err
			}
			subID, err := util.ResolveSubtaskID(t, args[1])
			if err != nil {
				return err
			}
			updated, _ := s.store.ToggleSubtask(t.ID, subID)
			if err := s.save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderTaskDetail(updated, s.store.Today()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(subtaskCmd)
	subtaskCmd.AddCommand(subtaskAddCmd, subtaskToggleCmd)
}
