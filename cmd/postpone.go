/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/ui"
)

var postponeCmd = &cobra.Command{
	Use:     "postpone <task_id>",
	Aliases: []string{"snooze"},
	Short:   "Move a task's due date to tomorrow",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session) error {
			t, err := s.resolveTask(args[0])
			if err != nil {
				return err
			}
			updated, _ := s.store.PostponeTask(t.ID)
			if err := s.save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Postponed '%s' (%s) to %s.\n", updated.Title, ui.ShortID(updated.ID), updated.DueDate)
			return nil
		})
	},
}

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Show the single most important task for today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session) error {
			t, ok := s.store.TodaysFocus()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess.Render("Nothing left for today. Enjoy the break!"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderPanel("Today's focus", ui.RenderTaskDetail(t, s.store.Today())))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(postponeCmd, focusCmd)
}
