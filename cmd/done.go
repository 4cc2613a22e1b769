/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/telemetry"
	"github.com/josephgoksu/TaskQuest/internal/ui"
)

var doneCmd = &cobra.Command{
	Use:     "done <task_id>",
	Aliases: []string{"finish", "complete", "d"},
	Short:   "Mark a task as done",
	Long: `Complete a task by ID or unique ID prefix and collect its rewards:
XP, level-ups, streak progress, badges and the daily challenge.

With --undo the task is reopened. Its XP is taken back but streaks,
badges and challenge progress are kept.`,
	Example: `  taskquest done 3fa2
  taskquest done task-3fa2c1d0 --undo`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		undo, _ := cmd.Flags().GetBool("undo")
		return withSession(cmd.Context(), func(s *session) error {
			t, err := s.resolveTask(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if t.IsCompleted != undo {
				state := "open"
				if t.IsCompleted {
					state = "completed"
				}
				fmt.Fprintf(out, "Task '%s' (%s) is already %s.\n", t.Title, ui.ShortID(t.ID), state)
				return nil
			}

			res, _ := s.store.ToggleTask(t.ID)
			if err := s.save(cmd.Context()); err != nil {
				return err
			}
			if !res.Completed {
				p := s.store.Profile()
				fmt.Fprintf(out, "Reopened '%s'. XP is now %s (level %d).\n", t.Title, ui.FormatNumber(p.XP), p.Level)
				return nil
			}

			telemetry.TrackAll(s.telemetry, telemetry.CompletionEvents(res.Task, s.store.Profile(), res.Outcome)...)
			fmt.Fprint(out, ui.RenderNotifications(s.store.DrainNotifications()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
	doneCmd.Flags().Bool("undo", false, "reopen a completed task")
}
