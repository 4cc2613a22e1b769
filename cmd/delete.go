/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/ui"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <task_id>",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete a task",
	Long:    `Delete a task permanently. XP already earned from it is kept.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return withSession(cmd.Context(), func(s *session) error {
			t, err := s.resolveTask(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes && ui.IsInteractive() {
				fmt.Fprintf(out, "Delete '%s' (%s)? [y/N]: ", t.Title, ui.ShortID(t.ID))
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Fprintln(out, "Deletion cancelled.")
					return nil
				}
			}
			s.store.DeleteTask(t.ID)
			if err := s.save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted '%s'.\n", t.Title)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
}
