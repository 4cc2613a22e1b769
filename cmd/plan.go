/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/telemetry"
	"github.com/josephgoksu/TaskQuest/internal/ui"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build today's recommended plan",
	Long: `Pick today's tasks: important overdue and due-today work and daily habits
first, then backlog up to a target derived from your recent completions,
all within an eight hour budget.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withSession(cmd.Context(), func(s *session) error {
			plan := s.store.DailyPlan()
			telemetry.TrackAll(s.telemetry, telemetry.PlanEvent(plan))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderPlan(plan))
			return nil
		})
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show earned and locked badges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session) error {
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderBadges(s.store.Profile().Badges))
			return nil
		})
	},
}

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Show today's challenge and your progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session) error {
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderChallenge(s.store.Profile().DailyChallenge))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(planCmd, badgesCmd, challengeCmd)
	planCmd.Flags().Bool("json", false, "output JSON")
}
