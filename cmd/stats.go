/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/persist"
	"github.com/josephgoksu/TaskQuest/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"profile", "me"},
	Short:   "Show your level, streaks and productivity statistics",
	Long: `Show the player profile with completion rates, the last seven days,
per-category progress and the productivity score.

With --watch the view refreshes whenever another process saves tasks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		return withSession(cmd.Context(), func(s *session) error {
			out := cmd.OutOrStdout()
			renderStats(out, s)
			if !watch {
				return nil
			}

			pathed, ok := s.backend.(interface{ Path() string })
			if !ok {
				return fmt.Errorf("--watch needs a local backend (sqlite, json, yaml or toml)")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			fmt.Fprintln(out, ui.StyleSubtle.Render("Watching for changes. Press Ctrl+C to stop."))
			return persist.Watch(ctx, pathed.Path(), func() {
				if err := s.store.Load(context.WithoutCancel(ctx)); err != nil {
					s.log.Warn("reload after change", "error", err)
					return
				}
				fmt.Fprint(out, "\033[H\033[2J")
				renderStats(out, s)
			})
		})
	},
}

func renderStats(w io.Writer, s *session) {
	fmt.Fprintln(w, ui.RenderProfile(s.store.Profile()))
	fmt.Fprint(w, ui.RenderStats(s.store.Stats()))
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolP("watch", "w", false, "refresh when tasks change")
}
