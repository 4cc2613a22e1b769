/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/server"
	"github.com/josephgoksu/TaskQuest/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local JSON API and notification websocket",
	Long: `Start an HTTP server on 127.0.0.1 exposing tasks, views, the profile,
statistics and the daily plan as JSON, plus a websocket at
/ws/notifications streaming XP, level, badge and challenge events.

Every change is saved to the configured storage backend.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		return withSession(cmd.Context(), func(s *session) error {
			if !cmd.Flags().Changed("port") {
				port = s.cfg.Server.Port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(s.store, server.Options{
				Port:           port,
				AllowedOrigins: s.cfg.Server.AllowedOrigins,
				Logger:         s.log,
				Telemetry:      s.telemetry,
			})
			fmt.Fprintln(cmd.ErrOrStderr(), ui.StyleSuccess.Render(fmt.Sprintf("TaskQuest API listening on http://127.0.0.1:%d", port)))
			return srv.Run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from server.port)")
}
