/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve tasks to AI assistants over MCP (stdio)",
	Long: `Run a Model Context Protocol server on stdin/stdout with the tools
add-task, list-tasks, toggle-task, daily-plan and profile.

Register it with your assistant, e.g.:
  { "command": "taskquest", "args": ["mcp"] }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			s.log.Info("starting mcp server", "version", version)
			return mcp.Run(ctx, &mcp.Handlers{Store: s.store, Telemetry: s.telemetry, Log: s.log}, version)
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
