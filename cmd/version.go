/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/logger"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and recent crash logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "taskquest %s (%s/%s, %s)\n", version, runtime.GOOS, runtime.GOARCH, runtime.Version())
		logs, err := logger.ListCrashLogs()
		if err == nil && len(logs) > 0 {
			fmt.Fprintf(out, "\n%d crash log(s):\n", len(logs))
			for _, l := range logs {
				fmt.Fprintf(out, "  %s\n", l)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
