/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/persist"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export tasks, profile and history as JSON, YAML or TOML",
	Long: `Write the full state to a file, or to stdout when no file is given.
The format follows the file extension unless --format is set.`,
	Example: `  taskquest export backup.yaml
  taskquest export --format toml > state.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatFor(cmd, args)
		if err != nil {
			return err
		}
		return withSession(cmd.Context(), func(s *session) error {
			data, err := persist.Marshal(s.store.Snapshot(), format)
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}
			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s\n", len(s.store.Tasks()), args[0])
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the current state with an exported snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatFor(cmd, args)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		snap, err := persist.Unmarshal(data, format)
		if err != nil {
			return wrapUser(fmt.Sprintf("%s is not a valid %s snapshot", args[0], format), err)
		}
		return withSession(cmd.Context(), func(s *session) error {
			s.store.Restore(snap)
			s.store.RefreshDailyChallenge()
			if err := s.save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks from %s\n", len(s.store.Tasks()), args[0])
			return nil
		})
	},
}

func formatFor(cmd *cobra.Command, args []string) (persist.Format, error) {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		switch format := persist.Format(f); format {
		case persist.FormatJSON, persist.FormatYAML, persist.FormatTOML:
			return format, nil
		default:
			return "", fmt.Errorf("invalid --format %q: use json, yaml or toml", f)
		}
	}
	if len(args) == 0 {
		return persist.FormatJSON, nil
	}
	return persist.FormatFromPath(args[0])
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().String("format", "", "json, yaml or toml")
	importCmd.Flags().String("format", "", "json, yaml or toml")
}
