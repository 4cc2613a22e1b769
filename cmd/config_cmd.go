/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/TaskQuest/internal/config"
	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/josephgoksu/TaskQuest/internal/telemetry"
	"github.com/josephgoksu/TaskQuest/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change configuration, preferences and telemetry",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		llmCfg, llmErr := config.LoadLLMConfig()

		var sb strings.Builder
		row := func(k string, v any) { fmt.Fprintf(&sb, "%-22s %v\n", k, v) }
		if used := viper.ConfigFileUsed(); used != "" {
			row("config file", used)
		}
		row("data.dir", cfg.Data.Dir)
		row("storage.backend", cfg.Storage.Backend)
		if cfg.Storage.PostgresURL != "" {
			row("storage.postgresURL", config.MaskSecret(cfg.Storage.PostgresURL))
		}
		row("user.id", cfg.User.ID)
		row("user.name", cfg.User.Name)
		row("server.port", cfg.Server.Port)
		row("server.allowedOrigins", strings.Join(cfg.Server.AllowedOrigins, ", "))
		if llmErr != nil {
			row("llm", llmErr)
		} else {
			row("llm.provider", llmCfg.Provider)
			row("llm.model", llmCfg.Model)
			key := "(not set)"
			if llmCfg.APIKey != "" {
				key = config.MaskSecret(llmCfg.APIKey)
			}
			row("llm.apiKey", key)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderPanel("Configuration", strings.TrimRight(sb.String(), "\n")))
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting in the global config file",
	Example: `  taskquest config set llm.provider anthropic
  taskquest config set llm.apiKeys.anthropic sk-ant-...
  taskquest config set storage.backend yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.SetValue(args[0], args[1])
		if err != nil {
			return err
		}
		shown := args[1]
		if lower := strings.ToLower(args[0]); strings.Contains(lower, "key") || strings.Contains(lower, "url") {
			shown = config.MaskSecret(shown)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], shown, path)
		return nil
	},
}

var configPrefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change profile preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch gamification.PreferencesPatch
		f := cmd.Flags()
		if f.Changed("theme") {
			v, _ := f.GetString("theme")
			th := gamification.Theme(v)
			if !th.IsValid() {
				return fmt.Errorf("invalid theme %q: use dark or light", v)
			}
			patch.Theme = &th
		}
		if f.Changed("celebrations") {
			v, _ := f.GetBool("celebrations")
			patch.Celebrations = &v
		}
		if f.Changed("sound") {
			v, _ := f.GetBool("sound")
			patch.Sound = &v
		}
		if f.Changed("default-horizon") {
			v, _ := f.GetString("default-horizon")
			h := task.Horizon(v)
			if err := validateEnums(h, "", "", ""); err != nil {
				return err
			}
			patch.DefaultHorizon = &h
		}
		if f.Changed("default-priority") {
			v, _ := f.GetString("default-priority")
			p := task.Priority(v)
			if err := validateEnums("", p, "", ""); err != nil {
				return err
			}
			patch.DefaultPriority = &p
		}
		name, _ := f.GetString("name")

		return withSession(cmd.Context(), func(s *session) error {
			renamed := s.store.SetProfileName(strings.TrimSpace(name))
			prefs := s.store.UpdatePreferences(patch)
			if renamed || f.NFlag() > 0 {
				if err := s.save(cmd.Context()); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name              %s\n", s.store.Profile().Name)
			fmt.Fprintf(out, "theme             %s\n", prefs.Theme)
			fmt.Fprintf(out, "celebrations      %t\n", prefs.Celebrations)
			fmt.Fprintf(out, "sound             %t\n", prefs.Sound)
			fmt.Fprintf(out, "default horizon   %s\n", prefs.DefaultHorizon)
			fmt.Fprintf(out, "default priority  %s\n", prefs.DefaultPriority)
			return nil
		})
	},
}

var configTelemetryCmd = &cobra.Command{
	Use:   "telemetry [status|enable|disable]",
	Short: "Manage anonymous usage statistics",
	Long: `TaskQuest can send anonymous usage events (completions, level-ups,
badges, plans) to improve the product. Task titles and descriptions are
never sent. Telemetry is off until you enable it.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"status", "enable", "disable"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.GetGlobalConfigDir()
		if err != nil {
			return err
		}
		tcfg, err := telemetry.LoadConfig(dir)
		if err != nil {
			return err
		}
		action := "status"
		if len(args) == 1 {
			action = args[0]
		}
		out := cmd.OutOrStdout()
		switch action {
		case "status":
		case "enable", "disable":
			tcfg.Enabled = action == "enable"
			if err := tcfg.Save(dir); err != nil {
				return fmt.Errorf("failed to %s telemetry: %w", action, err)
			}
		default:
			return fmt.Errorf("unknown action %q: use status, enable or disable", action)
		}
		if tcfg.Enabled {
			fmt.Fprintf(out, "📊 Telemetry: enabled\n   Anonymous ID: %s\n   To disable: taskquest config telemetry disable\n", tcfg.AnonymousID)
		} else {
			fmt.Fprintln(out, "📊 Telemetry: disabled\n   To enable: taskquest config telemetry enable")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configPrefsCmd, configTelemetryCmd)

	configPrefsCmd.Flags().String("name", "", "rename your profile")
	configPrefsCmd.Flags().String("theme", "", "dark or light")
	configPrefsCmd.Flags().Bool("celebrations", true, "show celebrations")
	configPrefsCmd.Flags().Bool("sound", true, "play sounds in clients that support it")
	configPrefsCmd.Flags().String("default-horizon", "", "horizon for new tasks")
	configPrefsCmd.Flags().String("default-priority", "", "priority for new tasks")
}
