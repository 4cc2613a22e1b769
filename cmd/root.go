/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/TaskQuest/internal/config"
	"github.com/josephgoksu/TaskQuest/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskquest",
	Short: "TaskQuest - gamified daily, monthly and yearly tasks",
	Long: `TaskQuest turns your task list into a game.

Completing tasks earns XP, levels, streaks, badges and daily challenges.
Tasks live on a daily, monthly or yearly horizon; unfinished ones roll over
and show up again tomorrow.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.CommandPath())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		PrintError(err)
		os.Exit(1)
	}
}

// GetVersion returns the build version.
func GetVersion() string { return version }

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.taskquest/.taskquest.yaml or $HOME/.taskquest.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig loads .env, then the config file and environment, then sets up
// logging. Logs always go to stderr so stdout stays clean for data and MCP.
func initConfig() {
	_ = godotenv.Load()

	if err := config.Init(cfgFile); err != nil {
		PrintError(err)
		os.Exit(1)
	}
	logger.Setup(os.Stderr, viper.GetBool("verbose"))
	logger.SetVersion(version)
	logger.SetCrashDir(config.GetCrashLogDir())
}
