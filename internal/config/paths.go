package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.taskquest).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskquest"), nil
}

// GetDataDir returns the directory holding snapshots and the database.
// Resolution order (first match wins):
// 1. Explicit config via "data.dir" (Viper/env/flag)
// 2. XDG_DATA_HOME/taskquest (if XDG_DATA_HOME is set)
// 3. Global fallback: ~/.taskquest/data
func GetDataDir() string {
	if dir := viper.GetString("data.dir"); dir != "" {
		return dir
	}
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "taskquest")
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(dir, "data")
}

// GetCrashLogDir returns where crash reports are written.
func GetCrashLogDir() string {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "taskquest", "crash_logs")
	}
	return filepath.Join(dir, "crash_logs")
}

// GlobalConfigFile is the file written by `config set`.
func GlobalConfigFile() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
