// Package config provides centralized configuration for TaskQuest.
// All default values are defined here so there is a single source of truth.
package config

import (
	"github.com/josephgoksu/TaskQuest/internal/llm"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. TASKQUEST_STORAGE_BACKEND.
	EnvPrefix = "TASKQUEST"

	// ConfigName is the config file base name searched for by viper.
	ConfigName = ".taskquest"
)

// Defaults
const (
	DefaultBackend    = "sqlite"
	DefaultUserID     = "local"
	DefaultUserName   = "Adventurer"
	DefaultServerPort = 7420
)

// DefaultAllowedOrigins are the CORS origins accepted by the local API.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// SetDefaults registers every default with viper.
func SetDefaults() {
	viper.SetDefault("storage.backend", DefaultBackend)
	viper.SetDefault("user.id", DefaultUserID)
	viper.SetDefault("user.name", DefaultUserName)
	viper.SetDefault("llm.provider", string(llm.DefaultProvider))
	viper.SetDefault("server.port", DefaultServerPort)
	viper.SetDefault("server.allowedOrigins", DefaultAllowedOrigins)
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("verbose", false)
}
