// Package telemetry reports anonymous gameplay events (completions, level-ups,
// badges, challenges, plans and applied suggestions) to PostHog. It is off
// unless the user enables it.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ConfigFileName is stored next to the global config file.
const ConfigFileName = "telemetry.json"

// Config is the persisted opt-in state.
type Config struct {
	Enabled bool `json:"enabled"`
	// AnonymousID is generated once and never tied to the profile name.
	AnonymousID string `json:"anonymous_id"`
}

// LoadConfig reads dir/telemetry.json. A missing file yields a disabled
// config with a fresh anonymous ID.
func LoadConfig(dir string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read telemetry config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse telemetry config: %w", err)
		}
	}
	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.New().String()
	}
	return cfg, nil
}

// Save writes the config with owner-only permissions.
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), data, 0600); err != nil {
		return fmt.Errorf("write telemetry config: %w", err)
	}
	return nil
}
