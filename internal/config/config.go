package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/josephgoksu/TaskQuest/internal/project"
)

// Config is the validated application configuration.
type Config struct {
	Data struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"data"`
	Storage struct {
		Backend     string `mapstructure:"backend" validate:"oneof=sqlite json yaml toml postgres"`
		PostgresURL string `mapstructure:"postgresURL" validate:"required_if=Backend postgres"`
	} `mapstructure:"storage"`
	User struct {
		ID   string `mapstructure:"id" validate:"required,max=64"`
		Name string `mapstructure:"name" validate:"max=64"`
	} `mapstructure:"user"`
	Server struct {
		Port           int      `mapstructure:"port" validate:"gte=1,lte=65535"`
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	Telemetry struct {
		Enabled bool   `mapstructure:"enabled"`
		APIKey  string `mapstructure:"apiKey"`
	} `mapstructure:"telemetry"`
	Verbose bool `mapstructure:"verbose"`
}

var validate = validator.New()

// Init wires viper to the environment and reads the first config file found.
// cfgFile, when set, is used verbatim. A missing file is not an error.
func Init(cfgFile string) error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(ConfigName)
		viper.SetConfigType("yaml")
		if dir := projectConfigDir(); dir != "" {
			viper.AddConfigPath(dir)
		}
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}
	mergeGlobalConfig()
	return nil
}

// projectConfigDir returns the nearest .taskquest directory above the
// working directory, bounded by the git root.
func projectConfigDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	ctx, err := project.NewDetector(afero.NewOsFs()).Detect(cwd)
	if err != nil {
		return ""
	}
	return ctx.ConfigDir()
}

// mergeGlobalConfig layers ~/.taskquest/config.yaml (written by `config set`)
// beneath the discovered config file.
func mergeGlobalConfig() {
	global, err := GlobalConfigFile()
	if err != nil || global == viper.ConfigFileUsed() {
		return
	}
	if _, err := os.Stat(global); err != nil {
		return
	}
	v := viper.New()
	v.SetConfigFile(global)
	if err := v.ReadInConfig(); err != nil {
		return
	}
	for _, key := range v.AllKeys() {
		if !viper.InConfig(key) {
			viper.SetDefault(key, v.Get(key))
		}
	}
}

// Load unmarshals and validates the current viper state.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = GetDataDir()
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %s", flattenValidation(err))
	}
	return &cfg, nil
}

func flattenValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		switch fe.Tag() {
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s (got %v)", key, fe.Param(), fe.Value()))
		case "required", "required_if":
			parts = append(parts, fmt.Sprintf("%s is required", key))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", key, fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(parts, "; ")
}
