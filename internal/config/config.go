// Package config loads the CLI settings: which dotenv hierarchy to load and
// how. Values come from built-in defaults, an optional YAML file and DOTENV_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gandalfthegui/dotenv/internal/envfile"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultFile is read when no config file is named explicitly. It is
// optional.
const DefaultFile = ".dotenv.yaml"

// EnvPrefix prefixes environment variables overriding config keys, e.g.
// DOTENV_ENV_KEY for env_key.
const EnvPrefix = "DOTENV"

// Config holds the CLI settings.
type Config struct {
	// Path is the base dotenv file of the hierarchy.
	Path string `mapstructure:"path" validate:"required"`
	// EnvKey names the variable selecting the environment-specific files.
	EnvKey string `mapstructure:"env_key" validate:"required,envname"`
	// DefaultEnv is used when EnvKey is unset.
	DefaultEnv string `mapstructure:"default_env" validate:"required"`
	// Override makes explicitly listed files overwrite existing variables.
	Override bool   `mapstructure:"override"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

var defaults = map[string]any{
	"path":        ".env",
	"env_key":     "APP_ENV",
	"default_env": "dev",
	"override":    false,
	"log_level":   "info",
}

// Load builds a Config. file names a YAML config file; when empty,
// DefaultFile is used if it exists. A named file that does not exist is an
// error.
func Load(file string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the Config for missing or malformed settings.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("envname", func(fl validator.FieldLevel) bool {
		return envfile.ValidName(fl.Field().String())
	}); err != nil {
		return err
	}

	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid config: %s fails %q (value %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value()))
	}
	return err
}
