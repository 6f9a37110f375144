// Package config provides configuration loading for the placefeed CLI.
//
// Configuration comes from placefeed.yaml (searched in the current
// directory, $HOME/.placefeed, and /etc/placefeed), overridden by
// PLACEFEED_* environment variables, overridden by CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config is the top-level configuration.
type Config struct {
	// Server configures the remote API.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Credential configures where the session credential is persisted.
	Credential CredentialConfig `yaml:"credential" mapstructure:"credential"`

	// History configures the local mutation history.
	History HistoryConfig `yaml:"history" mapstructure:"history"`

	// Log configures logging.
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// ServerConfig locates the remote API.
type ServerConfig struct {
	// BaseURL is the card/profile API root.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// AuthURL is the authentication API root. Defaults to BaseURL.
	AuthURL string `yaml:"auth_url" mapstructure:"auth_url" validate:"omitempty,url"`

	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds" validate:"min=1,max=300"`
}

// CredentialConfig locates the persisted credential.
type CredentialConfig struct {
	// Path is the credential file. Default: ~/.placefeed/credential.
	Path string `yaml:"path" mapstructure:"path" validate:"required"`
}

// HistoryConfig configures the local mutation history.
type HistoryConfig struct {
	// Enabled controls whether mutations are recorded locally.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Path is the sqlite database file. Default: ~/.placefeed/history.db.
	Path string `yaml:"path" mapstructure:"path"`

	// MaxEntries caps the history; oldest records are evicted first.
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries" validate:"min=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration defaults.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Server: ServerConfig{
			BaseURL:        "https://api.placefeed.dev/v1",
			TimeoutSeconds: 10,
		},
		Credential: CredentialConfig{
			Path: filepath.Join(home, ".placefeed", "credential"),
		},
		History: HistoryConfig{
			Enabled:    true,
			Path:       filepath.Join(home, ".placefeed", "history.db"),
			MaxEntries: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults fills optional fields that were left empty.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = d.Server.TimeoutSeconds
	}
	if c.Credential.Path == "" {
		c.Credential.Path = d.Credential.Path
	}
	if c.History.Path == "" {
		c.History.Path = d.History.Path
	}
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = d.History.MaxEntries
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate validates the configuration using struct tags, returning
// actionable messages.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors converts validator.ValidationErrors to
// user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

func formatSingleValidationError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "config.")
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, e.Tag())
	}
}
