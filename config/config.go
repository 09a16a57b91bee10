// Package config defines the sequencer's configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ShowPath is the show file opened and saved by default.
	ShowPath string `koanf:"show_path"`

	// QLabHost and QLabPort address the QLab instance shows are pushed to.
	QLabHost string `koanf:"qlab_host"`
	QLabPort int    `koanf:"qlab_port"`

	// QLabPasscode is sent on connect; empty for workspaces without one.
	QLabPasscode string `koanf:"qlab_passcode"`

	// QLabTimeoutSeconds bounds the wait for each OSC reply.
	QLabTimeoutSeconds int `koanf:"qlab_timeout_seconds"`

	// QLabMaxRetries is how often an unanswered OSC message is resent.
	QLabMaxRetries int `koanf:"qlab_max_retries"`

	// QLabDryRun logs OSC writes instead of sending them.
	QLabDryRun bool `koanf:"qlab_dry_run"`

	// RandomSeed makes randomized orders reproducible; 0 picks a fresh seed per run.
	RandomSeed uint64 `koanf:"random_seed"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		ShowPath:           "show.json",
		QLabHost:           "localhost",
		QLabPort:           53000,
		QLabTimeoutSeconds: 10,
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.QLabHost == "" {
		return fmt.Errorf("%w: qlab_host must not be empty", ErrInvalidConfig)
	}
	if c.QLabPort <= 0 || c.QLabPort > 65535 {
		return fmt.Errorf("%w: qlab_port %d out of range", ErrInvalidConfig, c.QLabPort)
	}
	if c.QLabTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: qlab_timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.QLabMaxRetries < 0 {
		return fmt.Errorf("%w: qlab_max_retries must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return level
}
