// Package config provides configuration loading for the actor runtime:
// YAML or JSON files, environment overrides and hot reload.
package config

import (
	"fmt"
	"log/slog"
	"strings"
)

type (
	// Config is the root configuration.
	Config struct {
		Log       LogConfig       `yaml:"log" json:"log"`
		Scheduler SchedulerConfig `yaml:"scheduler" json:"scheduler"`
	}

	// LogConfig controls the slog setup. Level can be changed at runtime
	// through the watcher.
	LogConfig struct {
		// Level is one of debug, info, warn, error.
		Level string `yaml:"level" json:"level"`
		// Format is "text" or "json".
		Format string `yaml:"format" json:"format"`
	}

	// SchedulerConfig controls the worker pool backing a system.
	SchedulerConfig struct {
		// MaxWorkers caps concurrently running reactions. 0 means the
		// runtime default.
		MaxWorkers int `yaml:"max_workers" json:"max_workers"`
		// MailboxWarnDepth logs a warning when an actor's mailbox reaches
		// this depth. 0 disables the warning.
		MailboxWarnDepth int `yaml:"mailbox_warn_depth" json:"mailbox_warn_depth"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Scheduler: SchedulerConfig{
			MaxWorkers:       0,
			MailboxWarnDepth: 10_000,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	if c.Scheduler.MaxWorkers < 0 {
		return fmt.Errorf("invalid max_workers: %d", c.Scheduler.MaxWorkers)
	}
	if c.Scheduler.MailboxWarnDepth < 0 {
		return fmt.Errorf("invalid mailbox_warn_depth: %d", c.Scheduler.MailboxWarnDepth)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %q", l.Level)
	}
}
