package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents the configuration file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Loader loads configuration from files and the environment.
type Loader struct {
	searchPaths []string
	envPrefix   string
	defaults    *Config
}

// NewLoader creates a loader with the default search paths and the
// "ACTORS" environment prefix.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: []string{".", "./config", "/etc/actors"},
		envPrefix:   "ACTORS",
		defaults:    DefaultConfig(),
	}
}

// SetSearchPaths overrides the configuration file search paths.
func (l *Loader) SetSearchPaths(paths []string) *Loader {
	l.searchPaths = paths
	return l
}

// SetEnvPrefix overrides the environment variable prefix.
func (l *Loader) SetEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// SetDefaults overrides the default configuration the loader starts from.
func (l *Loader) SetDefaults(cfg *Config) *Loader {
	l.defaults = cfg
	return l
}

// LoadFromFile loads configuration from filename, applies environment
// overrides and validates the result.
func (l *Loader) LoadFromFile(filename string) (*Config, error) {
	format, err := formatOf(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := l.parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return l.finish(cfg)
}

// AutoLoad discovers a configuration file in the search paths, falling
// back to the defaults (plus environment overrides) when none exists.
func (l *Loader) AutoLoad() (*Config, error) {
	file, err := l.findConfigFile()
	if err != nil {
		if err == ErrConfigFileNotFound {
			cfg := *l.defaults
			return l.finish(&cfg)
		}
		return nil, err
	}
	return l.LoadFromFile(file)
}

func (l *Loader) findConfigFile() (string, error) {
	filenames := []string{
		"actors.yaml", "actors.yml", "actors.json",
		"config.yaml", "config.yml", "config.json",
	}
	for _, searchPath := range l.searchPaths {
		for _, filename := range filenames {
			full := filepath.Join(searchPath, filename)
			if _, err := os.Stat(full); err == nil {
				return full, nil
			}
		}
	}
	return "", ErrConfigFileNotFound
}

func (l *Loader) parse(data []byte, format Format) (*Config, error) {
	// start from the defaults so missing fields keep their values
	cfg := *l.defaults

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
	return &cfg, nil
}

func (l *Loader) finish(cfg *Config) (*Config, error) {
	l.applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	if val := os.Getenv(l.envPrefix + "_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv(l.envPrefix + "_LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}
	if val := os.Getenv(l.envPrefix + "_SCHEDULER_MAX_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Scheduler.MaxWorkers = n
		}
	}
	if val := os.Getenv(l.envPrefix + "_SCHEDULER_MAILBOX_WARN_DEPTH"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Scheduler.MailboxWarnDepth = n
		}
	}
}

func formatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported config file format: %s", filepath.Ext(filename))
	}
}
