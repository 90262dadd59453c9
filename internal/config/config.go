package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	LibrarySources []string `koanf:"library_sources"` // paths to scan for music library
	StatePath      string   `koanf:"state_path"`      // override for the state database path

	// Audio output settings
	Audio AudioConfig `koanf:"audio"`

	// Logging settings
	Log LogConfig `koanf:"log"`

	// Library scan settings
	Scan ScanConfig `koanf:"scan"`
}

// AudioConfig holds audio backend configuration.
type AudioConfig struct {
	Backend string `koanf:"backend"` // "beep" or "mpv" (default: "beep")
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error" (default: "info")
	Format string `koanf:"format"` // "text", "json", "pretty" (default: "text")
}

// ScanConfig holds library scan configuration.
type ScanConfig struct {
	Workers int   `koanf:"workers"` // concurrent tag readers (1-32, default: 8)
	Watch   *bool `koanf:"watch"`   // watch library folders for changes (default: true)
}

func Load() (*Config, error) {
	return loadFrom(getConfigPaths())
}

func loadFrom(configPaths []string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in library_sources
	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}

	// Expand ~ in state_path
	if cfg.StatePath != "" {
		cfg.StatePath = expandPath(cfg.StatePath)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/spindle/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "spindle", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Backend returns the configured audio backend with the default applied.
func (c *Config) Backend() string {
	switch strings.ToLower(c.Audio.Backend) {
	case "mpv":
		return "mpv"
	default:
		return "beep"
	}
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}

	return cfg
}

// GetScanConfig returns the scan configuration with defaults applied.
func (c *Config) GetScanConfig() ScanConfig {
	cfg := c.Scan

	if cfg.Workers <= 0 || cfg.Workers > 32 {
		cfg.Workers = 8
	}
	if cfg.Watch == nil {
		watch := true
		cfg.Watch = &watch
	}

	return cfg
}
