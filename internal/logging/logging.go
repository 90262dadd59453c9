// Package logging provides structured logging configuration using log/slog.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Config holds logger configuration.
type Config struct {
	Level  slog.Level
	Format string // "text", "json" or "pretty"
}

// New creates a configured slog.Logger writing to stderr.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		// Add a source location for debug builds
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "pretty":
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.Level,
			AddSource:  opts.AddSource,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a config string to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO", "":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ConfigFromEnv builds a Config from level and format strings, letting the
// SPINDLE_LOG_LEVEL environment variable override the configured level.
func ConfigFromEnv(level, format string) Config {
	if envLevel := os.Getenv("SPINDLE_LOG_LEVEL"); envLevel != "" {
		level = envLevel
	}
	return Config{
		Level:  ParseLevel(level),
		Format: format,
	}
}
