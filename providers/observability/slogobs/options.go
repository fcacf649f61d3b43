package slogobs

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable consulted for the default log level.
const EnvLogLevel = "PROMPTCACHE_LOG_LEVEL"

// Option is a functional option for configuring the Observer.
type Option func(*config)

// config holds the configuration for creating an Observer.
type config struct {
	level  slog.Level
	output io.Writer
	json   bool
	logger *slog.Logger // If provided, used directly and the other options are ignored
}

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput sets the output writer for logs.
func WithOutput(output io.Writer) Option {
	return func(c *config) {
		c.output = output
	}
}

// WithJSON switches output from the text handler to the JSON handler.
func WithJSON() Option {
	return func(c *config) {
		c.json = true
	}
}

// WithLogger uses an existing slog.Logger instead of building one.
// This option takes precedence over level/output/json.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// levelFromEnv reads EnvLogLevel ("debug", "info", "warn", "error") and
// returns the matching slog level, defaulting to info for unknown values.
func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv(EnvLogLevel)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// applyOptions builds the effective config from defaults plus options.
func applyOptions(opts ...Option) *config {
	cfg := &config{
		level:  levelFromEnv(),
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
