// Package logging builds the zerolog logger used across a pipeline run.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging settings.
type Config struct {
	Level  string `mapstructure:"level"  yaml:"level"  validate:"omitempty,oneof=trace debug info warn error fatal panic"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=console json"`
}

// New creates a zerolog.Logger from the given config. Console format is
// human-readable; json is for machine consumption.
func New(cfg Config) (zerolog.Logger, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var out io.Writer = os.Stderr
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).Level(parsed).With().Timestamp().Logger()
	return logger, nil
}
