package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Config holds configuration for the logger
type Config struct {
	// Level is a logrus level name (debug, info, warn, error). Defaults to info.
	Level string

	// Output defaults to stderr when nil
	Output io.Writer
}

// New creates a logger with a full-timestamp text formatter
func New(cfg *Config) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg == nil {
		return log, nil
	}

	if cfg.Output != nil {
		log.SetOutput(cfg.Output)
	}

	if cfg.Level != "" {
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		log.SetLevel(level)
	}

	return log, nil
}
