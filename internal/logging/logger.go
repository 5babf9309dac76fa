package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/signalstart/internal/config"
)

// NewLogger creates a structured zerolog.Logger writing to stdout with
// context fields taken from the config. Empty fields are omitted.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Config) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp()

	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}
	if cfg.TemporalNamespace != "" {
		ctx = ctx.Str("namespace", cfg.TemporalNamespace)
	}
	if cfg.TaskQueue != "" {
		ctx = ctx.Str("task_queue", cfg.TaskQueue)
	}

	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
