package logging

import (
	"github.com/rs/zerolog"
	"go.temporal.io/sdk/log"
)

// TemporalLogger routes Temporal SDK client and worker logs through zerolog.
// The SDK passes alternating key/value pairs, which zerolog accepts as-is.
type TemporalLogger struct {
	zl zerolog.Logger
}

var (
	_ log.Logger     = (*TemporalLogger)(nil)
	_ log.WithLogger = (*TemporalLogger)(nil)
)

func NewTemporalLogger(zl zerolog.Logger) *TemporalLogger {
	return &TemporalLogger{zl: zl.With().Str("component", "temporal").Logger()}
}

func (l *TemporalLogger) Debug(msg string, keyvals ...interface{}) {
	l.zl.Debug().Fields(keyvals).Msg(msg)
}

func (l *TemporalLogger) Info(msg string, keyvals ...interface{}) {
	l.zl.Info().Fields(keyvals).Msg(msg)
}

func (l *TemporalLogger) Warn(msg string, keyvals ...interface{}) {
	l.zl.Warn().Fields(keyvals).Msg(msg)
}

func (l *TemporalLogger) Error(msg string, keyvals ...interface{}) {
	l.zl.Error().Fields(keyvals).Msg(msg)
}

// With returns a logger that adds keyvals to every entry.
func (l *TemporalLogger) With(keyvals ...interface{}) log.Logger {
	return &TemporalLogger{zl: l.zl.With().Fields(keyvals).Logger()}
}
