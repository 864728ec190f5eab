package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// New builds a console logger tagged with the app name and environment.
// Production output drops colours so log shippers see plain text.
func New(appName, env string) zerolog.Logger {
	return NewWithWriter(os.Stderr, appName, env)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(out io.Writer, appName, env string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    env == "production",
	}
	level := zerolog.InfoLevel
	if env == "development" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().
		Timestamp().
		Str("app", appName).
		Str("env", env).
		Logger()
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return zerolog.Nop()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// IntoContext injects a logger into ctx for downstream use.
func IntoContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
