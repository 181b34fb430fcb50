package logger

import (
	"io"
	"log/slog"
	"os"
)

// Environments understood by New
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// New creates a new slog.Logger based on the environment.
// For "production", it returns a JSON handler at info level.
// For other environments, it returns a text handler with debug level.
// Output goes to stderr so the CLI can keep stdout for progress.
func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stderr)
}

// NewWithWriter is New with an explicit destination
func NewWithWriter(env string, w io.Writer) *slog.Logger {
	var handler slog.Handler
	if env == EnvProduction {
		handler = slog.NewJSONHandler(w, nil)
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
