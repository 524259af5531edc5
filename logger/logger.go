package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog so components can share one configured handler.
type Logger struct {
	*slog.Logger
}

// New returns a Logger writing text records to stderr.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

func NewLogger(level slog.Level, output io.Writer) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))}
}

// Err returns an attribute for logging errors under a common key.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
