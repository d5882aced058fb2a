package logger

import (
	"log/slog"
	"os"
)

// Logger is the application logger, a thin wrapper around slog.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing text records at the given level.
func New(level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal logs at error level and exits the process.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
