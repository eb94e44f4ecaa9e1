package logger

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

// Init configures the process-wide logger. Debug mode lowers the level so
// per-article classification decisions become visible.
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	Logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(Logger)
}

// active falls back to the default logger so packages stay usable in tests
// that never call Init.
func active() *slog.Logger {
	if Logger != nil {
		return Logger
	}
	return slog.Default()
}

func Info(msg string, args ...any) {
	active().Info(msg, args...)
}

func Error(msg string, args ...any) {
	active().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	active().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	active().Warn(msg, args...)
}
