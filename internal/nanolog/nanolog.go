// Package nanolog is the structured logger used throughout nanofs, grounded
// on the severity-leveled slog wrapper gcsfuse's internal/logger package
// builds around log/slog: a package-level *slog.Logger plus small
// severity-named wrappers so call sites read "nanolog.Debug(...)" rather
// than threading a logger value through every function.
package nanolog

import (
	"log/slog"
	"os"
)

var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// SetLevel adjusts the minimum severity that reaches the output handler.
func SetLevel(level slog.Level) {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// SetOutput redirects the default logger to w at the given level.
func SetOutput(w *os.File, level slog.Level) {
	defaultLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
