// Package logging builds the structured loggers used across navpath.
// Types and functions in this package are not part of the public API.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *slog.Logger
	levelVar   = &slog.LevelVar{}
)

// New creates a JSON logger writing to w at the given level.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: false,
	}))
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Default returns the process-wide logger. It writes JSON to stderr and
// starts at the error level.
func Default() *slog.Logger {
	loggerOnce.Do(func() {
		levelVar.Set(slog.LevelError)
		logger = New(os.Stderr, levelVar)
	})
	return logger
}

// SetLevel sets the minimum level of the Default logger.
func SetLevel(level slog.Level) {
	Default()
	levelVar.Set(level)
}

// ParseLevel parses "debug", "info", "warn"/"warning" and "error".
// Anything else maps to info, the second return reports whether raw was
// recognized.
func ParseLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// SetRawLevel parses and sets the level of the Default logger.
func SetRawLevel(raw string) {
	level, _ := ParseLevel(raw)
	SetLevel(level)
}
