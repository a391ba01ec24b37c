package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, level)
	}
}

// NewHandler builds a slog handler for the given format ("console" or "json").
func NewHandler(w io.Writer, level slog.Level, format string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "console", "":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("%w: log format %q", ErrInvalidConfig, format)
	}
}

// SetupLogger configures the global logger to write to stderr.
func SetupLogger(level slog.Level, format string) error {
	handler, err := NewHandler(os.Stderr, level, format)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))
	return nil
}
