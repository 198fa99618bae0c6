package logger

import (
	"log/slog"
	"os"
	"strings"
)

var base *slog.Logger

// Init configures the process-wide logger from the logging config. The
// "json" format is meant for deployed environments; anything else logs as
// human-readable text.
func Init(format, level string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	base = slog.New(handler)
	slog.SetDefault(base)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the configured logger. Tests and one-off commands that
// never call Init get a debug text logger instead of a nil panic.
func Default() *slog.Logger {
	if base == nil {
		Init("text", "debug")
	}
	return base
}
