// Package diag builds the process logger and the crash bridge that turns
// panics into reported errors.
package diag

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger, or a JSON one when format is "json".
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// LogMessage is the one-way diagnostic channel renderers use to report
// progress. It is not part of the sorting contract.
func LogMessage(ctx context.Context, logger *slog.Logger, msg string) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, msg, slog.String("source", "client"))
}
