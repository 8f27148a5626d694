package logger

import (
	"io"
	"log/slog"
)

// New creates a structured logger writing to w
// without debug everything is discarded so progress output stays clean
func New(debug bool, w io.Writer) *slog.Logger {
	if !debug || w == nil {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
