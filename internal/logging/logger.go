// Package logging builds the library's slog loggers.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a configured logger writing to w, or to Stderr when w is nil
// (keeps Stdout free for report output). It standardizes common keys
// (e.g., "error" -> "err").
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
