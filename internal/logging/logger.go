// Package logging wraps log/slog with the small conventions the dfsmdbg CLI
// needs: write diagnostics to stderr, keep stdout reserved for the scan
// results the user actually asked for, and standardize error attribute keys.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the CLI's diagnostic logger, writing to stderr so it never
// interleaves with Find/Matches output on stdout.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything, for callers that want
// the CLI wiring without stderr noise.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
