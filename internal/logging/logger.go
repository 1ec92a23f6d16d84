package logging

import (
	"io"
	"log/slog"
	"os"
)

// New builds the process logger: text records on stderr, leaving
// stdout to the CLI. Handlers throughout the codebase log failures
// under the "err" key; any attr logged as "error" is renamed so the
// key stays uniform.
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

// NewNop discards everything. Default for components whose caller
// wired no logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
