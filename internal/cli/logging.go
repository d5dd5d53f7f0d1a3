package cli

import (
	"io"
	"log/slog"
)

// newLogger builds the diagnostics logger from the global flags.
// --verbose wins over --quiet.
func newLogger(g *Globals, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case g.Verbose:
		level = slog.LevelDebug
	case g.Quiet:
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if g.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
