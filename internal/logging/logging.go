// Package logging builds the structured logger used across kfxc.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Log output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w. Verbose lowers the level to debug;
// otherwise only warnings and errors are emitted.
func New(w io.Writer, verbose bool, format string) (*slog.Logger, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want %s or %s)", format, FormatText, FormatJSON)
	}
}
