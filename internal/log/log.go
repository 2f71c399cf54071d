// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package log configures structured logging for heatgrid using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Level maps the verbosity flags to a slog level. Quiet wins over verbose.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Setup configures the default slog logger based on verbosity flags.
// Output is written to stderr using slog.TextHandler.
func Setup(verbose, quiet bool) {
	SetupWriter(os.Stderr, verbose, quiet, false)
}

// SetupWriter configures the default logger to write to w. With jsonOut the
// records are JSON lines instead of logfmt text.
func SetupWriter(w io.Writer, verbose, quiet, jsonOut bool) {
	slog.SetDefault(slog.New(NewHandler(w, Level(verbose, quiet), jsonOut)))
}

// NewHandler returns a text or JSON handler writing records at or above
// level to w.
func NewHandler(w io.Writer, level slog.Level, jsonOut bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if jsonOut {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
