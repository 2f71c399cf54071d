// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package bridge provides the widget's diagnostics sinks and host
// connections: a console sink backed by slog, and a JSON-lines stream that
// carries pushed signals in and diagnostics out.
package bridge

import (
	"log/slog"
	"strings"
)

// Console is the local diagnostics sink used when no host is connected.
type Console struct {
	logger *slog.Logger
}

// NewConsole returns a console sink writing to logger, or to the default
// logger when logger is nil.
func NewConsole(logger *slog.Logger) *Console {
	return &Console{logger: logger}
}

func (c *Console) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Log writes text at info level.
func (c *Console) Log(text string) {
	c.log().Info(text, "source", "widget")
}

// Error writes text at error level. A guarded-handler report has the form
// "Error: <msg>\nHandler: <signal>"; the handler is split into its own
// attribute.
func (c *Console) Error(text string) {
	msg, handler, ok := strings.Cut(text, "\nHandler: ")
	if !ok {
		c.log().Error(text, "source", "widget")
		return
	}
	c.log().Error(strings.TrimPrefix(msg, "Error: "), "source", "widget", "handler", handler)
}
