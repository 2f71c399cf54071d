// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// note is one widget diagnostic captured during a tool call.
type note struct {
	err  bool
	text string
}

// toolHost is the widget's bridge inside the MCP server. Tool handlers push
// signals through it and collect the diagnostics the widget emitted.
type toolHost struct {
	mu       sync.Mutex
	handlers map[string]func(string)
	notes    []note
}

func newToolHost() *toolHost {
	return &toolHost{handlers: make(map[string]func(string))}
}

// Connect registers the widget's handler for signal.
func (h *toolHost) Connect(signal string, handler func(payload string)) error {
	if signal == "" || handler == nil {
		return fmt.Errorf("connect: signal and handler are required")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[signal] = handler
	return nil
}

// Log records a widget log line.
func (h *toolHost) Log(text string) {
	slog.Debug("widget log", "text", text)
	h.add(note{text: text})
}

// Error records a widget error.
func (h *toolHost) Error(text string) {
	slog.Warn("widget error", "text", text)
	h.add(note{err: true, text: text})
}

func (h *toolHost) add(n note) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notes = append(h.notes, n)
}

// push delivers payload to the handler connected for signal.
func (h *toolHost) push(signal, payload string) error {
	h.mu.Lock()
	fn, ok := h.handlers[signal]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("no handler connected for %s", signal)
	}
	fn(payload)
	return nil
}

// drain returns and clears the captured diagnostics. failed reports whether
// any of them was an error.
func (h *toolHost) drain() (text string, failed bool) {
	h.mu.Lock()
	notes := h.notes
	h.notes = nil
	h.mu.Unlock()

	var b strings.Builder
	for _, n := range notes {
		prefix := "log: "
		if n.err {
			prefix = "error: "
			failed = true
		}
		b.WriteString(prefix)
		b.WriteString(strings.ReplaceAll(n.text, "\n", "\n  "))
		b.WriteByte('\n')
	}
	return b.String(), failed
}
