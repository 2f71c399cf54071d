// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/heatgrid/internal/bridge"
	"github.com/davetashner/heatgrid/internal/feed"
	"github.com/davetashner/heatgrid/internal/heatmap"
)

// Session owns the widget the tools operate on. Tool calls are serialized.
type Session struct {
	mu     sync.Mutex
	widget *heatmap.Widget
	host   *toolHost
	feed   feed.Options
}

// NewSession creates a widget with layout and attaches it to the session's
// tool host.
func NewSession(layout heatmap.Layout, opts feed.Options) (*Session, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	s := &Session{host: newToolHost(), feed: opts}
	s.widget = heatmap.New(layout, bridge.NewConsole(nil))
	if !s.widget.Attach(s.host) {
		return nil, fmt.Errorf("attach widget: %s", s.widget.Banner())
	}
	// Drop the startup line so the first tool call reports only its own work.
	s.host.drain()
	return s, nil
}

// New creates a new MCP server with heatgrid's tools registered on session.
func New(version string, session *Session) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "heatgrid",
		Title:   "Heatgrid - Heatmap Widget",
		Version: version,
	}, nil)

	registerTools(server, session)
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, session *Session, transport mcp.Transport) error {
	server := New(version, session)
	return server.Run(ctx, transport)
}
