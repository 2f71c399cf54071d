// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/heatgrid/internal/feed"
	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/output"
)

// SetDataInput is the input schema for the set_data tool.
type SetDataInput struct {
	Data   string `json:"data,omitempty" jsonschema:"Inline feed text with a y_label,x_label,value,confidence header"`
	Source string `json:"source,omitempty" jsonschema:"Feed file path or http(s) URL to load instead of inline data"`
	Format string `json:"format,omitempty" jsonschema:"Feed format: csv, tsv, or xlsx (default: by extension, csv for inline data)"`
	Sheet  string `json:"sheet,omitempty" jsonschema:"Worksheet name for xlsx sources (default: first sheet)"`
}

// SetLabelsInput is the input schema for the set_labels tool.
type SetLabelsInput struct {
	Axis   string   `json:"axis" jsonschema:"Which labels to replace: x (columns) or y (rows)"`
	Labels []string `json:"labels" jsonschema:"Labels in axis order"`
}

// RedrawInput is the input schema for the redraw tool.
type RedrawInput struct {
	Columns int    `json:"columns,omitempty" jsonschema:"Set the column count (0 = unchanged)"`
	Rows    int    `json:"rows,omitempty" jsonschema:"Set the row count (0 = unchanged)"`
	Domain  string `json:"domain,omitempty" jsonschema:"Color scale domain: legacy, extent, or observed"`
}

// SnapshotInput is the input schema for the snapshot tool.
type SnapshotInput struct {
	Format string `json:"format,omitempty" jsonschema:"Output format: svg, html, png, json, markdown (default: svg)"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// registerTools adds all heatgrid tools to the MCP server.
func registerTools(server *mcp.Server, s *Session) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_data",
		Description: "Replace the heatmap cells with a feed of y_label,x_label,value,confidence rows. Cells are matched by position: new ones are added, matching ones repainted, missing ones removed.",
		Annotations: &mcp.ToolAnnotations{
			DestructiveHint: boolPtr(true),
			IdempotentHint:  true,
			OpenWorldHint:   boolPtr(true),
		},
	}, s.handleSetData)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_labels",
		Description: "Replace the column (x) or row (y) labels and redraw the heatmap.",
		Annotations: &mcp.ToolAnnotations{
			DestructiveHint: boolPtr(false),
			IdempotentHint:  true,
			OpenWorldHint:   boolPtr(false),
		},
	}, s.handleSetLabels)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "redraw",
		Description: "Resize the grid or change the color scale domain, then redraw labels and cells. With no arguments it redraws as is.",
		Annotations: &mcp.ToolAnnotations{
			DestructiveHint: boolPtr(false),
			IdempotentHint:  true,
			OpenWorldHint:   boolPtr(false),
		},
	}, s.handleRedraw)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "snapshot",
		Description: "Render the current heatmap as SVG, HTML, PNG, JSON, or a markdown table.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, s.handleSnapshot)
}

func (s *Session) handleSetData(ctx context.Context, _ *mcp.CallToolRequest, input SetDataInput) (*mcp.CallToolResult, any, error) {
	if (input.Data == "") == (input.Source == "") {
		return nil, nil, fmt.Errorf("set exactly one of data or source")
	}
	format, err := feed.ParseFormat(input.Format)
	if err != nil {
		return nil, nil, err
	}

	var parsed *heatmap.Feed
	if input.Source != "" {
		src, err := ResolveSource(input.Source)
		if err != nil {
			return nil, nil, err
		}
		opts := s.feed
		if format != feed.FormatAuto {
			opts.Format = format
		}
		if input.Sheet != "" {
			opts.Sheet = input.Sheet
		}
		// Load outside the lock; it may wait on the network.
		parsed, err = feed.Load(ctx, src, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", input.Source, err)
		}
	} else if format != feed.FormatAuto && format != feed.FormatCSV {
		parsed, err = feed.Parse([]byte(input.Data), format, input.Sheet)
		if err != nil {
			return nil, nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.host.drain()

	if parsed != nil {
		s.widget.LoadFeed(parsed)
	} else if err := s.host.push(heatmap.SignalSetData, input.Data); err != nil {
		return nil, nil, err
	}
	return s.result(fmt.Sprintf("cells: %d", len(s.widget.Records()))), nil, nil
}

func (s *Session) handleSetLabels(_ context.Context, _ *mcp.CallToolRequest, input SetLabelsInput) (*mcp.CallToolResult, any, error) {
	var signal string
	switch strings.ToLower(strings.TrimSpace(input.Axis)) {
	case "x":
		signal = heatmap.SignalSetXLabels
	case "y":
		signal = heatmap.SignalSetYLabels
	default:
		return nil, nil, fmt.Errorf("unsupported axis %q (supported: x, y)", input.Axis)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.host.drain()

	if err := s.host.push(signal, heatmap.FormatLabels(input.Labels)); err != nil {
		return nil, nil, err
	}
	return s.result(s.gridSummary()), nil, nil
}

func (s *Session) handleRedraw(_ context.Context, _ *mcp.CallToolRequest, input RedrawInput) (*mcp.CallToolResult, any, error) {
	if input.Columns < 0 || input.Rows < 0 {
		return nil, nil, fmt.Errorf("columns and rows must be non-negative")
	}
	mode := heatmap.DomainMode(input.Domain)
	if !mode.Valid() {
		return nil, nil, fmt.Errorf("unsupported domain %q (supported: legacy, extent, observed)", input.Domain)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.host.drain()

	pushed := false
	if input.Columns > 0 {
		if err := s.host.push(heatmap.SignalSetMaxXElements, strconv.Itoa(input.Columns)); err != nil {
			return nil, nil, err
		}
		pushed = true
	}
	if input.Rows > 0 {
		if err := s.host.push(heatmap.SignalSetMaxYElements, strconv.Itoa(input.Rows)); err != nil {
			return nil, nil, err
		}
		pushed = true
	}
	if mode != "" || !pushed {
		l := s.widget.Layout()
		if mode != "" {
			l = l.WithDomain(mode)
		}
		if err := s.widget.Relayout(l); err != nil {
			return nil, nil, err
		}
	}
	return s.result(s.gridSummary()), nil, nil
}

func (s *Session) handleSnapshot(_ context.Context, _ *mcp.CallToolRequest, input SnapshotInput) (*mcp.CallToolResult, any, error) {
	format := "svg"
	if input.Format != "" {
		format = input.Format
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return nil, nil, fmt.Errorf("unsupported format %q", format)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := formatter.Format(s.widget, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}

	if format == "png" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.ImageContent{Data: buf.Bytes(), MIMEType: "image/png"},
			},
		}, nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: buf.String()},
		},
	}, nil, nil
}

// result builds a tool result from the diagnostics captured during the call
// followed by summary. A widget error marks the result as failed.
func (s *Session) result(summary string) *mcp.CallToolResult {
	notes, failed := s.host.drain()
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: notes + summary},
		},
		IsError: failed,
	}
}

func (s *Session) gridSummary() string {
	l := s.widget.Layout()
	return fmt.Sprintf("grid: %dx%d, cells: %d", l.ColumnCount(), l.RowCount(), len(s.widget.Records()))
}
