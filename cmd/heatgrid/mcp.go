// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/davetashner/heatgrid/internal/mcpserver"
)

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running heatgrid as an MCP server, exposing the widget to AI agents as tools.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout with one widget behind these tools:
  - set_data:   Push a feed inline or load it from a file or URL
  - set_labels: Replace the column or row labels
  - redraw:     Resize the grid or switch the scale domain
  - snapshot:   Render the widget as svg, html, json, markdown, or png

Widget diagnostics are returned in each tool result.`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	addLayoutFlags(mcpServeCmd)
	addFeedFlags(mcpServeCmd)
	mcpCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	_, layout, opts, err := setup(cmd)
	if err != nil {
		return err
	}
	// stdin carries the transport.
	opts.Stdin = nil

	session, err := mcpserver.NewSession(layout, opts)
	if err != nil {
		return exitError(ExitInvalidArgs, "heatgrid: %v", err)
	}
	return mcpserver.Run(cmd.Context(), Version, session, &mcp.StdioTransport{})
}
