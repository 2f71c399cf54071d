// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	hglog "github.com/davetashner/heatgrid/internal/log"
)

// Global flag values.
var (
	verbose    bool
	quiet      bool
	noColor    bool
	jsonLog    bool
	configFile string
)

// rootCmd is the base command for heatgrid.
var rootCmd = &cobra.Command{
	Use:   "heatgrid",
	Short: "Render day-by-hour heatmaps from tabular feeds",
	Long: `Heatgrid is a heatmap widget. It reads feeds of y_label, x_label, value,
and confidence rows, colors each cell with a quantile scale, shrinks cells
by their confidence, and renders the grid as SVG, HTML, PNG, JSON, or a
terminal preview. It can also stay attached to a host and redraw as new
data is pushed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		hglog.SetupWriter(cmd.ErrOrStderr(), verbose, quiet, jsonLog)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "write logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: .heatgrid.yaml or .heatgrid.toml in the current directory)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
