// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davetashner/heatgrid/internal/bridge"
	"github.com/davetashner/heatgrid/internal/feed"
	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/report"
)

// Preview-specific flag values.
var previewSections string

// previewCmd prints a feed to the terminal.
var previewCmd = &cobra.Command{
	Use:   "preview [feed]",
	Short: "Preview a feed in the terminal",
	Long: `Render a feed on a widget and print it to the terminal: the color
scale, a colored grid with one block per cell, and the record table.

Sections: ` + strings.Join(report.List(), ", ") + `

Use --no-color for an ASCII grid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewSections, "sections", "", "comma-separated list of sections to print (default: all)")
	addLayoutFlags(previewCmd)
	addFeedFlags(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	src := feed.StdinSource
	if len(args) > 0 {
		src = args[0]
	}

	cfg, layout, opts, err := setup(cmd)
	if err != nil {
		return err
	}

	sections := splitList(previewSections)
	if len(sections) == 0 {
		sections = cfg.Sections
	}
	for _, s := range sections {
		if report.Get(s) == nil {
			return exitError(ExitInvalidArgs, "heatgrid: unknown section %q (available: %s)", s, strings.Join(report.List(), ", "))
		}
	}

	parsed, err := feed.Load(cmd.Context(), src, opts)
	if err != nil {
		return exitError(ExitTotalFailure, "heatgrid: %v", err)
	}

	w := heatmap.New(layout, bridge.NewConsole(nil))
	w.LoadFeed(parsed)

	if err := report.Render(w, cmd.OutOrStdout(), sections); err != nil {
		return fmt.Errorf("heatgrid: %w", err)
	}
	return nil
}
