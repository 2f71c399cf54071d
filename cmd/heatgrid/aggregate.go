// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/davetashner/heatgrid/internal/bridge"
	"github.com/davetashner/heatgrid/internal/feed"
	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/output"
	"github.com/davetashner/heatgrid/internal/panel"
)

// Aggregate-specific flag values.
var (
	aggregateMessages bool
	aggregateFormat   string
	aggregateOutput   string
)

// aggregateCmd collapses a panel of points into a one-column feed.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate [panel.csv]",
	Short: "Aggregate a panel of points into a one-column feed",
	Long: `Read a panel CSV whose header names the dimensions and whose rows are
points. An optional "selected" column picks the points to aggregate;
without it every point is selected.

The result has one row per dimension holding the mean over the selected
points, in a single column labelled "Sel". By default it is printed as a
CSV feed. --messages prints the host signal sequence as JSON lines, ready
to pipe into "heatgrid serve". -f renders the aggregate instead.

Examples:
  heatgrid aggregate panel.csv > sel.csv
  heatgrid aggregate panel.csv --messages | heatgrid serve
  heatgrid aggregate panel.csv -f svg -o sel.svg`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAggregate,
}

func init() {
	aggregateCmd.Flags().BoolVar(&aggregateMessages, "messages", false, "print the host signal sequence as JSON lines")
	aggregateCmd.Flags().StringVarP(&aggregateFormat, "format", "f", "", "render the aggregate in this format instead of printing the feed")
	aggregateCmd.Flags().StringVarP(&aggregateOutput, "output", "o", "", "output file path (default: stdout)")
	addLayoutFlags(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	if aggregateMessages && aggregateFormat != "" {
		return exitError(ExitInvalidArgs, "heatgrid: --messages and --format are mutually exclusive")
	}
	if aggregateFormat != "" {
		if _, err := output.GetFormatter(aggregateFormat); err != nil {
			return exitError(ExitInvalidArgs, "heatgrid: %v", err)
		}
	}

	p, err := loadPanel(cmd, args)
	if err != nil {
		return err
	}
	s := p.Summarize()
	slog.Info("panel aggregated", "dimensions", p.Dims(), "points", len(p.Points), "selected", s.Count)

	var out io.Writer = cmd.OutOrStdout()
	var file *os.File
	if aggregateOutput != "" {
		file, err = cmdFS.Create(aggregateOutput)
		if err != nil {
			return exitError(ExitTotalFailure, "heatgrid: cannot create output file %q (%v)", aggregateOutput, err)
		}
		out = file
	}

	switch {
	case aggregateMessages:
		err = writeMessages(out, p.Messages())
	case aggregateFormat != "":
		err = renderPanel(cmd, p, out)
	default:
		_, err = io.WriteString(out, p.Feed())
	}
	if file != nil {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = exitError(ExitTotalFailure, "heatgrid: write %q (%v)", aggregateOutput, cerr)
		}
	}
	return err
}

func loadPanel(cmd *cobra.Command, args []string) (*panel.Panel, error) {
	src := feed.StdinSource
	if len(args) > 0 {
		src = args[0]
	}

	var r io.Reader = cmd.InOrStdin()
	if src != feed.StdinSource {
		f, err := cmdFS.Open(src)
		if err != nil {
			return nil, exitError(ExitTotalFailure, "heatgrid: cannot open panel %q (%v)", src, err)
		}
		defer f.Close() //nolint:errcheck // read-only
		r = f
	}

	p, err := panel.Load(r)
	if err != nil {
		return nil, exitError(ExitTotalFailure, "heatgrid: %v", err)
	}
	return p, nil
}

func writeMessages(out io.Writer, msgs []bridge.Message) error {
	enc := json.NewEncoder(out)
	for _, m := range msgs {
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("heatgrid: write messages: %w", err)
		}
	}
	return nil
}

// renderPanel draws the aggregate on a widget sized to the panel.
func renderPanel(cmd *cobra.Command, p *panel.Panel, out io.Writer) error {
	f, _ := output.GetFormatter(aggregateFormat)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	base, err := resolveLayout(cmd, cfg)
	if err != nil {
		return err
	}
	layout := p.Layout(base)
	if err := layout.Validate(); err != nil {
		return exitError(ExitInvalidArgs, "heatgrid: panel does not fit the layout (%v)", err)
	}

	w := heatmap.New(layout, bridge.NewConsole(nil))
	w.HeatmapChart(p.Records())
	if err := f.Format(w, out); err != nil {
		return fmt.Errorf("heatgrid: render %s: %w", aggregateFormat, err)
	}
	return nil
}
