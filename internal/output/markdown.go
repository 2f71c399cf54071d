// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/surface"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes the rendered cells as a Markdown table.
type MarkdownFormatter struct{}

var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes a title, a summary line and one table row per cell. Rows
// and columns are shown by label when they land on the grid.
func (m *MarkdownFormatter) Format(w *heatmap.Widget, out io.Writer) error {
	l := w.Layout()
	records := w.Records()
	scale := w.Scale()

	if _, err := fmt.Fprintf(out, "# Heatmap\n\n**Cells:** %d | **Grid:** %d × %d | **Domain:** %s\n\n",
		len(records), l.ColumnCount(), l.RowCount(), l.DomainMode()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if w.Banner() != "" {
		if _, err := fmt.Fprintf(out, "> %s\n\n", w.Banner()); err != nil {
			return fmt.Errorf("write banner: %w", err)
		}
	}
	if len(records) == 0 {
		return nil
	}

	if _, err := io.WriteString(out, "| Row | Column | Value | Confidence | Bucket | Color |\n|-----|--------|-------|------------|--------|-------|\n"); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	for _, r := range records {
		row, col := axisName(r.Row, l.YLabels), axisName(r.Column, l.XLabels)
		color, _ := scale.Color(r.Value)
		bucket := "-"
		if b := scale.Bucket(r.Value); b >= 0 {
			bucket = strconv.Itoa(b + 1)
		}
		if _, err := fmt.Fprintf(out, "| %s | %s | %s | %s | %s | %s |\n",
			row, col, surface.FormatNumber(r.Value), surface.FormatNumber(r.Confidence), bucket, codeOrDash(color)); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}
	return nil
}

// axisName returns the label at the 1-based position v, or v itself.
func axisName(v float64, labels []string) string {
	if i := int(v); float64(i) == v && i >= 1 && i <= len(labels) {
		return labels[i-1]
	}
	return surface.FormatNumber(v)
}

func codeOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return "`" + s + "`"
}
