// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/davetashner/heatgrid/internal/heatmap"
)

func init() {
	Register(&gridSection{})
}

// plainRamp stands in for the palette when color is off, lightest first.
const plainRamp = ".:-=+*#%@"

// GridOptions controls RenderGrid.
type GridOptions struct {
	// Plain draws ASCII glyphs instead of colored blocks.
	Plain bool
}

type gridSection struct{}

func (s *gridSection) Name() string  { return "grid" }
func (s *gridSection) Title() string { return "Grid" }

func (s *gridSection) Render(w *heatmap.Widget, out io.Writer) error {
	return RenderGrid(w, out, GridOptions{Plain: color.NoColor})
}

// RenderGrid draws one block per grid cell, colored like the cell, with the
// row labels on the left and the column labels on top. Records that do not
// land on a whole grid cell are counted below the grid.
func RenderGrid(w *heatmap.Widget, out io.Writer, opts GridOptions) error {
	l := w.Layout()
	scale := w.Scale()
	rows, cols := l.RowCount(), l.ColumnCount()

	cells := make(map[[2]int]heatmap.Record)
	offGrid := 0
	for _, r := range w.Records() {
		row, col, ok := r.GridPosition(rows, cols)
		if !ok {
			offGrid++
			continue
		}
		cells[[2]int{row, col}] = r
	}

	cw := 2
	for i := range cols {
		cw = max(cw, min(3, lipgloss.Width(label(l.XLabels, i))))
	}
	lw := 0
	for i := range rows {
		lw = max(lw, lipgloss.Width(label(l.YLabels, i)))
	}

	r := lipgloss.NewRenderer(out)
	header := func(s string) string { return s }
	if !opts.Plain {
		faint := r.NewStyle().Faint(true)
		header = func(s string) string { return faint.Render(s) }
	}
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", lw+1))
	for c := range cols {
		b.WriteString(header(fit(label(l.XLabels, c), cw)))
	}
	b.WriteString("\n")

	for row := range rows {
		b.WriteString(fit(label(l.YLabels, row), lw) + " ")
		for col := range cols {
			rec, ok := cells[[2]int{row, col}]
			b.WriteString(block(r, scale, rec, ok, cw, opts.Plain))
		}
		b.WriteString("\n")
	}
	if offGrid > 0 {
		fmt.Fprintf(&b, "%d record(s) off grid\n", offGrid)
	}

	if _, err := io.WriteString(out, b.String()); err != nil {
		return fmt.Errorf("render grid: %w", err)
	}
	return nil
}

func block(r *lipgloss.Renderer, scale *heatmap.Scale, rec heatmap.Record, ok bool, width int, plain bool) string {
	if !ok {
		return strings.Repeat(" ", width)
	}
	bucket := scale.Bucket(rec.Value)
	if bucket < 0 {
		return strings.Repeat("?", width)
	}
	if plain {
		k := len(scale.Colors())
		i := 0
		if k > 1 {
			i = bucket * (len(plainRamp) - 1) / (k - 1)
		}
		return strings.Repeat(string(plainRamp[i]), width)
	}
	fill, _ := scale.Color(rec.Value)
	return r.NewStyle().Background(lipgloss.Color(fill)).Render(strings.Repeat(" ", width))
}

func label(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}

// fit pads or truncates s to exactly width cells.
func fit(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	rs := []rune(s)
	for lipgloss.Width(string(rs)) > width {
		rs = rs[:len(rs)-1]
	}
	return string(rs)
}
