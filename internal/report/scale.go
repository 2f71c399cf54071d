// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"math"

	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/surface"
)

func init() {
	Register(&scaleSection{})
}

type scaleSection struct{}

func (s *scaleSection) Name() string  { return "scale" }
func (s *scaleSection) Title() string { return "Color scale" }

// Render prints the domain summary and one line per bucket with its lower
// bound and how many records fall into it.
func (s *scaleSection) Render(w *heatmap.Widget, out io.Writer) error {
	l := w.Layout()
	scale := w.Scale()
	records := w.Records()

	counts := make([]int, len(scale.Colors()))
	missing := 0
	for _, r := range records {
		if b := scale.Bucket(r.Value); b >= 0 {
			counts[b]++
		} else {
			missing++
		}
	}

	if _, err := fmt.Fprintf(out, "  %d record(s), domain %s %v, grid %dx%d at %spx\n",
		len(records), l.DomainMode(), formatAll(scale.Domain()), l.ColumnCount(), l.RowCount(),
		surface.FormatNumber(l.GridSize())); err != nil {
		return fmt.Errorf("render scale: %w", err)
	}

	tbl := NewTable(
		Column{Header: "Bucket", Align: AlignRight},
		Column{Header: "From", Align: AlignRight},
		Column{Header: "Records", Align: AlignRight},
		Column{Header: "Color", Color: Swatch},
	)
	th := scale.Thresholds()
	for i, c := range scale.Colors() {
		from := math.Inf(-1)
		if i > 0 && i-1 < len(th) {
			from = th[i-1]
		}
		tbl.AddRow(fmt.Sprint(i+1), trim(from), fmt.Sprint(counts[i]), c)
	}
	if err := tbl.Render(out); err != nil {
		return err
	}
	if missing > 0 {
		if _, err := fmt.Fprintf(out, "  %s\n", Faint(fmt.Sprintf("%d record(s) without a color", missing))); err != nil {
			return fmt.Errorf("render scale: %w", err)
		}
	}
	return nil
}

func trim(v float64) string {
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return surface.FormatNumber(math.Round(v*1000) / 1000)
}

func formatAll(vs []float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = trim(v)
	}
	return out
}
