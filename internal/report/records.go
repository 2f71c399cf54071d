// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package report

import (
	"io"
	"strconv"

	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/surface"
)

func init() {
	Register(&recordsSection{})
}

type recordsSection struct{}

func (s *recordsSection) Name() string  { return "records" }
func (s *recordsSection) Title() string { return "Records" }

func (s *recordsSection) Render(w *heatmap.Widget, out io.Writer) error {
	return RecordTable(w).Render(out)
}

// RecordTable lists every rendered record with its bucket and color.
func RecordTable(w *heatmap.Widget) *Table {
	tbl := NewTable(
		Column{Header: "Row", Align: AlignRight},
		Column{Header: "Column", Align: AlignRight},
		Column{Header: "Value", Align: AlignRight},
		Column{Header: "Confidence", Align: AlignRight},
		Column{Header: "Bucket", Align: AlignRight},
		Column{Header: "Color", Color: Swatch},
	)
	scale := w.Scale()
	for _, r := range w.Records() {
		bucket := "-"
		if b := scale.Bucket(r.Value); b >= 0 {
			bucket = strconv.Itoa(b + 1)
		}
		fill, _ := scale.Color(r.Value)
		tbl.AddRow(
			surface.FormatNumber(r.Row),
			surface.FormatNumber(r.Column),
			surface.FormatNumber(r.Value),
			surface.FormatNumber(r.Confidence),
			bucket,
			fill,
		)
	}
	return tbl
}
