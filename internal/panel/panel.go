// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package panel aggregates a panel of multi-dimensional points into a
// one-column heatmap feed: one row per dimension, holding the mean over the
// selected points.
package panel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/davetashner/heatgrid/internal/bridge"
	"github.com/davetashner/heatgrid/internal/heatmap"
)

// SelectedColumn is the optional panel column that flags selected points.
const SelectedColumn = "selected"

// SelectionLabel is the single column label of an aggregated feed.
const SelectionLabel = "Sel"

// Panel holds N points of D dimensions each.
type Panel struct {
	Names    []string
	Points   [][]float64
	Selected []bool
}

// Summary is the per-dimension aggregate over the selected points.
type Summary struct {
	Mean   []float64
	StdDev []float64
	// Max starts at 0, so an all-negative dimension reports 0.
	Max []float64
	// Count is the number of selected points.
	Count int
}

// Load reads a panel from CSV. The header names the dimensions; a column
// named "selected" is taken as the selection flag instead of a dimension.
// Without it every point is selected. Cells that are not numbers are an
// error.
func Load(r io.Reader) (*Panel, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read panel: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("read panel: empty input")
	}

	header := rows[0]
	sel := -1
	p := &Panel{}
	var dims []int
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if strings.EqualFold(h, SelectedColumn) && sel < 0 {
			sel = i
			continue
		}
		dims = append(dims, i)
		p.Names = append(p.Names, h)
	}

	for n, row := range rows[1:] {
		point := make([]float64, len(dims))
		for d, i := range dims {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("read panel: row %d, %s: %w", n+2, dimName(p.Names, d), err)
			}
			point[d] = v
		}
		p.Points = append(p.Points, point)
		p.Selected = append(p.Selected, sel < 0 || truthy(row[sel]))
	}
	return p, nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "x":
		return true
	}
	return false
}

// Dims returns the number of dimensions.
func (p *Panel) Dims() int { return len(p.Names) }

// Summarize computes the per-dimension mean, population standard deviation
// and max over the selected points. With no selection every mean is 0.
func (p *Panel) Summarize() Summary {
	d := p.Dims()
	s := Summary{
		Mean:   make([]float64, d),
		StdDev: make([]float64, d),
		Max:    make([]float64, d),
	}

	cols := make([][]float64, d)
	for i, point := range p.Points {
		if !p.Selected[i] {
			continue
		}
		s.Count++
		for j, v := range point {
			cols[j] = append(cols[j], v)
			if v > s.Max[j] {
				s.Max[j] = v
			}
		}
	}
	if s.Count == 0 {
		return s
	}
	for j, col := range cols {
		s.Mean[j], s.StdDev[j] = stat.PopMeanStdDev(col, nil)
	}
	return s
}

// Labels returns the column and row labels of the aggregated feed.
func (p *Panel) Labels() (x, y []string) {
	y = make([]string, p.Dims())
	for d := range y {
		y[d] = dimName(p.Names, d)
	}
	return []string{SelectionLabel}, y
}

func dimName(names []string, d int) string {
	if d < len(names) && names[d] != "" {
		return names[d]
	}
	return fmt.Sprintf("Dim%d", d)
}

// Records returns one full-confidence record per dimension, in column 1.
func (p *Panel) Records() []heatmap.Record {
	s := p.Summarize()
	out := make([]heatmap.Record, p.Dims())
	for d := range out {
		out[d] = heatmap.Record{Row: float64(d + 1), Column: 1, Value: s.Mean[d], Confidence: 1}
	}
	return out
}

// Feed renders the aggregate as CSV feed text.
func (p *Panel) Feed() string {
	var b strings.Builder
	b.WriteString(heatmap.ColumnColumn + "," + heatmap.ColumnRow + "," +
		heatmap.ColumnValue + "," + heatmap.ColumnConfidence + "\n")
	for _, r := range p.Records() {
		fmt.Fprintf(&b, "%d,%d,%s,1\n", int(r.Column), int(r.Row), strconv.FormatFloat(r.Value, 'g', -1, 64))
	}
	return b.String()
}

// Layout adapts base to the aggregate: one column labelled "Sel" and one
// row per dimension.
func (p *Panel) Layout(base heatmap.Layout) heatmap.Layout {
	x, y := p.Labels()
	return base.WithXLabels(x).WithYLabels(y).WithColumns(1).WithRows(p.Dims())
}

// Messages returns the signal sequence a host sends to push the aggregate
// into a widget over a stream bridge.
func (p *Panel) Messages() []bridge.Message {
	x, y := p.Labels()
	return []bridge.Message{
		{Signal: heatmap.SignalSetMaxXElements, Payload: "1"},
		{Signal: heatmap.SignalSetMaxYElements, Payload: strconv.Itoa(p.Dims())},
		{Signal: heatmap.SignalSetXLabels, Payload: heatmap.FormatLabels(x)},
		{Signal: heatmap.SignalSetYLabels, Payload: heatmap.FormatLabels(y)},
		{Signal: heatmap.SignalSetData, Payload: p.Feed()},
	}
}
