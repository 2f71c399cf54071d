// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package heatmap

import "math"

// labelInset is the gap between an axis label and the grid, in pixels.
const labelInset = 6

// Rect is the geometry of one drawn cell.
type Rect struct {
	X, Y          float64
	Width, Height float64
	RX, RY        float64
}

// Point is a label anchor.
type Point struct {
	X, Y float64
}

// CellRect places a record on the grid. The cell is shrunk toward the
// center of its grid square by (1 - confidence); confidence is clamped to
// [0, 1] so the cell never outgrows its square.
func (l Layout) CellRect(r Record) Rect {
	g := l.GridSize()
	c := clampUnit(r.Confidence)
	inset := g * (1 - c) * 0.5
	return Rect{
		X:      (r.Column-1)*g + inset + float64(l.YLabelSpace),
		Y:      (r.Row-1)*g + inset + float64(l.XLabelSpace),
		Width:  g * c,
		Height: g * c,
		RX:     l.CornerRadius,
		RY:     l.CornerRadius,
	}
}

// RowLabelAt returns the anchor of the i-th row label. Row labels are
// right-aligned against the left margin.
func (l Layout) RowLabelAt(i int) Point {
	g := l.GridSize()
	return Point{
		X: float64(l.YLabelSpace - labelInset),
		Y: (float64(i)+0.6)*g + float64(l.XLabelSpace),
	}
}

// ColumnLabelAt returns the anchor of the i-th column label.
func (l Layout) ColumnLabelAt(i int) Point {
	g := l.GridSize()
	return Point{
		X: (float64(i)+0.4)*g + float64(l.YLabelSpace),
		Y: float64(l.XLabelSpace - labelInset),
	}
}

// clampUnit limits c to [0, 1]. NaN is returned unchanged.
func clampUnit(c float64) float64 {
	if math.IsNaN(c) {
		return c
	}
	return math.Max(0, math.Min(1, c))
}
