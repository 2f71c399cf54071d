// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package heatmap

import (
	"math"

	"github.com/davetashner/heatgrid/internal/surface"
)

// Record is one heatmap cell. Fields are floats because the feed is coerced
// loosely: a malformed field becomes NaN and is carried through untouched.
type Record struct {
	Row        float64 // 1-based, y_label column
	Column     float64 // 1-based, x_label column
	Value      float64
	Confidence float64
}

// Key identifies the cell a record occupies, e.g. "3:14".
func (r Record) Key() string {
	return surface.FormatNumber(r.Row) + ":" + surface.FormatNumber(r.Column)
}

// GridPosition returns the zero-based integer cell position and whether the
// record lands on a whole cell inside a rows × cols grid.
func (r Record) GridPosition(rows, cols int) (row, col int, ok bool) {
	if r.Row != math.Trunc(r.Row) || r.Column != math.Trunc(r.Column) {
		return 0, 0, false
	}
	if r.Row < 1 || r.Row > float64(rows) || r.Column < 1 || r.Column > float64(cols) {
		return 0, 0, false
	}
	return int(r.Row) - 1, int(r.Column) - 1, true
}

// values returns the record values in order.
func values(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Value
	}
	return out
}
