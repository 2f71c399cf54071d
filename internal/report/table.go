// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// Alignment controls how a column's content is justified.
type Alignment int

const (
	// AlignLeft pads on the right (default).
	AlignLeft Alignment = iota
	// AlignRight pads on the left.
	AlignRight
)

// ColorFunc decorates a cell value. If nil, the value is printed as is.
type ColorFunc func(value string) string

// Column describes a single table column.
type Column struct {
	Header string
	Align  Alignment
	Color  ColorFunc
}

// Table renders aligned text tables to an io.Writer.
type Table struct {
	columns []Column
	rows    [][]string
}

// NewTable creates a table with the given column definitions.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// AddRow appends a row. Extra values are dropped and missing values are
// empty.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Render writes the table to w. Widths are measured on the decorated cell
// text with escape sequences stripped, so swatches and wide runes line up.
func (t *Table) Render(w io.Writer) error {
	if len(t.columns) == 0 {
		return nil
	}

	cells := make([][]string, len(t.rows))
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = lipgloss.Width(col.Header)
	}
	for r, row := range t.rows {
		cells[r] = make([]string, len(row))
		for i, v := range row {
			if c := t.columns[i].Color; c != nil {
				v = c(v)
			}
			cells[r][i] = v
			widths[i] = max(widths[i], lipgloss.Width(v))
		}
	}

	bold := color.New(color.Bold)
	header := make([]string, len(t.columns))
	rule := make([]string, len(t.columns))
	for i, col := range t.columns {
		header[i] = bold.Sprint(pad(col.Header, widths[i], col.Align))
		rule[i] = strings.Repeat("-", widths[i])
	}
	if err := writeLine(w, header); err != nil {
		return err
	}
	if err := writeLine(w, rule); err != nil {
		return err
	}
	for _, row := range cells {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = pad(v, widths[i], t.columns[i].Align)
		}
		if err := writeLine(w, parts); err != nil {
			return err
		}
	}
	return nil
}

func pad(s string, width int, align Alignment) string {
	n := width - lipgloss.Width(s)
	if n <= 0 {
		return s
	}
	if align == AlignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

func writeLine(w io.Writer, parts []string) error {
	if _, err := fmt.Fprintf(w, "  %s\n", strings.TrimRight(strings.Join(parts, "  "), " ")); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
