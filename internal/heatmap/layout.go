// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package heatmap implements the heatmap widget: layout, feed parsing, the
// quantile color scale, cell geometry, keyed reconciliation, and the widget
// that applies all of it to a retained-mode SVG surface.
package heatmap

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// DomainMode selects how the color scale's domain is built from the data.
type DomainMode string

const (
	// DomainLegacy uses [0, buckets-1, max(value)].
	DomainLegacy DomainMode = "legacy"
	// DomainExtent uses [min(value), max(value)].
	DomainExtent DomainMode = "extent"
	// DomainObserved uses every observed value.
	DomainObserved DomainMode = "observed"
)

// Valid reports whether m is a known domain mode. The empty mode is treated
// as DomainLegacy.
func (m DomainMode) Valid() bool {
	switch m {
	case "", DomainLegacy, DomainExtent, DomainObserved:
		return true
	}
	return false
}

// Span is an inclusive index range.
type Span struct {
	From int
	To   int
}

// Contains reports whether i lies within the span.
func (s Span) Contains(i int) bool {
	return i >= s.From && i <= s.To
}

// Default palette: colorbrewer YlGnBu with 9 classes.
var defaultColors = []string{
	"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4",
	"#1d91c0", "#225ea8", "#253494", "#081d58",
}

var (
	defaultYLabels = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	defaultXLabels = []string{
		"1a", "2a", "3a", "4a", "5a", "6a", "7a", "8a", "9a", "10a", "11a", "12a",
		"1p", "2p", "3p", "4p", "5p", "6p", "7p", "8p", "9p", "10p", "11p", "12p",
	}
)

// Layout is the widget's configuration. It is a value: the With* methods
// return modified copies and never share label or color slices with the
// receiver.
type Layout struct {
	Width  int
	Height int

	// XLabelSpace is the top margin reserved for column labels.
	XLabelSpace int
	// YLabelSpace is the left margin reserved for row labels.
	YLabelSpace int

	// Columns and Rows size the grid. Zero means "one per label".
	Columns int
	Rows    int

	Buckets int
	Colors  []string

	XLabels []string
	YLabels []string

	XHighlight Span
	YHighlight Span

	CornerRadius float64
	Domain       DomainMode
}

// DefaultLayout returns the day-of-week × hour-of-day layout.
func DefaultLayout() Layout {
	return Layout{
		Width:        600,
		Height:       800,
		XLabelSpace:  30,
		YLabelSpace:  30,
		Buckets:      9,
		Colors:       slices.Clone(defaultColors),
		XLabels:      slices.Clone(defaultXLabels),
		YLabels:      slices.Clone(defaultYLabels),
		XHighlight:   Span{From: 7, To: 16},
		YHighlight:   Span{From: 0, To: 4},
		CornerRadius: 4,
		Domain:       DomainLegacy,
	}
}

// ColumnCount returns the number of grid columns.
func (l Layout) ColumnCount() int {
	if l.Columns > 0 {
		return l.Columns
	}
	return len(l.XLabels)
}

// RowCount returns the number of grid rows.
func (l Layout) RowCount() int {
	if l.Rows > 0 {
		return l.Rows
	}
	return len(l.YLabels)
}

// GridSize returns the side of one square grid cell in pixels: the largest
// whole-pixel size at which every column and every row fits beside the
// label margins.
func (l Layout) GridSize() float64 {
	cols, rows := l.ColumnCount(), l.RowCount()
	if cols <= 0 || rows <= 0 {
		return 0
	}
	gx := math.Floor(float64(l.Width-l.YLabelSpace) / float64(cols))
	gy := math.Floor(float64(l.Height-l.XLabelSpace) / float64(rows))
	return math.Max(math.Min(gx, gy), 0)
}

// DomainMode returns the effective domain mode.
func (l Layout) DomainMode() DomainMode {
	if l.Domain == "" {
		return DomainLegacy
	}
	return l.Domain
}

// WithXLabels returns a copy of l with the given column labels.
func (l Layout) WithXLabels(labels []string) Layout {
	c := l.Clone()
	c.XLabels = slices.Clone(labels)
	return c
}

// WithYLabels returns a copy of l with the given row labels.
func (l Layout) WithYLabels(labels []string) Layout {
	c := l.Clone()
	c.YLabels = slices.Clone(labels)
	return c
}

// WithColumns returns a copy of l with an explicit column count.
func (l Layout) WithColumns(n int) Layout {
	c := l.Clone()
	c.Columns = n
	return c
}

// WithRows returns a copy of l with an explicit row count.
func (l Layout) WithRows(n int) Layout {
	c := l.Clone()
	c.Rows = n
	return c
}

// WithDomain returns a copy of l using the given scale domain mode.
func (l Layout) WithDomain(m DomainMode) Layout {
	c := l.Clone()
	c.Domain = m
	return c
}

// Clone returns a deep copy of l.
func (l Layout) Clone() Layout {
	l.Colors = slices.Clone(l.Colors)
	l.XLabels = slices.Clone(l.XLabels)
	l.YLabels = slices.Clone(l.YLabels)
	return l
}

// Validate reports every problem with the layout at once.
func (l Layout) Validate() error {
	var errs []error
	if l.Width <= 0 || l.Height <= 0 {
		errs = append(errs, fmt.Errorf("size must be positive, got %dx%d", l.Width, l.Height))
	}
	if l.XLabelSpace < 0 || l.YLabelSpace < 0 {
		errs = append(errs, fmt.Errorf("label space must be non-negative, got x=%d y=%d", l.XLabelSpace, l.YLabelSpace))
	}
	if l.Columns < 0 || l.Rows < 0 {
		errs = append(errs, fmt.Errorf("grid size must be non-negative, got %dx%d", l.Columns, l.Rows))
	}
	if l.ColumnCount() == 0 {
		errs = append(errs, errors.New("no columns: set column labels or a column count"))
	}
	if l.RowCount() == 0 {
		errs = append(errs, errors.New("no rows: set row labels or a row count"))
	}
	if l.Buckets < 1 {
		errs = append(errs, fmt.Errorf("buckets must be at least 1, got %d", l.Buckets))
	} else if len(l.Colors) != l.Buckets {
		errs = append(errs, fmt.Errorf("palette has %d colors for %d buckets", len(l.Colors), l.Buckets))
	}
	if !l.Domain.Valid() {
		errs = append(errs, fmt.Errorf("unknown scale domain %q (must be legacy, extent, or observed)", l.Domain))
	}
	if l.GridSize() == 0 && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("grid does not fit: %dx%d cells in %dx%d", l.ColumnCount(), l.RowCount(), l.Width, l.Height))
	}
	return errors.Join(errs...)
}
