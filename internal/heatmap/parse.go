// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package heatmap

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Feed column names.
const (
	ColumnRow        = "y_label"
	ColumnColumn     = "x_label"
	ColumnValue      = "value"
	ColumnConfidence = "confidence"
)

// FeedColumns lists the columns a feed is expected to carry.
var FeedColumns = []string{ColumnRow, ColumnColumn, ColumnValue, ColumnConfidence}

// maxSuggestDistance bounds the edit distance for header suggestions.
const maxSuggestDistance = 2

// Feed is the result of parsing a tabular data feed.
type Feed struct {
	Records []Record
	// Warnings describe feed problems that did not stop parsing, such as a
	// missing column. They never include per-row complaints.
	Warnings []string
}

// Parse reads a delimited table whose first row is the header. Rows are not
// validated: fields are coerced with Coerce and missing columns become NaN.
func Parse(r io.Reader, comma rune) (*Feed, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(rows) == 0 {
		return &Feed{}, nil
	}
	return FromRows(rows[0], rows[1:]), nil
}

// ParseCSV parses comma-separated feed text.
func ParseCSV(text string) (*Feed, error) {
	return Parse(strings.NewReader(text), ',')
}

// ParseTSV parses tab-separated feed text.
func ParseTSV(text string) (*Feed, error) {
	return Parse(strings.NewReader(text), '\t')
}

// FromRows builds a feed from an already split header and body.
func FromRows(header []string, rows [][]string) *Feed {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	feed := &Feed{Records: make([]Record, 0, len(rows))}
	for _, name := range FeedColumns {
		if _, ok := index[name]; ok {
			continue
		}
		msg := fmt.Sprintf("feed has no %q column; its values will be NaN", name)
		if s := suggest(header, name); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		feed.Warnings = append(feed.Warnings, msg)
	}

	field := func(row []string, name string) float64 {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return math.NaN()
		}
		return Coerce(row[i])
	}

	for _, row := range rows {
		feed.Records = append(feed.Records, Record{
			Row:        field(row, ColumnRow),
			Column:     field(row, ColumnColumn),
			Value:      field(row, ColumnValue),
			Confidence: field(row, ColumnConfidence),
		})
	}
	return feed
}

// Coerce converts a feed field to a number the way a script's unary plus
// does: surrounding space is ignored, a blank field is 0, and anything
// unparsable is NaN.
func Coerce(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		// ParseFloat accepts "inf" and "nan" spellings that a script does not.
		if lower := strings.ToLower(strings.TrimLeft(s, "+-")); strings.HasPrefix(lower, "inf") || lower == "nan" {
			return math.NaN()
		}
		return f
	}
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		if n, err := strconv.ParseUint(s, 0, 64); err == nil {
			return float64(n)
		}
	}
	return math.NaN()
}

// ParseLabels reads a one-column table with a "label" header, the format the
// host uses to push axis labels. Without that header the first column is
// used.
func ParseLabels(text string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := 0
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == "label" {
			col = i
			break
		}
	}
	labels := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col < len(row) {
			labels = append(labels, row[col])
		} else {
			labels = append(labels, "")
		}
	}
	return labels, nil
}

// FormatLabels writes labels as the one-column "label" table ParseLabels
// reads. Empty labels are quoted so they survive as rows.
func FormatLabels(labels []string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"label"})
	for _, l := range labels {
		if l == "" {
			w.Flush()
			b.WriteString("\"\"\n")
			continue
		}
		_ = w.Write([]string{l})
	}
	w.Flush()
	return b.String()
}

// suggest returns the header closest to want, if one is close enough to be a
// likely typo.
func suggest(header []string, want string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if d := levenshtein.ComputeDistance(strings.ToLower(h), want); d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}
