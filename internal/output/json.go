// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/davetashner/heatgrid/internal/heatmap"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// Number is a float that encodes NaN and infinities as null.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// JSONDocument is the json output: the layout, the scale and every cell.
type JSONDocument struct {
	Layout     JSONLayout `json:"layout"`
	Thresholds []Number   `json:"thresholds"`
	Cells      []JSONCell `json:"cells"`
	Metadata   JSONMeta   `json:"metadata"`
}

// JSONLayout describes the grid.
type JSONLayout struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Columns  int      `json:"columns"`
	Rows     int      `json:"rows"`
	GridSize float64  `json:"grid_size"`
	XLabels  []string `json:"x_labels"`
	YLabels  []string `json:"y_labels"`
	Colors   []string `json:"colors"`
	Domain   string   `json:"domain"`
}

// JSONCell is one rendered cell.
type JSONCell struct {
	Key        string `json:"key"`
	Row        Number `json:"row"`
	Column     Number `json:"column"`
	Value      Number `json:"value"`
	Confidence Number `json:"confidence"`
	X          Number `json:"x"`
	Y          Number `json:"y"`
	Width      Number `json:"width"`
	Height     Number `json:"height"`
	Bucket     int    `json:"bucket"`
	Fill       string `json:"fill,omitempty"`
}

// JSONMeta carries render metadata.
type JSONMeta struct {
	Banner      string `json:"banner,omitempty"`
	GeneratedAt string `json:"generated_at"`
}

// JSONFormatter writes the widget state as JSON.
type JSONFormatter struct {
	// Compact controls whether output is compact (single line) or pretty-printed.
	// When false (default), output is pretty-printed for terminals and
	// compact for pipes and files.
	Compact bool

	nowFunc func() time.Time
}

var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Build assembles the JSON document for w.
func (f *JSONFormatter) Build(w *heatmap.Widget) JSONDocument {
	l := w.Layout()
	scale := w.Scale()

	now := time.Now()
	if f.nowFunc != nil {
		now = f.nowFunc()
	}

	doc := JSONDocument{
		Layout: JSONLayout{
			Width:    l.Width,
			Height:   l.Height,
			Columns:  l.ColumnCount(),
			Rows:     l.RowCount(),
			GridSize: l.GridSize(),
			XLabels:  nonNil(l.XLabels),
			YLabels:  nonNil(l.YLabels),
			Colors:   nonNil(l.Colors),
			Domain:   string(l.DomainMode()),
		},
		Thresholds: []Number{},
		Cells:      []JSONCell{},
		Metadata: JSONMeta{
			Banner:      w.Banner(),
			GeneratedAt: now.UTC().Format("2006-01-02T15:04:05Z"),
		},
	}
	for _, t := range scale.Thresholds() {
		doc.Thresholds = append(doc.Thresholds, Number(t))
	}
	for _, r := range w.Records() {
		rect := l.CellRect(r)
		fill, _ := scale.Color(r.Value)
		doc.Cells = append(doc.Cells, JSONCell{
			Key:        r.Key(),
			Row:        Number(r.Row),
			Column:     Number(r.Column),
			Value:      Number(r.Value),
			Confidence: Number(r.Confidence),
			X:          Number(rect.X),
			Y:          Number(rect.Y),
			Width:      Number(rect.Width),
			Height:     Number(rect.Height),
			Bucket:     scale.Bucket(r.Value),
			Fill:       fill,
		})
	}
	return doc
}

// Format writes the JSON document to out.
func (f *JSONFormatter) Format(w *heatmap.Widget, out io.Writer) error {
	doc := f.Build(w)

	var data []byte
	var err error
	if f.shouldCompact(out) {
		data, err = json.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// shouldCompact pretty-prints for terminals and non-file writers, and
// compacts for pipes and regular files unless Compact forces it.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}
	if file, ok := w.(*os.File); ok {
		fi, err := file.Stat()
		if err != nil {
			return false
		}
		return fi.Mode()&os.ModeCharDevice == 0
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
