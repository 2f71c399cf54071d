// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"

	"github.com/davetashner/heatgrid/internal/heatmap"
)

func init() {
	RegisterFormatter(NewSVGFormatter())
}

// SVGFormatter writes the drawing surface as a standalone SVG file.
type SVGFormatter struct{}

var _ Formatter = (*SVGFormatter)(nil)

// NewSVGFormatter returns a new SVGFormatter.
func NewSVGFormatter() *SVGFormatter {
	return &SVGFormatter{}
}

// Name returns the format name.
func (s *SVGFormatter) Name() string {
	return "svg"
}

// Format writes the document with an XML declaration and an embedded
// stylesheet, so the file looks the same outside the HTML page.
func (s *SVGFormatter) Format(w *heatmap.Widget, out io.Writer) error {
	if _, err := io.WriteString(out, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"); err != nil {
		return fmt.Errorf("write svg header: %w", err)
	}
	doc := w.Document()
	if err := doc.EncodeStyled(out, stylesheet("#"+doc.ID())); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}
