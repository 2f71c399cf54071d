// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"image/png"
	"io"

	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/surface"
)

func init() {
	RegisterFormatter(NewPNGFormatter())
}

// PNGFormatter rasterizes the drawing surface.
type PNGFormatter struct {
	Options surface.RasterOptions
}

var _ Formatter = (*PNGFormatter)(nil)

// NewPNGFormatter returns a PNGFormatter using the stylesheet colors.
func NewPNGFormatter() *PNGFormatter {
	return &PNGFormatter{Options: surface.DefaultRasterOptions()}
}

// Name returns the format name.
func (p *PNGFormatter) Name() string {
	return "png"
}

// Format writes the rasterized document as PNG.
func (p *PNGFormatter) Format(w *heatmap.Widget, out io.Writer) error {
	img := w.Document().Rasterize(p.Options)
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
