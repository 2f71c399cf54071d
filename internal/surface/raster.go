// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RasterOptions controls how Rasterize paints a document. The defaults mirror
// the stylesheet the HTML output ships with.
type RasterOptions struct {
	Background       color.Color
	Text             color.Color
	HighlightText    color.Color
	HighlightClasses []string
	Stroke           color.Color
	StrokeWidth      float64
	BorderClass      string
}

// DefaultRasterOptions returns the options matching the HTML stylesheet.
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{
		Background:       color.White,
		Text:             color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff},
		HighlightText:    color.Black,
		HighlightClasses: []string{"axis-workweek", "axis-worktime"},
		Stroke:           color.RGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff},
		StrokeWidth:      2,
		BorderClass:      "bordered",
	}
}

// Rasterize paints the document into an RGBA image of the document's size.
// Only rect and text elements are drawn; everything else is ignored. Shapes
// are anti-aliased.
func (d *Document) Rasterize(opts RasterOptions) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	gc, err := drawing.NewRasterGraphicContext(img)
	if err != nil {
		// img is always *image.RGBA.
		panic(err)
	}
	for _, e := range d.elems {
		switch e.Tag {
		case "rect":
			paintRect(gc, e, opts)
		case "text":
			paintText(img, e, opts)
		}
	}
	return img
}

// paintRect fills a rect, and strokes it centered on its edge when it
// carries the border class. A rect without a fill is black, as in SVG.
func paintRect(gc *drawing.RasterGraphicContext, e *Element, opts RasterOptions) {
	x, y := e.Float("x"), e.Float("y")
	w, h := e.Float("width"), e.Float("height")
	r := e.Float("rx")
	if math.IsNaN(r) {
		r = 0
	}
	if anyInvalid(x, y, w, h) || w <= 0 || h <= 0 {
		return
	}

	fill, ok := parseColor(styleOrAttr(e, "fill"))
	if !ok {
		fill = color.Black
	}
	gc.SetFillColor(fill)

	gc.BeginPath()
	roundedRect(gc, x, y, w, h, r)
	if opts.BorderClass != "" && e.HasClass(opts.BorderClass) && opts.StrokeWidth > 0 {
		gc.SetStrokeColor(opts.Stroke)
		gc.SetLineWidth(opts.StrokeWidth)
		gc.FillStroke()
		return
	}
	gc.Fill()
}

// roundedRect adds a closed rectangle path with corner radius r, clamped to
// half the shorter side.
func roundedRect(gc *drawing.RasterGraphicContext, x, y, w, h, r float64) {
	r = math.Max(math.Min(r, math.Min(w, h)/2), 0)
	if r == 0 {
		gc.MoveTo(x, y)
		gc.LineTo(x+w, y)
		gc.LineTo(x+w, y+h)
		gc.LineTo(x, y+h)
		gc.Close()
		return
	}
	const quarter = math.Pi / 2
	gc.MoveTo(x+r, y)
	gc.LineTo(x+w-r, y)
	gc.ArcTo(x+w-r, y+r, r, r, -quarter, quarter)
	gc.LineTo(x+w, y+h-r)
	gc.ArcTo(x+w-r, y+h-r, r, r, 0, quarter)
	gc.LineTo(x+r, y+h)
	gc.ArcTo(x+r, y+h-r, r, r, quarter, quarter)
	gc.LineTo(x, y+r)
	gc.ArcTo(x+r, y+r, r, r, math.Pi, quarter)
	gc.Close()
}

func paintText(img *image.RGBA, e *Element, opts RasterOptions) {
	x, y := e.Float("x"), e.Float("y")
	if anyInvalid(x, y) || e.Text == "" {
		return
	}

	col := opts.Text
	if slices.ContainsFunc(opts.HighlightClasses, e.HasClass) {
		col = opts.HighlightText
	}

	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	dot := fixed.I(int(math.Round(x)))
	switch styleOrAttr(e, "text-anchor") {
	case "end":
		dot -= dr.MeasureString(e.Text)
	case "middle":
		dot -= dr.MeasureString(e.Text) / 2
	}
	dr.Dot = fixed.Point26_6{X: dot, Y: fixed.I(int(math.Round(y)))}
	dr.DrawString(e.Text)
}

func styleOrAttr(e *Element, name string) string {
	if v, ok := e.Style(name); ok {
		return v
	}
	v, _ := e.Attr(name)
	return v
}

func parseColor(s string) (color.Color, bool) {
	if s == "" {
		return nil, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
}

func anyInvalid(vs ...float64) bool {
	return slices.ContainsFunc(vs, func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) })
}
