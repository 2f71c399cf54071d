// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package report

import (
	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	colorBold  = color.New(color.Bold)
	colorFaint = color.New(color.Faint)
	colorRed   = color.New(color.FgRed)
)

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}

// Faint dims secondary text such as missing values.
func Faint(s string) string {
	return colorFaint.Sprint(s)
}

// Swatch prefixes a hex color with a two-cell block painted in that color.
// Values that are not colors print as-is.
func Swatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		if hex == "" {
			return Faint("-")
		}
		return hex
	}
	r, g, b := c.RGB255()
	return color.BgRGB(int(r), int(g), int(b)).Sprint("  ") + " " + hex
}

// Alert colors an error banner.
func Alert(s string) string {
	return colorRed.Sprint(s)
}
