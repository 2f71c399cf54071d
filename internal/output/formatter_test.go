// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/heatgrid/internal/heatmap"
)

type nopSink struct{}

func (nopSink) Log(string)   {}
func (nopSink) Error(string) {}

// newWidget returns a default-layout widget holding feed.
func newWidget(t *testing.T, feed string) *heatmap.Widget {
	t.Helper()
	w := heatmap.New(heatmap.DefaultLayout(), nopSink{})
	if feed != "" {
		_, err := w.SetData(feed)
		require.NoError(t, err)
	}
	return w
}

const sampleFeed = "y_label,x_label,value,confidence\n1,1,1,1\n2,3,5,0.5\n3,24,10,1\n"

type stubFormatter struct{}

func (s *stubFormatter) Name() string                                { return "stub" }
func (s *stubFormatter) Format(_ *heatmap.Widget, _ io.Writer) error { return nil }

func TestRegistry(t *testing.T) {
	for _, name := range []string{"svg", "html", "png", "json", "markdown"} {
		f, err := GetFormatter(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name())
	}
	assert.Equal(t, []string{"html", "json", "markdown", "png", "svg"}, Names())

	_, err := GetFormatter("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format: "pdf" (available: html, json, markdown, png, svg)`)
}

func TestRegistry_Reset(t *testing.T) {
	fmtMu.RLock()
	saved := make(map[string]Formatter, len(fmtRegistry))
	for k, v := range fmtRegistry {
		saved[k] = v
	}
	fmtMu.RUnlock()
	t.Cleanup(func() {
		fmtMu.Lock()
		fmtRegistry = saved
		fmtMu.Unlock()
	})

	resetFmtForTesting()
	assert.Empty(t, Names())

	RegisterFormatter(&stubFormatter{})
	f, err := GetFormatter("stub")
	require.NoError(t, err)
	assert.NoError(t, f.Format(nil, io.Discard))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".svg", Extension("svg"))
	assert.Equal(t, ".png", Extension("png"))
	assert.Equal(t, ".md", Extension("markdown"))
}

func TestSVGFormatter(t *testing.T) {
	w := newWidget(t, sampleFeed)

	var buf bytes.Buffer
	require.NoError(t, NewSVGFormatter().Format(w, &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<svg xmlns="http://www.w3.org/2000/svg" id="`+w.Document().ID()+`" width="600" height="800">`)
	assert.Contains(t, out, "<style>#"+w.Document().ID()+" rect.bordered")
	assert.Equal(t, 3, strings.Count(out, `class="x_label bordered"`))
	assert.Contains(t, out, ">Mo</text>")
}

func TestPNGFormatter(t *testing.T) {
	w := newWidget(t, sampleFeed)

	var buf bytes.Buffer
	require.NoError(t, NewPNGFormatter().Format(w, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 800, img.Bounds().Dy())

	// Center of cell 1:1 carries the lowest palette color #ffffd9.
	r, g, b, _ := img.At(41, 41).RGBA()
	assert.Equal(t, [3]uint32{0xff, 0xff, 0xd9}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestStylesheet(t *testing.T) {
	css := stylesheet("#w")
	assert.Contains(t, css, "#w rect.bordered { stroke: #E6E6E6; stroke-width: 2px; }")
	assert.Contains(t, css, "#w text.axis-workweek, #w text.axis-worktime { fill: #000; }")
}
