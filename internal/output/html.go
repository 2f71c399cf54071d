// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/davetashner/heatgrid/internal/heatmap"
)

func init() {
	RegisterFormatter(NewHTMLFormatter())
}

// HTMLFormatter writes the widget as a self-contained HTML page: the error
// banner, the stylesheet and the inline SVG.
type HTMLFormatter struct {
	// Title is the page title. Defaults to "heatgrid".
	Title string

	nowFunc func() time.Time
}

var _ Formatter = (*HTMLFormatter)(nil)

// NewHTMLFormatter returns a new HTMLFormatter.
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

// Name returns the format name.
func (h *HTMLFormatter) Name() string {
	return "html"
}

var (
	htmlTmplOnce sync.Once
	htmlTmpl     *template.Template
)

type htmlData struct {
	Title       string
	GeneratedAt string
	Banner      string
	Style       template.CSS
	SVG         template.HTML
	Cells       int
}

// Format writes the page to out.
func (h *HTMLFormatter) Format(w *heatmap.Widget, out io.Writer) error {
	htmlTmplOnce.Do(func() {
		htmlTmpl = template.Must(template.New("page").Parse(htmlTemplate))
	})

	doc := w.Document()
	var svg bytes.Buffer
	if err := doc.Encode(&svg); err != nil {
		return err
	}

	now := time.Now()
	if h.nowFunc != nil {
		now = h.nowFunc()
	}
	title := h.Title
	if title == "" {
		title = "heatgrid"
	}

	data := htmlData{
		Title:       title,
		GeneratedAt: now.UTC().Format("2006-01-02T15:04:05Z"),
		Banner:      w.Banner(),
		Style:       template.CSS(stylesheet("#" + doc.ID())), //nolint:gosec // generated from constants
		SVG:         template.HTML(svg.String()),              //nolint:gosec // escaped by the xml encoder
		Cells:       len(w.Records()),
	}
	if err := htmlTmpl.Execute(out, data); err != nil {
		return fmt.Errorf("execute html template: %w", err)
	}
	return nil
}

// stylesheet returns the widget rules scoped to the given selector.
func stylesheet(scope string) string {
	rules := []string{
		"rect.bordered { stroke: #E6E6E6; stroke-width: 2px; }",
		"text.mono { font-size: 9pt; font-family: Consolas, courier; fill: #aaa; }",
		"text.axis-workweek, text.axis-worktime { fill: #000; }",
	}
	var b strings.Builder
	for _, r := range rules {
		sel, body, _ := strings.Cut(r, " { ")
		parts := strings.Split(sel, ", ")
		for i, p := range parts {
			parts[i] = scope + " " + p
		}
		b.WriteString(strings.Join(parts, ", ") + " { " + body + "\n")
	}
	return b.String()
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="generator" content="heatgrid">
<style>
body { margin: 0; font-family: sans-serif; }
#ErrorBox { background: #fdd; color: #900; padding: 4px 8px; }
{{.Style}}</style>
</head>
<body>
{{if .Banner}}<div id="ErrorBox">{{.Banner}}</div>
{{end}}<div id="chart" data-cells="{{.Cells}}" data-generated="{{.GeneratedAt}}">
{{.SVG}}
</div>
</body>
</html>
`
