// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package heatmap

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/davetashner/heatgrid/internal/surface"
)

// Signals a host can push to the widget.
const (
	SignalSetData         = "sgnSetData"
	SignalSetXLabels      = "sgnSetXLabels"
	SignalSetYLabels      = "sgnSetYLabels"
	SignalSetMaxXElements = "sgnSetMaxXElements"
	SignalSetMaxYElements = "sgnSetMaxYElements"
)

// BannerText is shown in the error banner when the host bridge cannot be
// connected.
const BannerText = "Cannot connect to host!"

// Element classes.
const (
	classCell        = "x_label bordered"
	classRowLabel    = "dayLabel mono axis"
	classColumnLabel = "timeLabel mono axis"
	classRowHigh     = "axis-workweek"
	classColumnHigh  = "axis-worktime"
)

// Sink receives the widget's diagnostics.
type Sink interface {
	Log(text string)
	Error(text string)
}

// Bridge is a host connection: a Sink that can also deliver pushed signals.
type Bridge interface {
	Sink
	Connect(signal string, handler func(payload string)) error
}

// Widget draws a heatmap onto a retained-mode SVG surface and keeps it in
// sync with the latest pushed record set. A Widget is not safe for
// concurrent use; hosts deliver one signal at a time.
type Widget struct {
	layout    Layout
	sink      Sink
	doc       *surface.Document
	cells     []Record
	scale     *Scale
	banner    string
	connected bool
	// attachGen counts Attach calls. Handlers from an older or failed
	// attach see a different value and drop their payloads.
	attachGen int
}

// New creates a widget that reports diagnostics to sink and draws its
// initial, empty visualization.
func New(layout Layout, sink Sink) *Widget {
	w := &Widget{
		layout: layout.Clone(),
		sink:   sink,
		scale:  NewScale(nil, layout.Colors),
	}
	w.DrawVisualization()
	return w
}

// Attach connects the widget's push handlers to b. On success b becomes the
// diagnostics sink. On failure, including a panicking bridge, the error
// banner is set, diagnostics stay on the sink given to New, and false is
// returned; the widget keeps working without push updates. Handlers that
// were connected before the failure ignore everything pushed to them.
func (w *Widget) Attach(b Bridge) (ok bool) {
	w.attachGen++
	gen := w.attachGen
	w.connected = false

	defer func() {
		if r := recover(); r != nil {
			w.connectFailed(fmt.Sprint(r))
			ok = false
		}
	}()

	handlers := []struct {
		signal string
		fn     func(string) error
	}{
		{SignalSetData, func(p string) error { _, err := w.SetData(p); return err }},
		{SignalSetXLabels, w.SetXLabels},
		{SignalSetYLabels, w.SetYLabels},
		{SignalSetMaxXElements, w.SetMaxXElements},
		{SignalSetMaxYElements, w.SetMaxYElements},
	}
	for _, h := range handlers {
		if err := b.Connect(h.signal, w.live(gen, w.handler(h.signal, h.fn))); err != nil {
			w.connectFailed(err.Error())
			return false
		}
	}

	w.sink = b
	w.connected = true
	w.banner = ""
	w.sink.Log("Widget up and running...")
	return true
}

// live gates fn on gen still being the current, completed attach.
func (w *Widget) live(gen int, fn func(string)) func(string) {
	return func(payload string) {
		if !w.connected || w.attachGen != gen {
			slog.Debug("push ignored, bridge not attached")
			return
		}
		fn(payload)
	}
}

func (w *Widget) connectFailed(cause string) {
	w.banner = BannerText
	w.connected = false
	w.sink.Error("cannot connect to host: " + cause)
}

// handler wraps fn so that neither an error nor a panic escapes to the host.
// Both are reported to the active sink and the handler simply ends.
func (w *Widget) handler(signal string, fn func(string) error) func(string) {
	return func(payload string) {
		defer func() {
			if r := recover(); r != nil {
				w.sink.Error(fmt.Sprintf("Error: %v\nHandler: %s", r, signal))
			}
		}()
		if err := fn(payload); err != nil {
			w.sink.Error(fmt.Sprintf("Error: %v\nHandler: %s", err, signal))
		}
	}
}

// SetData parses a CSV feed and renders it.
func (w *Widget) SetData(text string) (Diff, error) {
	w.sink.Log("Data changed...")
	feed, err := ParseCSV(text)
	if err != nil {
		return Diff{}, err
	}
	return w.apply(feed), nil
}

// LoadFeed renders a feed that was parsed elsewhere, such as a TSV file or a
// spreadsheet.
func (w *Widget) LoadFeed(feed *Feed) Diff {
	w.sink.Log("Data changed...")
	return w.apply(feed)
}

func (w *Widget) apply(feed *Feed) Diff {
	for _, warn := range feed.Warnings {
		w.sink.Log(warn)
	}
	return w.HeatmapChart(feed.Records)
}

// SetXLabels replaces the column labels from a one-column "label" table.
func (w *Widget) SetXLabels(text string) error {
	labels, err := ParseLabels(text)
	if err != nil {
		return err
	}
	return w.Relayout(w.layout.WithXLabels(labels))
}

// SetYLabels replaces the row labels from a one-column "label" table.
func (w *Widget) SetYLabels(text string) error {
	labels, err := ParseLabels(text)
	if err != nil {
		return err
	}
	return w.Relayout(w.layout.WithYLabels(labels))
}

// SetMaxXElements sets the column count.
func (w *Widget) SetMaxXElements(text string) error {
	n, err := parseCount(text)
	if err != nil {
		return err
	}
	return w.Relayout(w.layout.WithColumns(n))
}

// SetMaxYElements sets the row count.
func (w *Widget) SetMaxYElements(text string) error {
	n, err := parseCount(text)
	if err != nil {
		return err
	}
	return w.Relayout(w.layout.WithRows(n))
}

func parseCount(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("element count: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("element count must be positive, got %d", n)
	}
	return n, nil
}

// Relayout switches to a new layout, redraws the surface and re-renders the
// current cells on it. An invalid layout is rejected and nothing changes.
func (w *Widget) Relayout(l Layout) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("relayout: %w", err)
	}
	cells := w.cells
	w.layout = l.Clone()
	w.DrawVisualization()
	w.HeatmapChart(cells)
	return nil
}

// DrawVisualization discards the surface, recreates it at the layout size
// and draws both label sets. Cells are not redrawn: they return with the
// next HeatmapChart call.
func (w *Widget) DrawVisualization() {
	w.doc = surface.New(w.layout.Width, w.layout.Height)
	w.cells = nil
	w.DrawYLabels()
	w.DrawXLabels()
}

// DrawYLabels draws one right-aligned text per row label.
func (w *Widget) DrawYLabels() {
	slog.Debug("draw y labels", "count", len(w.layout.YLabels))
	for i, label := range w.layout.YLabels {
		p := w.layout.RowLabelAt(i)
		class := classRowLabel
		if w.layout.YHighlight.Contains(i) {
			class += " " + classRowHigh
		}
		el := &surface.Element{Tag: "text", Key: "ylabel:" + strconv.Itoa(i)}
		el.SetText(label).
			SetFloat("x", p.X).
			SetFloat("y", p.Y).
			SetStyle("text-anchor", "end").
			Set("class", class)
		w.doc.Upsert(el)
	}
}

// DrawXLabels draws one text per column label.
func (w *Widget) DrawXLabels() {
	slog.Debug("draw x labels", "count", len(w.layout.XLabels))
	for i, label := range w.layout.XLabels {
		p := w.layout.ColumnLabelAt(i)
		class := classColumnLabel
		if w.layout.XHighlight.Contains(i) {
			class += " " + classColumnHigh
		}
		el := &surface.Element{Tag: "text", Key: "xlabel:" + strconv.Itoa(i)}
		el.SetText(label).
			SetFloat("x", p.X).
			SetFloat("y", p.Y).
			Set("class", class)
		w.doc.Upsert(el)
	}
}

// HeatmapChart replaces the rendered cell set with records. The color scale
// is rebuilt from the new values, then cells are inserted, updated or
// removed by key. It returns the applied diff.
func (w *Widget) HeatmapChart(records []Record) Diff {
	l := w.layout
	w.scale = NewScale(DomainFor(l.DomainMode(), l.Buckets, values(records)), l.Colors)

	diff := Reconcile(w.cells, records)
	for _, k := range diff.Delete {
		w.doc.Remove(cellKey(k))
	}
	for _, r := range diff.Update {
		if el := w.doc.Lookup(cellKey(r.Key())); el != nil {
			w.paintCell(el, r)
		}
	}
	for _, r := range diff.Insert {
		el := &surface.Element{Tag: "rect", Key: cellKey(r.Key())}
		el.Set("class", classCell)
		w.paintCell(el, r)
		w.doc.Upsert(el)
	}
	w.cells = dedupe(records)

	slog.Debug("cells reconciled",
		"inserted", len(diff.Insert), "updated", len(diff.Update), "removed", len(diff.Delete))
	return diff
}

func (w *Widget) paintCell(el *surface.Element, r Record) {
	rect := w.layout.CellRect(r)
	el.SetFloat("x", rect.X).
		SetFloat("y", rect.Y).
		SetFloat("rx", rect.RX).
		SetFloat("ry", rect.RY).
		SetFloat("width", rect.Width).
		SetFloat("height", rect.Height)

	fill, _ := w.scale.Color(r.Value)
	el.SetStyle("fill", fill)
	el.Child("title").SetText(surface.FormatNumber(r.Value))
}

func cellKey(k string) string { return "cell:" + k }

// Layout returns a copy of the current layout.
func (w *Widget) Layout() Layout { return w.layout.Clone() }

// Document returns the drawing surface.
func (w *Widget) Document() *surface.Document { return w.doc }

// Records returns the rendered record set, one record per key.
func (w *Widget) Records() []Record { return slices.Clone(w.cells) }

// Scale returns the color scale of the last render.
func (w *Widget) Scale() *Scale { return w.scale }

// Banner returns the error banner text; empty when there is no error.
func (w *Widget) Banner() string { return w.banner }

// Connected reports whether a host bridge is attached.
func (w *Widget) Connected() bool { return w.connected }
