// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package surface provides a retained-mode SVG document. Elements stay
// addressable by key after they are drawn, so callers can update or remove
// them in place instead of redrawing the whole picture.
package surface

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrDuplicateKey is returned by Append when an element with the same key is
// already part of the document.
var ErrDuplicateKey = errors.New("surface: duplicate element key")

// Attr is a single name/value pair on an element.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the document. Attributes and style properties keep
// their insertion order so serialization is deterministic.
type Element struct {
	Tag      string
	Key      string
	Text     string
	Children []*Element

	attrs  []Attr
	styles []Attr
}

// NewElement returns an empty element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// Set assigns an attribute, replacing any previous value.
func (e *Element) Set(name, value string) *Element {
	e.attrs = setAttr(e.attrs, name, value)
	return e
}

// SetFloat assigns a numeric attribute using the shortest decimal form.
func (e *Element) SetFloat(name string, v float64) *Element {
	return e.Set(name, FormatNumber(v))
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	return lookupAttr(e.attrs, name)
}

// Float parses a numeric attribute. Missing or malformed values yield NaN.
func (e *Element) Float(name string) float64 {
	v, ok := e.Attr(name)
	if !ok {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Attrs returns a copy of the element's attributes in insertion order.
func (e *Element) Attrs() []Attr {
	return slices.Clone(e.attrs)
}

// SetStyle assigns an inline style property. An empty value removes the
// property.
func (e *Element) SetStyle(name, value string) *Element {
	if value == "" {
		e.styles = slices.DeleteFunc(e.styles, func(a Attr) bool { return a.Name == name })
		return e
	}
	e.styles = setAttr(e.styles, name, value)
	return e
}

// Style returns the inline style property and whether it is present.
func (e *Element) Style(name string) (string, bool) {
	return lookupAttr(e.styles, name)
}

// SetText replaces the element's character data.
func (e *Element) SetText(text string) *Element {
	e.Text = text
	return e
}

// HasClass reports whether the class attribute contains class.
func (e *Element) HasClass(class string) bool {
	v, ok := e.Attr("class")
	if !ok {
		return false
	}
	return slices.Contains(strings.Fields(v), class)
}

// Child returns the first child with the given tag, creating it if needed.
func (e *Element) Child(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	c := NewElement(tag)
	e.Children = append(e.Children, c)
	return c
}

func (e *Element) styleString() string {
	if len(e.styles) == 0 {
		return ""
	}
	parts := make([]string, len(e.styles))
	for i, s := range e.styles {
		parts[i] = s.Name + ": " + s.Value + ";"
	}
	return strings.Join(parts, " ")
}

func setAttr(attrs []Attr, name, value string) []Attr {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attr{Name: name, Value: value})
}

func lookupAttr(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Document is a fixed-size SVG drawing. Top-level elements are kept in
// drawing order; keyed elements can be looked up, replaced and removed.
// A Document is not safe for concurrent use.
type Document struct {
	id     string
	width  int
	height int
	elems  []*Element
	byKey  map[string]*Element
}

// New creates an empty document of the given pixel size. Each document gets
// a unique id so several of them can share one HTML page.
func New(width, height int) *Document {
	return &Document{
		id:     "heatgrid-" + uuid.NewString(),
		width:  width,
		height: height,
		byKey:  make(map[string]*Element),
	}
}

// ID returns the document's element id.
func (d *Document) ID() string { return d.id }

// Width returns the document width in pixels.
func (d *Document) Width() int { return d.width }

// Height returns the document height in pixels.
func (d *Document) Height() int { return d.height }

// Len returns the number of top-level elements.
func (d *Document) Len() int { return len(d.elems) }

// Append adds e at the end of the drawing order.
func (d *Document) Append(e *Element) error {
	if e.Key != "" {
		if _, ok := d.byKey[e.Key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, e.Key)
		}
		d.byKey[e.Key] = e
	}
	d.elems = append(d.elems, e)
	return nil
}

// Upsert replaces the element with the same key in place, or appends e when
// the key is new. Unkeyed elements are always appended.
func (d *Document) Upsert(e *Element) {
	if e.Key != "" {
		if old, ok := d.byKey[e.Key]; ok {
			i := slices.Index(d.elems, old)
			d.elems[i] = e
			d.byKey[e.Key] = e
			return
		}
	}
	_ = d.Append(e)
}

// Lookup returns the element with the given key, or nil.
func (d *Document) Lookup(key string) *Element {
	return d.byKey[key]
}

// Remove deletes the element with the given key. It reports whether an
// element was removed.
func (d *Document) Remove(key string) bool {
	e, ok := d.byKey[key]
	if !ok {
		return false
	}
	delete(d.byKey, key)
	d.elems = slices.DeleteFunc(d.elems, func(x *Element) bool { return x == e })
	return true
}

// Elements returns the top-level elements in drawing order.
func (d *Document) Elements() []*Element {
	return slices.Clone(d.elems)
}

// Select returns the top-level elements with the given tag that carry class.
// An empty tag or class matches anything.
func (d *Document) Select(tag, class string) []*Element {
	var out []*Element
	for _, e := range d.elems {
		if tag != "" && e.Tag != tag {
			continue
		}
		if class != "" && !e.HasClass(class) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FormatNumber renders v the way a browser prints a number: shortest
// round-trip form, "NaN" and "Infinity" for the special values, and an
// exponent ("1e+21", "1.5e-7") at or above 1e21 and below 1e-6.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if a := math.Abs(v); a >= 1e21 || a < 1e-6 {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
		// Go pads the exponent to two digits.
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
