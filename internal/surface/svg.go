// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// Encode writes the document as a standalone SVG element.
func (d *Document) Encode(w io.Writer) error {
	return d.encode(w, "")
}

// EncodeStyled writes the document with css embedded as a leading style
// element.
func (d *Document) EncodeStyled(w io.Writer, css string) error {
	return d.encode(w, css)
}

func (d *Document) encode(w io.Writer, css string) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: svgNamespace},
			{Name: xml.Name{Local: "id"}, Value: d.id},
			{Name: xml.Name{Local: "width"}, Value: strconv.Itoa(d.width)},
			{Name: xml.Name{Local: "height"}, Value: strconv.Itoa(d.height)},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return fmt.Errorf("encode svg: %w", err)
	}
	if css != "" {
		style := xml.StartElement{Name: xml.Name{Local: "style"}}
		for _, tok := range []xml.Token{style, xml.CharData(css), style.End()} {
			if err := enc.EncodeToken(tok); err != nil {
				return fmt.Errorf("encode svg: %w", err)
			}
		}
	}
	for _, e := range d.elems {
		if err := encodeElement(enc, e); err != nil {
			return fmt.Errorf("encode svg: %w", err)
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return fmt.Errorf("encode svg: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("encode svg: %w", err)
	}
	return nil
}

func encodeElement(enc *xml.Encoder, e *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Tag}}
	for _, a := range e.attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if style := e.styleString(); style != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "style"}, Value: style})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := encodeElement(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
