// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"

	"github.com/davetashner/heatgrid/internal/heatmap"
)

// ResolveSections returns the section names to render. An empty filter
// selects every section; unknown names in the filter are skipped.
func ResolveSections(filter []string) []string {
	if len(filter) == 0 {
		return List()
	}

	available := make(map[string]bool)
	for _, name := range List() {
		available[name] = true
	}

	var names []string
	for _, name := range filter {
		if available[name] {
			names = append(names, name)
		}
	}
	return names
}

// Render writes the selected sections for w, each under a bold title and
// separated by a blank line. An error banner on the widget is printed first.
func Render(w *heatmap.Widget, out io.Writer, filter []string) error {
	if b := w.Banner(); b != "" {
		if _, err := fmt.Fprintf(out, "%s\n\n", Alert(b)); err != nil {
			return fmt.Errorf("render banner: %w", err)
		}
	}
	for i, name := range ResolveSections(filter) {
		s := Get(name)
		if i > 0 {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return fmt.Errorf("render %s: %w", name, err)
			}
		}
		if _, err := fmt.Fprintf(out, "%s\n", SectionTitle(s.Title())); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		if err := s.Render(w, out); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
	}
	return nil
}
