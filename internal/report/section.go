// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package report renders a widget for the terminal: a scale summary, a
// colored grid preview and a record table, each as a registered section.
package report

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/davetashner/heatgrid/internal/heatmap"
)

// Section is one block of terminal output.
type Section interface {
	// Name is the key used by --sections and the sections config.
	Name() string
	// Title heads the section's output.
	Title() string
	Render(w *heatmap.Widget, out io.Writer) error
}

// sections holds the registered sections in registration order.
var (
	mu       sync.RWMutex
	sections []Section
)

// Register appends s to the registry. Registering a name twice panics.
func Register(s Section) {
	mu.Lock()
	defer mu.Unlock()
	if indexOf(s.Name()) >= 0 {
		panic(fmt.Sprintf("report section already registered: %s", s.Name()))
	}
	sections = append(sections, s)
}

// Get returns the named section, or nil.
func Get(name string) Section {
	mu.RLock()
	defer mu.RUnlock()
	if i := indexOf(name); i >= 0 {
		return sections[i]
	}
	return nil
}

// List returns the section names in registration order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name()
	}
	return names
}

// indexOf must be called with mu held.
func indexOf(name string) int {
	return slices.IndexFunc(sections, func(s Section) bool { return s.Name() == name })
}

func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	sections = nil
}
