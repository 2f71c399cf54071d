// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownFormatter(t *testing.T) {
	w := newWidget(t, sampleFeed+"9,1,2,1\n")

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().Format(w, &buf))
	out := buf.String()

	assert.Contains(t, out, "# Heatmap\n\n**Cells:** 4 | **Grid:** 24 × 7 | **Domain:** legacy")
	assert.Contains(t, out, "| Tu | 3a | 5 | 0.5 | 3 | `#c7e9b4` |")
	assert.Contains(t, out, "| We | 12p | 10 | 1 | 9 | `#081d58` |")
	assert.Contains(t, out, "| 9 | 1a | 2 |", "off-grid rows fall back to the number")
}

func TestMarkdownFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().Format(newWidget(t, ""), &buf))
	assert.Contains(t, buf.String(), "**Cells:** 0")
	assert.NotContains(t, buf.String(), "| Row |")
}
