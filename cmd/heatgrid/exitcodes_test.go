// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeExitCode(t *testing.T) {
	tests := []struct {
		name          string
		failed, total int
		want          int
	}{
		{"all ok", 0, 3, ExitOK},
		{"some failed", 1, 3, ExitPartialFailure},
		{"all failed", 3, 3, ExitTotalFailure},
		{"single failed", 1, 1, ExitTotalFailure},
		{"no inputs", 0, 0, ExitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeExitCode(tt.failed, tt.total))
		})
	}
}

func TestExitError_DefaultMessages(t *testing.T) {
	assert.Equal(t, "heatgrid: some inputs failed", exitError(ExitPartialFailure, "").Error())
	assert.Equal(t, "heatgrid: all inputs failed", exitError(ExitTotalFailure, "").Error())
	assert.Equal(t, "heatgrid: error", exitError(ExitInvalidArgs, "").Error())
}

func TestExitError_Formats(t *testing.T) {
	err := exitError(ExitPartialFailure, "heatgrid: %d of %d inputs failed", 1, 2)
	assert.Equal(t, "heatgrid: 1 of 2 inputs failed", err.Error())
	assert.Equal(t, ExitPartialFailure, err.ExitCode())
	assert.Equal(t, ExitPartialFailure, exitCode(err))
}
