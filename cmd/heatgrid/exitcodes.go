// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import "fmt"

// Exit codes for the heatgrid CLI.
const (
	ExitOK             = 0 // Every input rendered.
	ExitInvalidArgs    = 1 // Invalid arguments, config, or layout.
	ExitPartialFailure = 2 // Some inputs failed, the rest were written.
	ExitTotalFailure   = 3 // No output produced.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitPartialFailure:
			msg = "heatgrid: some inputs failed"
		case ExitTotalFailure:
			msg = "heatgrid: all inputs failed"
		default:
			msg = "heatgrid: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}

// computeExitCode maps a failure count over total inputs to an exit code.
func computeExitCode(failed, total int) int {
	switch {
	case failed == 0:
		return ExitOK
	case failed >= total:
		return ExitTotalFailure
	default:
		return ExitPartialFailure
	}
}
