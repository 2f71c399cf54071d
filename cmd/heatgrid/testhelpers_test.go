// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/heatgrid/internal/testable"
)

// sampleFeed has three cells on the default 7x24 grid.
const sampleFeed = "y_label,x_label,value,confidence\n1,1,5,1\n2,3,10,0.5\n7,24,1,1\n"

// newTestCmd resets every flag, redirects rootCmd's I/O to buffers and
// gives it an empty stdin.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	resetFlags()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(""))
	return rootCmd, stdout, stderr
}

// resetFlags restores every flag of every command to its default.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		f.Changed = false
		_ = f.Value.Set(f.DefValue)
	}
	var visit func(c *cobra.Command)
	visit = func(c *cobra.Command) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			visit(sub)
		}
	}
	visit(rootCmd)
	resetConfigFlags()
}

// isolate runs the test in an empty working directory with an empty global
// config home and no feed token. It returns the working directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".xdg"))
	t.Setenv("HEATGRID_FEED_TOKEN", "")
	t.Chdir(dir)
	return dir
}

// writeTestFile creates a file (and any necessary parent directories) under dir.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// withMockFS swaps cmdFS with the given mock and restores it on test cleanup.
func withMockFS(t *testing.T, mock *testable.MockFileSystem) {
	t.Helper()
	orig := cmdFS
	cmdFS = mock
	t.Cleanup(func() { cmdFS = orig })
}

// exitCode returns the exit code carried by err, or -1.
func exitCode(err error) int {
	var ece *exitCodeError
	if errors.As(err, &ece) {
		return ece.ExitCode()
	}
	return -1
}
