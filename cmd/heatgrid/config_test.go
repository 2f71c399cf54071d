// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/heatgrid/internal/config"
)

func TestConfigSubcommands_AreRegistered(t *testing.T) {
	subs := map[string]bool{}
	for _, cmd := range configCmd.Commands() {
		subs[cmd.Name()] = true
	}
	for _, name := range []string{"get", "set", "list", "show", "validate"} {
		assert.True(t, subs[name], "%s subcommand should be registered", name)
	}
}

func TestConfigGet_TopLevel(t *testing.T) {
	dir := isolate(t)
	writeTestFile(t, dir, config.FileName, "format: html\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "get", "format"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "html\n", stdout.String())
}

func TestConfigGet_SectionAsYAML(t *testing.T) {
	dir := isolate(t)
	writeTestFile(t, dir, config.FileName, "layout:\n  width: 640\n  domain: extent\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "get", "layout"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "width: 640")
	assert.Contains(t, stdout.String(), "domain: extent")
}

func TestConfigGet_MergesGlobal(t *testing.T) {
	dir := isolate(t)
	writeTestFile(t, dir, ".xdg/heatgrid/config.yaml", "feed:\n  timeout: 5s\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "get", "feed.timeout"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "5s\n", stdout.String())
}

func TestConfigGet_GlobalOnly(t *testing.T) {
	dir := isolate(t)
	writeTestFile(t, dir, config.FileName, "format: html\n")

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "get", "--global", "format"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "format" not found`)
}

func TestConfigSet_WritesProjectFile(t *testing.T) {
	dir := isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "layout.domain", "observed"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Set layout.domain = observed\n", stdout.String())

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "observed", cfg.Layout.Domain)
}

func TestConfigSet_ListValue(t *testing.T) {
	dir := isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "layout.y_labels", "Mon, Tue,Wed"})
	require.NoError(t, cmd.Execute())

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mon", "Tue", "Wed"}, cfg.Layout.YLabels)
}

func TestConfigSet_Global(t *testing.T) {
	dir := isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "--global", "concurrency", "8"})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(dir, ".xdg", "heatgrid", "config.yaml"))
	assert.NoFileExists(t, filepath.Join(dir, config.FileName))
	cfg, err := config.LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Concurrency)
}

func TestConfigSet_UnknownKey(t *testing.T) {
	isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "layout.colour", "red"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown key "colour"`)
}

func TestConfigSet_InvalidValueNotWritten(t *testing.T) {
	dir := isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "layout.domain", "linear"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layout.domain: invalid value")
	assert.NoFileExists(t, filepath.Join(dir, config.FileName))
}

func TestConfigSet_RefusesTOML(t *testing.T) {
	dir := isolate(t)
	path := writeTestFile(t, dir, "alt.toml", "format = \"svg\"\n")

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "--config", path, "format", "png"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edit "+path+" directly")
}

func TestConfigList(t *testing.T) {
	disableColor(t)
	dir := isolate(t)
	writeTestFile(t, dir, ".xdg/heatgrid/config.yaml", "format: png\nconcurrency: 2\n")
	writeTestFile(t, dir, config.FileName, "format: html\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "list"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "concurrency = 2 (global)\nformat = html (project)\n", stdout.String())
}

func TestConfigList_Empty(t *testing.T) {
	isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "list"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "No configuration set.")
}

func TestConfigShow(t *testing.T) {
	dir := isolate(t)
	writeTestFile(t, dir, ".xdg/heatgrid/config.yaml", "layout:\n  width: 640\n")
	writeTestFile(t, dir, config.FileName, "layout:\n  height: 480\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "show"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "width: 640")
	assert.Contains(t, stdout.String(), "height: 480")

	cmd, stdout, _ = newTestCmd()
	cmd.SetArgs([]string{"config", "show", "--toml"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "[layout]")
	assert.Contains(t, stdout.String(), "width = 640")
}

func TestConfigValidate(t *testing.T) {
	dir := isolate(t)
	writeTestFile(t, dir, config.FileName, "layout:\n  width: 640\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "validate"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Configuration is valid.\n", stdout.String())

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("layout:\n  width: 20\n  height: 20\n"), 0o600))
	cmd, _, _ = newTestCmd()
	cmd.SetArgs([]string{"config", "validate"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), "grid does not fit")
}
