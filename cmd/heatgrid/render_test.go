// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/heatgrid/internal/output"
	"github.com/davetashner/heatgrid/internal/pipeline"
	"github.com/davetashner/heatgrid/internal/testable"
)

func decodeJSON(t *testing.T, data []byte) output.JSONDocument {
	t.Helper()
	var doc output.JSONDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestRender_StdoutSVG(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "<svg")
	assert.Equal(t, 3, strings.Count(out, "<rect"))
}

func TestRender_Stdin(t *testing.T) {
	isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetIn(strings.NewReader(sampleFeed))
	cmd.SetArgs([]string{"render", "-f", "json"})
	require.NoError(t, cmd.Execute())

	doc := decodeJSON(t, stdout.Bytes())
	assert.Len(t, doc.Cells, 3)
	assert.Equal(t, 24, doc.Layout.Columns)
	assert.Equal(t, 7, doc.Layout.Rows)
}

func TestRender_LayoutFlags(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src, "-f", "json", "--width", "900", "--domain", "observed"})
	require.NoError(t, cmd.Execute())

	doc := decodeJSON(t, stdout.Bytes())
	assert.Equal(t, 900, doc.Layout.Width)
	assert.Equal(t, "observed", doc.Layout.Domain)
}

func TestRender_ConfigThenFlags(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)
	writeTestFile(t, dir, ".heatgrid.yaml", "format: json\nlayout:\n  width: 700\n  height: 500\n  domain: extent\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src, "--height", "400"})
	require.NoError(t, cmd.Execute())

	doc := decodeJSON(t, stdout.Bytes())
	assert.Equal(t, 700, doc.Layout.Width, "from config")
	assert.Equal(t, 400, doc.Layout.Height, "flag wins over config")
	assert.Equal(t, "extent", doc.Layout.Domain)
}

func TestRender_GlobalConfigUnderProject(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)
	writeTestFile(t, dir, ".xdg/heatgrid/config.yaml", "format: json\nlayout:\n  width: 650\n  height: 450\n")
	writeTestFile(t, dir, ".heatgrid.yaml", "layout:\n  width: 720\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src})
	require.NoError(t, cmd.Execute())

	doc := decodeJSON(t, stdout.Bytes())
	assert.Equal(t, 720, doc.Layout.Width)
	assert.Equal(t, 450, doc.Layout.Height)
}

func TestRender_ExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)
	cfg := writeTestFile(t, dir, "alt.toml", "format = \"json\"\n\n[layout]\nwidth = 640\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src, "--config", cfg})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 640, decodeJSON(t, stdout.Bytes()).Layout.Width)
}

func TestRender_MissingConfigFile(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src, "--config", filepath.Join(dir, "nope.yaml")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRender_InvalidLayout(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src, "--width", "10", "--height", "10"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), "grid does not fit")
}

func TestRender_UnknownFormat(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src, "-f", "gif"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), `unknown format: "gif"`)
}

func TestRender_SeveralOutputsNeedDirectory(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src, "-f", "svg,json"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), "2 outputs need -o")
}

func TestRender_StdinOnlyOnce(t *testing.T) {
	isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"render", "-", "-", "-o", "out/"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
}

func TestRender_OutputFile(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)
	dst := filepath.Join(dir, "week.html")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src, "-f", "html", "-o", dst})
	require.NoError(t, cmd.Execute())

	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}

func TestRender_OutputDirectory(t *testing.T) {
	dir := isolate(t)
	a := writeTestFile(t, dir, "a/week.csv", sampleFeed)
	b := writeTestFile(t, dir, "b/week.tsv", strings.ReplaceAll(sampleFeed, ",", "\t"))

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"render", a, b, "-f", "svg,json", "-o", "out"})
	require.NoError(t, cmd.Execute())

	for _, name := range []string{"week.svg", "week.json", "week-2.svg", "week-2.json"} {
		assert.FileExists(t, filepath.Join(dir, "out", name))
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "week-2.json"))
	require.NoError(t, err)
	assert.Len(t, decodeJSON(t, data).Cells, 3)
}

func TestRender_PartialFailure(t *testing.T) {
	dir := isolate(t)
	good := writeTestFile(t, dir, "good.csv", sampleFeed)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"render", good, filepath.Join(dir, "missing.csv"), "-o", "out/"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitPartialFailure, exitCode(err))
	assert.Equal(t, "heatgrid: 1 of 2 inputs failed", err.Error())
	assert.FileExists(t, filepath.Join(dir, "out", "good.svg"))
}

func TestRender_TotalFailure(t *testing.T) {
	dir := isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"render", filepath.Join(dir, "missing.csv")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitTotalFailure, exitCode(err))
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestRender_CreateError(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)
	withMockFS(t, &testable.MockFileSystem{
		CreateFn: func(string) (*os.File, error) {
			return nil, errors.New("disk full")
		},
	})

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src, "-o", filepath.Join(dir, "week.svg")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitTotalFailure, exitCode(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestRender_MkdirError(t *testing.T) {
	dir := isolate(t)
	src := writeTestFile(t, dir, "week.csv", sampleFeed)
	withMockFS(t, &testable.MockFileSystem{
		MkdirAllFn: func(string, os.FileMode) error {
			return errors.New("read-only")
		},
	})

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"render", src, "-o", "out/"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), "cannot create output directory")
}

func TestPlanJobs_SingleStdout(t *testing.T) {
	jobs, err := planJobs([]string{"week.csv"}, []string{"svg"}, "")
	require.NoError(t, err)
	assert.Equal(t, []pipeline.Job{{Source: "week.csv", Targets: []pipeline.Target{{Format: "svg"}}}}, jobs)
}

func TestPlanJobs_SingleFile(t *testing.T) {
	isolate(t)
	jobs, err := planJobs([]string{"week.csv"}, []string{"png"}, "heat.png")
	require.NoError(t, err)
	assert.Equal(t, []pipeline.Target{{Format: "png", Path: "heat.png"}}, jobs[0].Targets)
}

func TestPlanJobs_ExistingDirectory(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "out"), 0o750))

	jobs, err := planJobs([]string{"-"}, []string{"markdown"}, "out")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "stdin.md"), jobs[0].Targets[0].Path)
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"-", "stdin"},
		{"data/week.csv", "week"},
		{"data/archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{"https://example.com/feeds/load.tsv?day=1", "load"},
		{"https://example.com/", "example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, outputBase(tt.src))
		})
	}
}

func TestUniqueName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "week", uniqueName("week", used))
	assert.Equal(t, "week-2", uniqueName("week", used))
	assert.Equal(t, "week-3", uniqueName("week", used))
	assert.Equal(t, "day", uniqueName("day", used))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"svg", "png"}, splitList(" svg, ,png "))
	assert.Nil(t, splitList(""))
}
