// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davetashner/heatgrid/internal/config"
	"github.com/davetashner/heatgrid/internal/feed"
	"github.com/davetashner/heatgrid/internal/output"
	"github.com/davetashner/heatgrid/internal/pipeline"
)

// defaultFormat is used when neither --format nor the config names one.
const defaultFormat = "svg"

// Render-specific flag values.
var (
	renderFormats     string
	renderOutput      string
	renderConcurrency int
)

// renderCmd renders one or more feeds to files or stdout.
var renderCmd = &cobra.Command{
	Use:   "render [feed...]",
	Short: "Render feeds as SVG, HTML, PNG, JSON, or Markdown",
	Long: `Render each feed on its own widget and write the result.

A feed is a file path, an http(s) URL, or "-" for stdin (the default).
The format is detected from the extension or content type; use
--feed-format to force csv, tsv, or xlsx.

A single output goes to stdout unless -o names a file. Several feeds or
several formats need -o to name a directory; each output is then named
after its feed.

Examples:
  heatgrid render week.csv > week.svg
  heatgrid render week.csv -f html,png -o out/
  heatgrid render https://example.com/load.tsv --domain observed -o load.svg`,
	Args: cobra.ArbitraryArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormats, "format", "f", "", "comma-separated output formats: "+strings.Join(output.Names(), ", ")+" (default svg)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file, or directory for several outputs (default: stdout)")
	renderCmd.Flags().IntVar(&renderConcurrency, "concurrency", 0, "max feeds rendered in parallel (default 4)")
	addLayoutFlags(renderCmd)
	addFeedFlags(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	sources := args
	if len(sources) == 0 {
		sources = []string{feed.StdinSource}
	}
	if n := countStdin(sources); n > 1 {
		return exitError(ExitInvalidArgs, "heatgrid: stdin (-) can be read only once, got %d", n)
	}

	cfg, layout, opts, err := setup(cmd)
	if err != nil {
		return err
	}

	formats := resolveFormats(cfg)
	for _, f := range formats {
		if _, err := output.GetFormatter(f); err != nil {
			return exitError(ExitInvalidArgs, "heatgrid: %v", err)
		}
	}

	jobs, err := planJobs(sources, formats, renderOutput)
	if err != nil {
		return exitError(ExitInvalidArgs, "heatgrid: %v", err)
	}

	concurrency := cfg.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency = renderConcurrency
	}

	p, err := pipeline.New(pipeline.Config{
		Layout:      layout,
		Feed:        opts,
		Concurrency: concurrency,
		Create:      createOutput,
		Stdout:      cmd.OutOrStdout(),
	}, jobs)
	if err != nil {
		return exitError(ExitInvalidArgs, "heatgrid: %v", err)
	}

	res := p.Run(cmd.Context(), jobs)
	for _, r := range res.Results {
		if r.Err != nil {
			slog.Error("render failed", "source", r.Source, "error", r.Err)
			continue
		}
		slog.Info("rendered", "source", r.Source, "cells", r.Cells,
			"outputs", strings.Join(r.Outputs, ","), "duration", r.Duration)
	}

	failed, total := res.Failed(), len(res.Results)
	switch computeExitCode(failed, total) {
	case ExitOK:
		return nil
	case ExitPartialFailure:
		return exitError(ExitPartialFailure, "heatgrid: %d of %d inputs failed", failed, total)
	default:
		if total == 1 {
			return exitError(ExitTotalFailure, "heatgrid: %v", res.Results[0].Err)
		}
		return exitError(ExitTotalFailure, "heatgrid: all %d inputs failed", total)
	}
}

// resolveFormats returns the --format list, else the config format, else
// the default.
func resolveFormats(cfg *config.Config) []string {
	if fs := splitList(renderFormats); len(fs) > 0 {
		return fs
	}
	if fs := splitList(cfg.Format); len(fs) > 0 {
		return fs
	}
	return []string{defaultFormat}
}

// planJobs builds one job per source with one target per format.
func planJobs(sources, formats []string, out string) ([]pipeline.Job, error) {
	total := len(sources) * len(formats)
	jobs := make([]pipeline.Job, len(sources))

	if out == "" {
		if total > 1 {
			return nil, fmt.Errorf("%d outputs need -o to name a directory", total)
		}
		jobs[0] = pipeline.Job{Source: sources[0], Targets: []pipeline.Target{{Format: formats[0]}}}
		return jobs, nil
	}

	if !isDirTarget(out, total) {
		jobs[0] = pipeline.Job{Source: sources[0], Targets: []pipeline.Target{{Format: formats[0], Path: out}}}
		return jobs, nil
	}

	if err := cmdFS.MkdirAll(out, 0o750); err != nil {
		return nil, fmt.Errorf("cannot create output directory %q (%v)", out, err)
	}
	used := make(map[string]bool)
	for i, src := range sources {
		name := uniqueName(outputBase(src), used)
		jobs[i].Source = src
		for _, f := range formats {
			jobs[i].Targets = append(jobs[i].Targets, pipeline.Target{
				Format: f,
				Path:   filepath.Join(out, name+output.Extension(f)),
			})
		}
	}
	return jobs, nil
}

func isDirTarget(out string, total int) bool {
	if total > 1 || strings.HasSuffix(out, "/") || strings.HasSuffix(out, string(filepath.Separator)) {
		return true
	}
	info, err := cmdFS.Stat(out)
	return err == nil && info.IsDir()
}

// outputBase names the outputs of a source: the file name without its
// extension, "stdin" for stdin, or the last URL path segment.
func outputBase(src string) string {
	if src == feed.StdinSource {
		return "stdin"
	}
	name := filepath.Base(src)
	if feed.IsURL(src) {
		u, err := url.Parse(src)
		if err != nil {
			return "feed"
		}
		name = path.Base(u.Path)
		if name == "/" || name == "." {
			name = u.Hostname()
		}
	}
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" || name == "." {
		return "feed"
	}
	return name
}

// uniqueName returns base, or base-2, base-3, ... when taken.
func uniqueName(base string, used map[string]bool) string {
	name := base
	for i := 2; used[name]; i++ {
		name = base + "-" + strconv.Itoa(i)
	}
	used[name] = true
	return name
}

func countStdin(sources []string) int {
	n := 0
	for _, s := range sources {
		if s == feed.StdinSource {
			n++
		}
	}
	return n
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func createOutput(path string) (io.WriteCloser, error) {
	f, err := cmdFS.Create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
