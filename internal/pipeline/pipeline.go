// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package pipeline renders a batch of feeds, each on its own widget, with
// bounded parallelism.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/heatgrid/internal/bridge"
	"github.com/davetashner/heatgrid/internal/feed"
	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/output"
)

// DefaultConcurrency bounds parallel renders when Config.Concurrency is 0.
const DefaultConcurrency = 4

// Target is one rendered artifact of a job.
type Target struct {
	Format string
	// Path is the output file. Empty means Config.Stdout.
	Path string
}

// Job is one feed source and the artifacts to render from it.
type Job struct {
	Source  string
	Targets []Target
}

// Config holds what every job shares.
type Config struct {
	Layout      heatmap.Layout
	Feed        feed.Options
	Concurrency int

	// Create opens an output file. Required when any target has a Path.
	Create func(path string) (io.WriteCloser, error)
	// Stdout receives targets without a path.
	Stdout io.Writer
}

// Result is the outcome of one job.
type Result struct {
	Source   string
	Outputs  []string
	Cells    int
	Warnings []string
	Duration time.Duration
	Err      error
}

// RunResult aggregates every job's result in job order.
type RunResult struct {
	Results  []Result
	Duration time.Duration
}

// Failed returns the number of failed jobs.
func (r *RunResult) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Pipeline renders jobs.
type Pipeline struct {
	config     Config
	formatters map[string]output.Formatter
}

// New creates a Pipeline for jobs. It resolves every target format up
// front and rejects unknown ones and invalid layouts.
func New(config Config, jobs []Job) (*Pipeline, error) {
	if err := config.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	p := &Pipeline{config: config, formatters: make(map[string]output.Formatter)}
	for _, j := range jobs {
		for _, t := range j.Targets {
			if t.Path != "" && config.Create == nil {
				return nil, errors.New("pipeline: file targets need a Create function")
			}
			if _, ok := p.formatters[t.Format]; ok {
				continue
			}
			f, err := output.GetFormatter(t.Format)
			if err != nil {
				return nil, err
			}
			p.formatters[t.Format] = f
		}
	}
	return p, nil
}

// Run renders all jobs. A failed job is recorded in its Result and does not
// stop the others. Cancelling ctx fails the jobs that have not finished.
func (p *Pipeline) Run(ctx context.Context, jobs []Job) *RunResult {
	start := time.Now()
	results := make([]Result, len(jobs))

	limit := p.config.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = p.runJob(gctx, j)
			return nil
		})
	}
	_ = g.Wait()

	return &RunResult{Results: results, Duration: time.Since(start)}
}

// runJob loads one feed into a fresh widget and writes each target.
func (p *Pipeline) runJob(ctx context.Context, j Job) (res Result) {
	start := time.Now()
	res = Result{Source: j.Source}
	defer func() { res.Duration = time.Since(start) }()

	logger := slog.Default().With("source", j.Source)
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	parsed, err := feed.Load(ctx, j.Source, p.config.Feed)
	if err != nil {
		res.Err = err
		return res
	}
	res.Warnings = parsed.Warnings

	w := heatmap.New(p.config.Layout, bridge.NewConsole(logger))
	w.LoadFeed(parsed)
	res.Cells = len(w.Records())

	for _, t := range j.Targets {
		if err := p.write(w, t); err != nil {
			res.Err = fmt.Errorf("%s: %w", t.Format, err)
			return res
		}
		name := t.Path
		if name == "" {
			name = "-"
		}
		res.Outputs = append(res.Outputs, name)
		logger.Debug("rendered", "format", t.Format, "output", name)
	}
	return res
}

func (p *Pipeline) write(w *heatmap.Widget, t Target) error {
	f := p.formatters[t.Format]
	if t.Path == "" {
		out := p.config.Stdout
		if out == nil {
			out = io.Discard
		}
		return f.Format(w, out)
	}

	out, err := p.config.Create(t.Path)
	if err != nil {
		return fmt.Errorf("cannot create output file %q: %w", t.Path, err)
	}
	if err := f.Format(w, out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
