// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/davetashner/heatgrid/internal/config"
	"github.com/davetashner/heatgrid/internal/feed"
	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/testable"
)

// cmdFS is the file system implementation used by CLI commands.
// Override in tests with a testable.MockFileSystem.
var cmdFS testable.FileSystem = testable.DefaultFS

// Layout and feed flag values shared by every command that draws a widget.
var (
	layoutWidth   int
	layoutHeight  int
	layoutColumns int
	layoutRows    int
	layoutDomain  string

	feedFormat  string
	feedSheet   string
	feedTimeout time.Duration
)

func addLayoutFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&layoutWidth, "width", 0, "widget width in pixels (default 600)")
	f.IntVar(&layoutHeight, "height", 0, "widget height in pixels (default 800)")
	f.IntVar(&layoutColumns, "columns", 0, "column count (default: one per x label)")
	f.IntVar(&layoutRows, "rows", 0, "row count (default: one per y label)")
	f.StringVar(&layoutDomain, "domain", "", "color scale domain: legacy, extent, or observed")
}

func addFeedFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&feedFormat, "feed-format", "", "force the feed format: csv, tsv, or xlsx")
	f.StringVar(&feedSheet, "sheet", "", "worksheet of an xlsx feed (default: first sheet)")
	f.DurationVar(&feedTimeout, "timeout", 0, "HTTP feed timeout (default 30s)")
}

// loadConfig loads the global config and the project config (or the
// --config file), merges them and validates the result.
func loadConfig() (*config.Config, error) {
	global, err := config.LoadGlobal()
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "heatgrid: failed to load global config (%v)", err)
	}

	var project *config.Config
	if configFile != "" {
		project, err = config.LoadFile(configFile)
	} else {
		project, err = config.Load(".")
	}
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "heatgrid: failed to load config (%v)", err)
	}

	cfg := config.Merge(global, project)
	if err := config.Validate(cfg); err != nil {
		return nil, exitError(ExitInvalidArgs, "heatgrid: %v", err)
	}
	return cfg, nil
}

// resolveLayout applies cfg and then any layout flag the user set over the
// default layout.
func resolveLayout(cmd *cobra.Command, cfg *config.Config) (heatmap.Layout, error) {
	l := config.Apply(cfg, heatmap.DefaultLayout())
	flags := cmd.Flags()
	if flags.Changed("width") {
		l.Width = layoutWidth
	}
	if flags.Changed("height") {
		l.Height = layoutHeight
	}
	if flags.Changed("columns") {
		l.Columns = layoutColumns
	}
	if flags.Changed("rows") {
		l.Rows = layoutRows
	}
	if flags.Changed("domain") {
		l.Domain = heatmap.DomainMode(layoutDomain)
	}
	if err := l.Validate(); err != nil {
		return l, exitError(ExitInvalidArgs, "heatgrid: invalid layout (%s)", strings.ReplaceAll(err.Error(), "\n", "; "))
	}
	return l, nil
}

// resolveFeedOptions applies cfg and then any feed flag the user set. The
// bearer token comes from the environment only.
func resolveFeedOptions(cmd *cobra.Command, cfg *config.Config) (feed.Options, error) {
	opts, err := config.FeedOptions(cfg)
	if err != nil {
		return opts, exitError(ExitInvalidArgs, "heatgrid: %v", err)
	}
	flags := cmd.Flags()
	if flags.Changed("feed-format") {
		f, err := feed.ParseFormat(feedFormat)
		if err != nil {
			return opts, exitError(ExitInvalidArgs, "heatgrid: %v", err)
		}
		opts.Format = f
	}
	if flags.Changed("sheet") {
		opts.Sheet = feedSheet
	}
	if flags.Changed("timeout") {
		opts.Timeout = feedTimeout
	}
	opts.Token = os.Getenv(feed.TokenEnv)
	opts.Stdin = cmd.InOrStdin()
	return opts, nil
}

// setup loads config and resolves the layout and feed options in one go.
func setup(cmd *cobra.Command) (*config.Config, heatmap.Layout, feed.Options, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, heatmap.Layout{}, feed.Options{}, err
	}
	layout, err := resolveLayout(cmd, cfg)
	if err != nil {
		return nil, heatmap.Layout{}, feed.Options{}, err
	}
	opts, err := resolveFeedOptions(cmd, cfg)
	if err != nil {
		return nil, heatmap.Layout{}, feed.Options{}, err
	}
	return cfg, layout, opts, nil
}
