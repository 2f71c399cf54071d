// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/davetashner/heatgrid/internal/feed"
	"github.com/davetashner/heatgrid/internal/heatmap"
)

// Merge layers over on top of base and returns the result. Set fields of
// over win; zero-value fields fall through to base. Neither input is
// modified.
func Merge(base, over *Config) *Config {
	merged := clone(base)
	if over == nil {
		return merged
	}

	if over.Format != "" {
		merged.Format = over.Format
	}
	if len(over.Sections) > 0 {
		merged.Sections = slices.Clone(over.Sections)
	}
	if over.Concurrency != 0 {
		merged.Concurrency = over.Concurrency
	}

	ml, ol := &merged.Layout, over.Layout
	if ol.Width != 0 {
		ml.Width = ol.Width
	}
	if ol.Height != 0 {
		ml.Height = ol.Height
	}
	if ol.XLabelSpace != nil {
		ml.XLabelSpace = ptr(*ol.XLabelSpace)
	}
	if ol.YLabelSpace != nil {
		ml.YLabelSpace = ptr(*ol.YLabelSpace)
	}
	if ol.Columns != 0 {
		ml.Columns = ol.Columns
	}
	if ol.Rows != 0 {
		ml.Rows = ol.Rows
	}
	if ol.Buckets != 0 {
		ml.Buckets = ol.Buckets
	}
	if len(ol.Colors) > 0 {
		ml.Colors = slices.Clone(ol.Colors)
	}
	if len(ol.XLabels) > 0 {
		ml.XLabels = slices.Clone(ol.XLabels)
	}
	if len(ol.YLabels) > 0 {
		ml.YLabels = slices.Clone(ol.YLabels)
	}
	if ol.XHighlight != nil {
		ml.XHighlight = ptr(*ol.XHighlight)
	}
	if ol.YHighlight != nil {
		ml.YHighlight = ptr(*ol.YHighlight)
	}
	if ol.CornerRadius != nil {
		ml.CornerRadius = ptr(*ol.CornerRadius)
	}
	if ol.Domain != "" {
		ml.Domain = ol.Domain
	}

	if over.Feed.Format != "" {
		merged.Feed.Format = over.Feed.Format
	}
	if over.Feed.Sheet != "" {
		merged.Feed.Sheet = over.Feed.Sheet
	}
	if over.Feed.Timeout != "" {
		merged.Feed.Timeout = over.Feed.Timeout
	}
	return merged
}

// Apply returns base with every layout field set in cfg applied.
func Apply(cfg *Config, base heatmap.Layout) heatmap.Layout {
	l := base.Clone()
	if cfg == nil {
		return l
	}
	c := cfg.Layout
	if c.Width != 0 {
		l.Width = c.Width
	}
	if c.Height != 0 {
		l.Height = c.Height
	}
	if c.XLabelSpace != nil {
		l.XLabelSpace = *c.XLabelSpace
	}
	if c.YLabelSpace != nil {
		l.YLabelSpace = *c.YLabelSpace
	}
	if c.Columns != 0 {
		l.Columns = c.Columns
	}
	if c.Rows != 0 {
		l.Rows = c.Rows
	}
	if len(c.Colors) > 0 {
		l.Colors = slices.Clone(c.Colors)
		l.Buckets = len(c.Colors)
	}
	if c.Buckets != 0 {
		l.Buckets = c.Buckets
	}
	if len(c.XLabels) > 0 {
		l.XLabels = slices.Clone(c.XLabels)
	}
	if len(c.YLabels) > 0 {
		l.YLabels = slices.Clone(c.YLabels)
	}
	if c.XHighlight != nil {
		l.XHighlight = heatmap.Span{From: c.XHighlight.From, To: c.XHighlight.To}
	}
	if c.YHighlight != nil {
		l.YHighlight = heatmap.Span{From: c.YHighlight.From, To: c.YHighlight.To}
	}
	if c.CornerRadius != nil {
		l.CornerRadius = *c.CornerRadius
	}
	if c.Domain != "" {
		l.Domain = heatmap.DomainMode(c.Domain)
	}
	return l
}

// FeedOptions converts the feed settings into loader options.
func FeedOptions(cfg *Config) (feed.Options, error) {
	var opts feed.Options
	if cfg == nil {
		return opts, nil
	}
	f, err := feed.ParseFormat(cfg.Feed.Format)
	if err != nil {
		return opts, err
	}
	opts.Format = f
	opts.Sheet = cfg.Feed.Sheet
	if cfg.Feed.Timeout != "" {
		d, err := time.ParseDuration(cfg.Feed.Timeout)
		if err != nil {
			return opts, fmt.Errorf("feed timeout: %w", err)
		}
		opts.Timeout = d
	}
	return opts, nil
}

func clone(c *Config) *Config {
	if c == nil {
		return &Config{}
	}
	out := *c
	out.Sections = slices.Clone(c.Sections)
	out.Layout.Colors = slices.Clone(c.Layout.Colors)
	out.Layout.XLabels = slices.Clone(c.Layout.XLabels)
	out.Layout.YLabels = slices.Clone(c.Layout.YLabels)
	return &out
}

func ptr[T any](v T) *T { return &v }
