// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/davetashner/heatgrid/internal/feed"
	"github.com/davetashner/heatgrid/internal/heatmap"
	"github.com/davetashner/heatgrid/internal/output"
	"github.com/davetashner/heatgrid/internal/report"
)

// Validate checks all fields in the config and returns all errors at once.
// The layout is also checked as it would be applied over the defaults.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Format != "" {
		if _, err := output.GetFormatter(cfg.Format); err != nil {
			errs = append(errs, fmt.Sprintf("format: %v", err))
		}
	}
	for _, s := range cfg.Sections {
		if report.Get(s) == nil {
			errs = append(errs, fmt.Sprintf("sections: unknown section %q (available: %s)", s, strings.Join(report.List(), ", ")))
		}
	}
	if cfg.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("concurrency: must be non-negative, got %d", cfg.Concurrency))
	}

	l := cfg.Layout
	if l.Width < 0 || l.Height < 0 {
		errs = append(errs, fmt.Sprintf("layout: size must be non-negative, got %dx%d", l.Width, l.Height))
	}
	for _, name := range []struct {
		key string
		v   *int
	}{{"x_label_space", l.XLabelSpace}, {"y_label_space", l.YLabelSpace}} {
		if name.v != nil && *name.v < 0 {
			errs = append(errs, fmt.Sprintf("layout.%s: must be non-negative, got %d", name.key, *name.v))
		}
	}
	if l.Columns < 0 || l.Rows < 0 {
		errs = append(errs, fmt.Sprintf("layout: columns and rows must be non-negative, got %dx%d", l.Columns, l.Rows))
	}
	for i, c := range l.Colors {
		if _, err := colorful.Hex(c); err != nil {
			errs = append(errs, fmt.Sprintf("layout.colors[%d]: invalid hex color %q", i, c))
		}
	}
	if l.Buckets != 0 && len(l.Colors) > 0 && l.Buckets != len(l.Colors) {
		errs = append(errs, fmt.Sprintf("layout.buckets: %d does not match %d colors", l.Buckets, len(l.Colors)))
	}
	for _, sp := range []struct {
		key  string
		span *Span
	}{{"x_highlight", l.XHighlight}, {"y_highlight", l.YHighlight}} {
		if sp.span != nil && sp.span.From > sp.span.To {
			errs = append(errs, fmt.Sprintf("layout.%s: from %d is after to %d", sp.key, sp.span.From, sp.span.To))
		}
	}
	if l.CornerRadius != nil && *l.CornerRadius < 0 {
		errs = append(errs, fmt.Sprintf("layout.corner_radius: must be non-negative, got %g", *l.CornerRadius))
	}
	if !heatmap.DomainMode(l.Domain).Valid() {
		errs = append(errs, fmt.Sprintf("layout.domain: invalid value %q (must be legacy, extent, or observed)", l.Domain))
	}

	if _, err := feed.ParseFormat(cfg.Feed.Format); err != nil {
		errs = append(errs, fmt.Sprintf("feed.format: %v", err))
	}
	if cfg.Feed.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Feed.Timeout); err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("feed.timeout: invalid duration %q", cfg.Feed.Timeout))
		}
	}

	if len(errs) == 0 {
		if err := Apply(cfg, heatmap.DefaultLayout()).Validate(); err != nil {
			errs = append(errs, "layout: "+strings.ReplaceAll(err.Error(), "\n", "; "))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
