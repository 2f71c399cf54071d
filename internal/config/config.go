// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package config handles .heatgrid.yaml and .heatgrid.toml configuration
// files.
package config

// Config represents the contents of a heatgrid config file. Zero values mean
// "not set" and fall through to the next layer.
type Config struct {
	Format      string   `yaml:"format,omitempty" toml:"format,omitempty"`
	Sections    []string `yaml:"sections,omitempty" toml:"sections,omitempty"`
	Concurrency int      `yaml:"concurrency,omitempty" toml:"concurrency,omitempty"`

	Layout LayoutConfig `yaml:"layout,omitempty" toml:"layout,omitempty"`
	Feed   FeedConfig   `yaml:"feed,omitempty" toml:"feed,omitempty"`
}

// LayoutConfig overrides the widget layout.
type LayoutConfig struct {
	Width        int      `yaml:"width,omitempty" toml:"width,omitempty"`
	Height       int      `yaml:"height,omitempty" toml:"height,omitempty"`
	XLabelSpace  *int     `yaml:"x_label_space,omitempty" toml:"x_label_space,omitempty"`
	YLabelSpace  *int     `yaml:"y_label_space,omitempty" toml:"y_label_space,omitempty"`
	Columns      int      `yaml:"columns,omitempty" toml:"columns,omitempty"`
	Rows         int      `yaml:"rows,omitempty" toml:"rows,omitempty"`
	Buckets      int      `yaml:"buckets,omitempty" toml:"buckets,omitempty"`
	Colors       []string `yaml:"colors,omitempty" toml:"colors,omitempty"`
	XLabels      []string `yaml:"x_labels,omitempty" toml:"x_labels,omitempty"`
	YLabels      []string `yaml:"y_labels,omitempty" toml:"y_labels,omitempty"`
	XHighlight   *Span    `yaml:"x_highlight,omitempty" toml:"x_highlight,omitempty"`
	YHighlight   *Span    `yaml:"y_highlight,omitempty" toml:"y_highlight,omitempty"`
	CornerRadius *float64 `yaml:"corner_radius,omitempty" toml:"corner_radius,omitempty"`
	Domain       string   `yaml:"domain,omitempty" toml:"domain,omitempty"`
}

// Span is an inclusive label index range.
type Span struct {
	From int `yaml:"from" toml:"from"`
	To   int `yaml:"to" toml:"to"`
}

// FeedConfig holds feed loading settings.
type FeedConfig struct {
	Format  string `yaml:"format,omitempty" toml:"format,omitempty"`
	Sheet   string `yaml:"sheet,omitempty" toml:"sheet,omitempty"`
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// FileName is the config file name looked up in a project directory.
const FileName = ".heatgrid.yaml"

// TOMLFileName is the TOML alternative to FileName.
const TOMLFileName = ".heatgrid.toml"
