// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package feed loads heatmap feeds from files, standard input, HTTP URLs and
// spreadsheets.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/davetashner/heatgrid/internal/heatmap"
)

// Format names a feed encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// StdinSource is the source name that reads from standard input.
const StdinSource = "-"

// TokenEnv names the environment variable holding a bearer token for HTTP
// feeds.
const TokenEnv = "HEATGRID_FEED_TOKEN"

// DefaultTimeout bounds an HTTP fetch when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options controls how a feed is loaded.
type Options struct {
	// Format overrides detection.
	Format Format
	// Sheet selects the worksheet of an xlsx feed. Empty means the first.
	Sheet string
	// Timeout bounds HTTP fetches.
	Timeout time.Duration
	// Token is sent as a bearer token on HTTP fetches when set.
	Token string
	// Client is used for HTTP fetches. Defaults to http.DefaultClient.
	Client *http.Client
	// Stdin is read for StdinSource. Defaults to os.Stdin.
	Stdin io.Reader
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatCSV, FormatTSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown feed format %q (must be csv, tsv, or xlsx)", s)
}

// IsURL reports whether src is an http or https URL.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Detect picks the format for src from its extension. Anything unknown is
// read as CSV.
func Detect(src string) Format {
	if IsURL(src) {
		if i := strings.IndexAny(src, "?#"); i >= 0 {
			src = src[:i]
		}
	}
	switch strings.ToLower(filepath.Ext(src)) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	}
	return FormatCSV
}

// Load reads and parses the feed at src.
func Load(ctx context.Context, src string, opts Options) (*heatmap.Feed, error) {
	format := opts.Format
	var (
		data []byte
		err  error
	)
	switch {
	case src == StdinSource:
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if format == FormatAuto {
			format = FormatCSV
		}
	case IsURL(src):
		var ctype string
		data, ctype, err = fetch(ctx, src, opts)
		if err != nil {
			return nil, err
		}
		if format == FormatAuto {
			format = formatFromContentType(ctype, src)
		}
	default:
		data, err = os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read feed: %w", err)
		}
	}
	if format == FormatAuto {
		format = Detect(src)
	}

	slog.Debug("loading feed", "source", src, "format", format, "bytes", len(data))
	return Parse(data, format, opts.Sheet)
}

// Parse decodes raw feed bytes in the given format.
func Parse(data []byte, format Format, sheet string) (*heatmap.Feed, error) {
	switch format {
	case FormatTSV:
		return heatmap.Parse(bytes.NewReader(data), '\t')
	case FormatXLSX:
		return parseXLSX(data, sheet)
	case FormatCSV, FormatAuto:
		return heatmap.Parse(bytes.NewReader(data), ',')
	}
	return nil, fmt.Errorf("unknown feed format %q", format)
}

func fetch(ctx context.Context, url string, opts Options) ([]byte, string, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("fetch feed: %w", err)
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("fetch feed: %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("fetch feed: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func formatFromContentType(ctype, src string) Format {
	mt, _, err := mime.ParseMediaType(ctype)
	if err != nil {
		return Detect(src)
	}
	switch mt {
	case "text/tab-separated-values":
		return FormatTSV
	case "text/csv":
		return FormatCSV
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatXLSX
	}
	return Detect(src)
}

func parseXLSX(data []byte, sheet string) (*heatmap.Feed, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck // in-memory workbook

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &heatmap.Feed{}, nil
	}
	return heatmap.FromRows(rows[0], rows[1:]), nil
}
