// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/davetashner/heatgrid/internal/heatmap"
)

const csvFeed = "y_label,x_label,value,confidence\n1,1,2,1\n3,4,5,0.5\n"

func TestDetect(t *testing.T) {
	tests := map[string]Format{
		"data.csv":                         FormatCSV,
		"data.tsv":                         FormatTSV,
		"DATA.TAB":                         FormatTSV,
		"book.xlsx":                        FormatXLSX,
		"noext":                            FormatCSV,
		"https://example.com/feed.tsv?v=2": FormatTSV,
		"http://example.com/feed.xlsx#top": FormatXLSX,
		"https://example.com/feed":         FormatCSV,
	}
	for src, want := range tests {
		assert.Equal(t, want, Detect(src), src)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" TSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatTSV, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	_, err = ParseFormat("json")
	assert.ErrorContains(t, err, `unknown feed format "json"`)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feed.tsv")
	require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(csvFeed, ",", "\t")), 0o600))

	feed, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, feed.Records, 2)
	assert.Equal(t, heatmap.Record{Row: 3, Column: 4, Value: 5, Confidence: 0.5}, feed.Records[1])
}

func TestLoad_FormatOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feed.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(csvFeed, ",", "\t")), 0o600))

	feed, err := Load(context.Background(), path, Options{Format: FormatTSV})
	require.NoError(t, err)
	assert.Len(t, feed.Records, 2)
	assert.Empty(t, feed.Warnings)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Options{})
	assert.ErrorContains(t, err, "read feed")
}

func TestLoad_Stdin(t *testing.T) {
	feed, err := Load(context.Background(), StdinSource, Options{Stdin: strings.NewReader(csvFeed)})
	require.NoError(t, err)
	assert.Len(t, feed.Records, 2)
}

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed":
			w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
			_, _ = w.Write([]byte(strings.ReplaceAll(csvFeed, ",", "\t")))
		case "/feed.csv":
			_, _ = w.Write([]byte(csvFeed))
		case "/partial.csv":
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write([]byte(csvFeed))
		case "/moved.csv":
			w.WriteHeader(http.StatusNotModified)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	feed, err := Load(context.Background(), srv.URL+"/feed", Options{Client: srv.Client()})
	require.NoError(t, err)
	assert.Len(t, feed.Records, 2, "content type selects tsv")

	feed, err = Load(context.Background(), srv.URL+"/feed.csv", Options{Client: srv.Client()})
	require.NoError(t, err)
	assert.Len(t, feed.Records, 2)

	feed, err = Load(context.Background(), srv.URL+"/partial.csv", Options{Client: srv.Client()})
	require.NoError(t, err, "any 2xx is accepted")
	assert.Len(t, feed.Records, 2)

	_, err = Load(context.Background(), srv.URL+"/moved.csv", Options{Client: srv.Client()})
	assert.ErrorContains(t, err, "304")

	_, err = Load(context.Background(), srv.URL+"/missing", Options{Client: srv.Client()})
	assert.ErrorContains(t, err, "404")
}

func TestLoad_HTTPBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer s3cret-token" {
			http.Error(w, "denied", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(csvFeed))
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL+"/a.csv", Options{Client: srv.Client()})
	assert.ErrorContains(t, err, "401")

	feed, err := Load(context.Background(), srv.URL+"/a.csv", Options{Client: srv.Client(), Token: "s3cret-token"})
	require.NoError(t, err)
	assert.Len(t, feed.Records, 2)
}

func TestLoad_HTTPTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := Load(context.Background(), srv.URL+"/slow.csv", Options{Client: srv.Client(), Timeout: 50 * time.Millisecond})
	assert.ErrorContains(t, err, "fetch feed")
}

func workbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // test workbook
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParse_XLSX(t *testing.T) {
	data := workbook(t, "Sheet1", [][]any{
		{"y_label", "x_label", "value", "confidence"},
		{1, 2, 3.5, 1},
		{2, 2, 7, 0.25},
	})

	feed, err := Parse(data, FormatXLSX, "")
	require.NoError(t, err)
	require.Len(t, feed.Records, 2)
	assert.Equal(t, heatmap.Record{Row: 1, Column: 2, Value: 3.5, Confidence: 1}, feed.Records[0])
	assert.Equal(t, heatmap.Record{Row: 2, Column: 2, Value: 7, Confidence: 0.25}, feed.Records[1])
}

func TestParse_XLSXNamedSheet(t *testing.T) {
	data := workbook(t, "Usage", [][]any{
		{"y_label", "x_label", "value", "confidence"},
		{4, 4, 1, 1},
	})

	feed, err := Parse(data, FormatXLSX, "Usage")
	require.NoError(t, err)
	require.Len(t, feed.Records, 1)

	_, err = Parse(data, FormatXLSX, "Missing")
	assert.ErrorContains(t, err, `read sheet "Missing"`)
}

func TestParse_XLSXGarbage(t *testing.T) {
	_, err := Parse([]byte("not a zip"), FormatXLSX, "")
	assert.ErrorContains(t, err, "open workbook")
}
