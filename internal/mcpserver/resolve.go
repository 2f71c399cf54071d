// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package mcpserver implements an MCP (Model Context Protocol) server
// that hosts a heatmap widget and exposes its signals as tools.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davetashner/heatgrid/internal/feed"
)

// ResolveSource checks a feed source named in a tool call. URLs are returned
// unchanged. Files are resolved to an absolute, symlink-free path that must
// name a regular file. Stdin is refused because it carries the transport.
func ResolveSource(src string) (string, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return "", fmt.Errorf("source is empty")
	case src == feed.StdinSource:
		return "", fmt.Errorf("source %q is not available over MCP", src)
	case feed.IsURL(src):
		return src, nil
	case strings.ContainsRune(src, 0):
		return "", fmt.Errorf("source contains a null byte")
	}

	abs, err := filepath.Abs(src)
	if err != nil {
		return "", fmt.Errorf("cannot resolve source %q: %w", src, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("source %q does not exist", src)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("source %q does not exist", src)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%q is not a regular file", src)
	}
	return abs, nil
}
