// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

// Package testable puts the file operations of the heatgrid CLI behind an
// interface so tests can fail them on demand.
package testable

import (
	"os"
)

// FileSystem is the slice of the file system the CLI touches: reading feed
// and panel files, and writing rendered output.
type FileSystem interface {
	// Stat tells render whether -o names a directory.
	Stat(name string) (os.FileInfo, error)
	// Open reads panel files.
	Open(name string) (*os.File, error)
	// Create writes rendered output.
	Create(name string) (*os.File, error)
	// MkdirAll creates output directories.
	MkdirAll(path string, perm os.FileMode) error
}

// OsFileSystem calls straight through to package os.
type OsFileSystem struct{}

func (OsFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (OsFileSystem) Open(name string) (*os.File, error) {
	return os.Open(name) //nolint:gosec // caller controls path
}

func (OsFileSystem) Create(name string) (*os.File, error) {
	return os.Create(name) //nolint:gosec // caller controls path
}

func (OsFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// DefaultFS is what the CLI uses outside tests.
var DefaultFS FileSystem = OsFileSystem{}
