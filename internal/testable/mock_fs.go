// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package testable

import (
	"os"
)

// MockFileSystem is a test double for FileSystem. A nil function field falls
// through to OsFileSystem, so tests override only what they care about.
type MockFileSystem struct {
	StatFn     func(name string) (os.FileInfo, error)
	OpenFn     func(name string) (*os.File, error)
	CreateFn   func(name string) (*os.File, error)
	MkdirAllFn func(path string, perm os.FileMode) error
}

var osFS OsFileSystem

// Stat calls StatFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.StatFn != nil {
		return m.StatFn(name)
	}
	return osFS.Stat(name)
}

// Open calls OpenFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Open(name string) (*os.File, error) {
	if m.OpenFn != nil {
		return m.OpenFn(name)
	}
	return osFS.Open(name)
}

// Create calls CreateFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Create(name string) (*os.File, error) {
	if m.CreateFn != nil {
		return m.CreateFn(name)
	}
	return osFS.Create(name)
}

// MkdirAll calls MkdirAllFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if m.MkdirAllFn != nil {
		return m.MkdirAllFn(path, perm)
	}
	return osFS.MkdirAll(path, perm)
}

var _ FileSystem = (*MockFileSystem)(nil)
