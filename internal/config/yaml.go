// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads the project config from dir. It looks for .heatgrid.yaml first
// and .heatgrid.toml second. If neither exists, it returns a zero-value
// Config and nil error.
func Load(dir string) (*Config, error) {
	yamlPath := filepath.Join(dir, FileName)
	tomlPath := filepath.Join(dir, TOMLFileName)

	cfg, err := LoadFile(yamlPath)
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			slog.Warn("both config files present, using yaml", "yaml", yamlPath, "toml", tomlPath)
		}
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, err = LoadFile(tomlPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// LoadFile reads one config file. The format follows the extension: .toml
// is TOML, anything else YAML. A missing file is returned as an error
// wrapping fs.ErrNotExist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		return nil, err
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadRaw reads a YAML config file as a generic map so it can be edited key
// by key. A missing file yields an empty map.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]any), nil
		}
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// WriteFile writes a raw config map as YAML, creating parent directories.
func WriteFile(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write marshals the config to YAML and writes it to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

// WriteTOML marshals the config to TOML and writes it to w.
func WriteTOML(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
