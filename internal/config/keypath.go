// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GetValue retrieves a value from a Config by dot-notation key path.
// It returns scalar values as-is, and maps/slices for intermediate nodes.
func GetValue(cfg *Config, keyPath string) (any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return navigateMap(m, keyPath)
}

// SetValue sets a value in a raw YAML map by dot-notation key path,
// creating intermediate maps as needed. List-valued keys take a
// comma-separated value.
func SetValue(data map[string]any, keyPath string, rawValue string) error {
	parts := strings.Split(keyPath, ".")
	field, err := lookupField(parts)
	if err != nil {
		return err
	}

	current := data
	for _, part := range parts[:len(parts)-1] {
		child, ok := current[part]
		if !ok {
			next := make(map[string]any)
			current[part] = next
			current = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("key %q is not a map", part)
		}
		current = next
	}

	var value any
	if field.Kind() == reflect.Slice {
		var items []any
		for _, s := range strings.Split(rawValue, ",") {
			items = append(items, strings.TrimSpace(s))
		}
		value = items
	} else {
		value = coerceValue(rawValue)
	}
	current[parts[len(parts)-1]] = value
	return nil
}

// FlattenMap recursively flattens a nested map to dot-notation keys.
func FlattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			for sk, sv := range FlattenMap(sub, key) {
				result[sk] = sv
			}
		} else {
			result[key] = v
		}
	}
	return result
}

// ValidateKeyPath checks that a dot-notation key path names a settable
// Config field.
func ValidateKeyPath(keyPath string) error {
	field, err := lookupField(strings.Split(keyPath, "."))
	if err != nil {
		return err
	}
	if field.Kind() == reflect.Struct {
		return fmt.Errorf("key %q is a section; set one of its fields: %s", keyPath, sortedKeys(yamlFields(field)))
	}
	return nil
}

// lookupField walks the Config type along parts using yaml tag names and
// returns the type of the final field, with pointers removed.
func lookupField(parts []string) (reflect.Type, error) {
	t := reflect.TypeOf(Config{})
	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("empty key path segment")
		}
		if t.Kind() != reflect.Struct {
			return nil, fmt.Errorf("key %q is a scalar; cannot use sub-keys", strings.Join(parts[:i], "."))
		}
		fields := yamlFields(t)
		ft, ok := fields[part]
		if !ok {
			where := "top-level"
			if i > 0 {
				where = strings.Join(parts[:i], ".")
			}
			return nil, fmt.Errorf("unknown key %q; valid %s keys: %s", part, where, sortedKeys(fields))
		}
		t = ft
	}
	return t, nil
}

// ToMap converts a Config to a map via YAML round-trip, omitting zero values.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// navigateMap traverses a nested map using a dot-notation key path.
func navigateMap(m map[string]any, keyPath string) (any, error) {
	parts := strings.Split(keyPath, ".")
	var current any = m
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("key %q: parent is not a map", part)
		}
		val, exists := cm[part]
		if !exists {
			return nil, fmt.Errorf("key %q not found", keyPath)
		}
		current = val
	}
	return current, nil
}

// coerceValue parses a string into bool, int, float64, or keeps it as string.
func coerceValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// yamlFields maps yaml tag names of a struct type to their field types.
func yamlFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type)
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		fields[name] = ft
	}
	return fields
}

// sortedKeys returns a comma-separated sorted list of map keys.
func sortedKeys(m map[string]reflect.Type) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
