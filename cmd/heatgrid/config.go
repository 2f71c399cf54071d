// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/heatgrid/internal/config"
)

// Config command flags.
var (
	configGlobal bool
	configTOML   bool
)

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify heatgrid configuration",
	Long: `View and modify heatgrid configuration.

Heatgrid reads configuration from .heatgrid.yaml (or .heatgrid.toml) in
the current directory, or from the file named by --config. A global config
at ~/.config/heatgrid/config.yaml provides defaults. Project settings
override global settings, and command-line flags override both.

Note: config set does a YAML round-trip and will not preserve comments.
If you need to keep comments, edit the file directly.`,
}

// configGetCmd retrieves a configuration value by dot-notation key path.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by dot-notation key path.

Examples:
  heatgrid config get format
  heatgrid config get layout.domain
  heatgrid config get layout
  heatgrid config get --global feed.timeout`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Values are auto-detected as bool, int, float, or string. List keys such as
layout.colors and layout.x_labels take a comma-separated value.
By default, writes to .heatgrid.yaml in the current directory.
Use --global to write to ~/.config/heatgrid/config.yaml.

Note: This does a YAML round-trip and will not preserve comments.

Examples:
  heatgrid config set format html
  heatgrid config set layout.domain observed
  heatgrid config set layout.y_labels "Mon,Tue,Wed,Thu,Fri"
  heatgrid config set --global feed.timeout 1m`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// configListCmd lists all configuration values with their source.
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Long: `List all configuration values with their source annotation.

Shows every set configuration value, annotated with whether it comes
from the project config or the global config
(~/.config/heatgrid/config.yaml). Project values override global values.`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

// configShowCmd prints the merged configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  "Print the global and project configuration merged into one document, as YAML or, with --toml, as TOML.",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configValidateCmd checks the merged configuration.
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective configuration",
	Long:  "Load the global and project configuration, merge them, and report every problem, including a layout whose grid does not fit its size.",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	configGetCmd.Flags().BoolVar(&configGlobal, "global", false, "use global config (~/.config/heatgrid/config.yaml)")
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "write to global config (~/.config/heatgrid/config.yaml)")
	configShowCmd.Flags().BoolVar(&configTOML, "toml", false, "print as TOML")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

// resetConfigFlags resets config command flags for testing.
func resetConfigFlags() {
	configGlobal = false
	configTOML = false
	for _, c := range []*cobra.Command{configGetCmd, configSetCmd} {
		if f := c.Flags().Lookup("global"); f != nil {
			_ = f.Value.Set("false")
			f.Changed = false
		}
	}
	if f := configShowCmd.Flags().Lookup("toml"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
}

// loadLayers returns the global and project configs without merging them.
func loadLayers() (global, project *config.Config, err error) {
	global, err = config.LoadGlobal()
	if err != nil {
		return nil, nil, fmt.Errorf("loading global config: %w", err)
	}
	if configFile != "" {
		project, err = config.LoadFile(configFile)
	} else {
		project, err = config.Load(".")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading project config: %w", err)
	}
	return global, project, nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]

	var cfg *config.Config
	if configGlobal {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = global
	} else {
		global, project, err := loadLayers()
		if err != nil {
			return err
		}
		cfg = config.Merge(global, project)
	}

	val, err := config.GetValue(cfg, keyPath)
	if err != nil {
		return err
	}
	return printValue(cmd, val)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]
	rawValue := args[1]

	if err := config.ValidateKeyPath(keyPath); err != nil {
		return err
	}

	// Determine target file path.
	targetPath := filepath.Join(".", config.FileName)
	switch {
	case configGlobal:
		targetPath = config.GlobalConfigPath()
	case configFile != "":
		targetPath = configFile
	}
	if strings.EqualFold(filepath.Ext(targetPath), ".toml") {
		return fmt.Errorf("config set writes YAML; edit %s directly", targetPath)
	}

	data, err := config.LoadRaw(targetPath)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	if err := config.SetValue(data, keyPath, rawValue); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}

	// Round-trip validate: unmarshal to Config and validate.
	roundTrip, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	var validCfg config.Config
	if err := yaml.Unmarshal(roundTrip, &validCfg); err != nil {
		return fmt.Errorf("invalid config after set: %w", err)
	}
	if err := config.Validate(&validCfg); err != nil {
		return err
	}

	if err := config.WriteFile(targetPath, data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", keyPath, rawValue)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	global, project, err := loadLayers()
	if err != nil {
		return err
	}
	globalMap, err := configToFlatMap(global)
	if err != nil {
		return err
	}
	projectMap, err := configToFlatMap(project)
	if err != nil {
		return err
	}

	type entry struct {
		value  any
		source string
	}
	seen := make(map[string]entry)
	for k, v := range globalMap {
		seen[k] = entry{value: v, source: "global"}
	}
	for k, v := range projectMap {
		seen[k] = entry{value: v, source: "project"}
	}

	if len(seen) == 0 {
		_, _ = fmt.Fprintln(w, "No configuration set.")
		_, _ = fmt.Fprintln(w, "Run 'heatgrid config set <key> <value>' to set values.")
		return nil
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	globalColor := color.New(color.FgCyan)
	projectColor := color.New(color.FgGreen)
	for _, k := range keys {
		e := seen[k]
		_, _ = fmt.Fprintf(w, "%s = %v %s\n", k, e.value, formatSource(e.source, globalColor, projectColor))
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	global, project, err := loadLayers()
	if err != nil {
		return err
	}
	merged := config.Merge(global, project)
	if configTOML {
		return config.WriteTOML(cmd.OutOrStdout(), merged)
	}
	return config.Write(cmd.OutOrStdout(), merged)
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid.")
	return nil
}

// printValue outputs a value: scalars as plain text, maps/slices as YAML.
func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

// configToFlatMap converts a Config to a flat dot-notation map, omitting zero values.
func configToFlatMap(cfg *config.Config) (map[string]any, error) {
	m, err := config.ToMap(cfg)
	if err != nil {
		return nil, err
	}
	return config.FlattenMap(m, ""), nil
}

// formatSource returns a colorized source annotation.
func formatSource(source string, globalColor, projectColor *color.Color) string {
	switch source {
	case "global":
		return globalColor.Sprintf("(global)")
	case "project":
		return projectColor.Sprintf("(project)")
	default:
		return fmt.Sprintf("(%s)", source)
	}
}
