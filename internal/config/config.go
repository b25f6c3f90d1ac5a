// Package config reads the treemodel.toml configuration of the command line
// tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	treemodel "github.com/CrimsonAS/treemodel/backend"
)

// Config is the treemodel.toml file.
type Config struct {
	// Library is the music library file; .msgpack and .mpk are binary,
	// anything else is JSON.
	Library string      `toml:"library"`
	Log     LogConfig   `toml:"log"`
	View    ViewConfig  `toml:"view"`
	Serve   ServeConfig `toml:"serve"`

	// Columns optionally overrides the presentation of every column. When
	// given, there must be exactly one entry per model column.
	Columns []ColumnOverride `toml:"columns,omitempty"`
}

type LogConfig struct {
	Level string `toml:"level"`
	// File receives JSON logs. Empty logs text to stderr
	File string `toml:"file,omitempty"`
}

type ViewConfig struct {
	// SortColumn is the column siblings are sorted by; negative keeps the
	// dataset order.
	SortColumn int  `toml:"sort_column"`
	Ascending  bool `toml:"ascending"`
	ExpandAll  bool `toml:"expand_all"`
}

type ServeConfig struct {
	// Dataset is "music" or "servers".
	Dataset string `toml:"dataset"`
	// Servers is the server list file of the servers dataset.
	Servers string `toml:"servers,omitempty"`
	// Frontend is a display program to start; empty serves on stdio.
	Frontend string `toml:"frontend,omitempty"`
}

type ColumnOverride struct {
	Title string `toml:"title,omitempty"`
	Width int    `toml:"width,omitempty"`
	Align string `toml:"align,omitempty"`
}

const FileName = "treemodel.toml"

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Library: "library.json",
		Log: LogConfig{
			Level: "info",
		},
		View: ViewConfig{
			SortColumn: -1,
			Ascending:  true,
			ExpandAll:  true,
		},
		Serve: ServeConfig{
			Dataset: "music",
		},
	}
}

// DefaultPath is treemodel.toml in the user's configuration directory, or in
// the working directory if there is none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, "treemodel", FileName)
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	} else if err != nil {
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// A relative library is next to the configuration file
	if config.Library != "" && !filepath.IsAbs(config.Library) {
		config.Library = filepath.Join(filepath.Dir(path), config.Library)
	}
	if config.Serve.Servers != "" && !filepath.IsAbs(config.Serve.Servers) {
		config.Serve.Servers = filepath.Join(filepath.Dir(path), config.Serve.Servers)
	}
	return config, nil
}

// Save writes config to path, creating its directory.
func Save(config Config, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Apply returns columns with the overrides applied. Empty override fields
// keep the model's value. Without overrides, columns is returned as is.
func (c *Config) Apply(columns []treemodel.Column) ([]treemodel.Column, error) {
	if len(c.Columns) == 0 {
		return columns, nil
	}
	if len(c.Columns) != len(columns) {
		return nil, fmt.Errorf("config has %d columns, model has %d: %w",
			len(c.Columns), len(columns), treemodel.ErrColumnMismatch)
	}

	out := append([]treemodel.Column(nil), columns...)
	for i, o := range c.Columns {
		if o.Title != "" {
			out[i].Title = o.Title
		}
		if o.Width > 0 {
			out[i].Width = o.Width
		}
		if o.Align != "" {
			align, err := treemodel.ParseAlign(o.Align)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
			out[i].Align = align
		}
	}
	return out, nil
}
