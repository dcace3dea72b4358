// Package config loads sketch settings from a JSON file. Every field is a
// pointer so a partial file only overrides what it names.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"Sketchacad/internal/draw"
	"Sketchacad/internal/state"
)

const maxFileSize = 1 * 1024 * 1024

// Config is the root settings document.
type Config struct {
	GridSize         *int    `json:"grid_size,omitempty"`
	HistoryCap       *int    `json:"history_cap,omitempty"`
	SnapshotInterval *string `json:"snapshot_interval,omitempty"` // duration string like "1s", "0" disables
	SnapshotOnStroke *bool   `json:"snapshot_on_stroke,omitempty"`
	DefaultColor     *string `json:"default_color,omitempty"`
	DefaultBlend     *string `json:"default_blend,omitempty"`

	// WebSocket endpoint
	Listen    *string `json:"listen,omitempty"`
	Advertise *bool   `json:"advertise,omitempty"`
}

func ptrInt(v int) *int          { return &v }
func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		GridSize:         ptrInt(int(state.DefaultGridSize)),
		HistoryCap:       ptrInt(state.DefaultHistoryCap),
		SnapshotInterval: ptrString("1s"),
		SnapshotOnStroke: ptrBool(true),
		DefaultColor:     ptrString("black"),
		DefaultBlend:     ptrString("normal"),
		Listen:           ptrString(":3050"),
		Advertise:        ptrBool(false),
	}
}

// Load reads path over the defaults. The file must have a .json extension
// and be at most 1MB.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cleanPath, err)
	}
	return cfg, nil
}

// Validate checks every set field.
func (c *Config) Validate() error {
	if c.GridSize != nil {
		if _, err := state.ParseGridSize(*c.GridSize); err != nil {
			return err
		}
	}
	if c.HistoryCap != nil && *c.HistoryCap < 1 {
		return fmt.Errorf("history_cap must be at least 1, got %d", *c.HistoryCap)
	}
	if c.SnapshotInterval != nil {
		if _, err := parseInterval(*c.SnapshotInterval); err != nil {
			return err
		}
	}
	if c.DefaultColor != nil {
		if _, err := state.ParseColor(*c.DefaultColor); err != nil {
			return err
		}
	}
	if c.DefaultBlend != nil {
		if _, err := state.ParseBlendMode(*c.DefaultBlend); err != nil {
			return err
		}
	}
	return nil
}

func parseInterval(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot_interval %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("snapshot_interval must not be negative, got %s", d)
	}
	return d, nil
}

// GetSnapshotInterval returns the polling interval, zero meaning disabled.
func (c *Config) GetSnapshotInterval() time.Duration {
	if c.SnapshotInterval == nil {
		return time.Second
	}
	d, err := parseInterval(*c.SnapshotInterval)
	if err != nil {
		return time.Second
	}
	return d
}

func (c *Config) GetListen() string {
	if c.Listen == nil {
		return ":3050"
	}
	return *c.Listen
}

func (c *Config) GetAdvertise() bool {
	return c.Advertise != nil && *c.Advertise
}

// SessionOptions converts the settings into draw.Options. Call Validate
// first; unset or invalid fields fall back to draw.DefaultOptions.
func (c *Config) SessionOptions() draw.Options {
	opts := draw.DefaultOptions()
	if c.GridSize != nil {
		if size, err := state.ParseGridSize(*c.GridSize); err == nil {
			opts.Size = size
		}
	}
	if c.HistoryCap != nil {
		opts.HistoryCap = *c.HistoryCap
	}
	if c.SnapshotOnStroke != nil {
		opts.SnapshotOnStroke = *c.SnapshotOnStroke
	}
	if c.DefaultColor != nil {
		if col, err := state.ParseColor(*c.DefaultColor); err == nil {
			opts.Color = col
		}
	}
	if c.DefaultBlend != nil {
		if m, err := state.ParseBlendMode(*c.DefaultBlend); err == nil {
			opts.Blend = m
		}
	}
	return opts
}
