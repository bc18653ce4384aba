// Package config loads host settings: the knobs that belong to the
// viewer process rather than to any sample declaration.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS    = 30
	DefaultWidth  = 640.0
	DefaultHeight = 360.0
	DefaultDt     = 1.0 / 60
	DefaultTime   = 10.0
	DefaultDir    = "runs"
)

// Config is the host configuration. A partial file is fine: zero
// fields fall back to the defaults on load.
type Config struct {
	Theme  string  `yaml:"theme"`
	FPS    int     `yaml:"fps"`
	Speed  float64 `yaml:"speed"`
	Sample string  `yaml:"sample"`

	Snapshot SnapshotConfig `yaml:"snapshot"`
	Headless HeadlessConfig `yaml:"headless"`
}

// SnapshotConfig sizes exported images.
type SnapshotConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// HeadlessConfig shapes unattended runs.
type HeadlessConfig struct {
	Time float64 `yaml:"time"`
	Dt   float64 `yaml:"dt"`
	Dir  string  `yaml:"dir"`
}

func Default() *Config {
	return &Config{
		Theme: "midnight",
		FPS:   DefaultFPS,
		Speed: 1,
		Snapshot: SnapshotConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Headless: HeadlessConfig{
			Time: DefaultTime,
			Dt:   DefaultDt,
			Dir:  DefaultDir,
		},
	}
}

// Load reads a settings file. A missing file is not an error; the
// defaults stand.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultPath is the per-user settings location, empty when the user
// config dir is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vizlab", "config.yaml")
}

func (c *Config) normalize() {
	if c.Theme == "" {
		c.Theme = "midnight"
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.Speed <= 0 {
		c.Speed = 1
	}
	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = DefaultWidth
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = DefaultHeight
	}
	if c.Headless.Time <= 0 {
		c.Headless.Time = DefaultTime
	}
	if c.Headless.Dt <= 0 {
		c.Headless.Dt = DefaultDt
	}
	if c.Headless.Dir == "" {
		c.Headless.Dir = DefaultDir
	}
}
