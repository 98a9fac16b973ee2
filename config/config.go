// Package config loads run settings from YAML or TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/blang/semver"
	"gopkg.in/yaml.v3"

	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/catalog"
	"github.com/voxelsplace/blockpack/mcpack"
)

type PackConfig struct {
	Name             string `yaml:"name" toml:"name"`
	Description      string `yaml:"description" toml:"description"`
	Prefix           string `yaml:"prefix" toml:"prefix"`
	Version          string `yaml:"version" toml:"version"`
	MinEngineVersion string `yaml:"min_engine_version" toml:"min_engine_version"`
	Type             string `yaml:"type" toml:"type"`
}

type Config struct {
	Catalog  string `yaml:"catalog" toml:"catalog"`
	Textures string `yaml:"textures" toml:"textures"`
	Output   string `yaml:"output" toml:"output"`

	Plane         string   `yaml:"plane" toml:"plane"`
	Metric        string   `yaml:"metric" toml:"metric"`
	MaxWidth      int      `yaml:"max_width" toml:"max_width"`
	MaxHeight     int      `yaml:"max_height" toml:"max_height"`
	MaxFrames     int      `yaml:"max_frames" toml:"max_frames"`
	MaxCommands   int      `yaml:"max_commands" toml:"max_commands"`
	LegacyExecute bool     `yaml:"legacy_execute" toml:"legacy_execute"`
	DetachFrames  bool     `yaml:"detach_frames" toml:"detach_frames"`
	DedupeFrames  bool     `yaml:"dedupe_frames" toml:"dedupe_frames"`
	Compress      bool     `yaml:"compress" toml:"compress"`
	Overwrite     string   `yaml:"overwrite" toml:"overwrite"`
	MinVersion    string   `yaml:"min_version" toml:"min_version"`
	Attributes    []string `yaml:"attributes" toml:"attributes"`

	Pack PackConfig `yaml:"pack" toml:"pack"`
	Log  LogConfig  `yaml:"log" toml:"log"`
}

// Default returns the settings used for anything a config file leaves out.
func Default() Config {
	return Config{
		Plane:        "xy",
		Metric:       "perceptual",
		MaxWidth:     480,
		MaxHeight:    270,
		MaxFrames:    200,
		MaxCommands:  9000,
		DetachFrames: true,
		DedupeFrames: true,
		Overwrite:    "fail",
		MinVersion:   "1.0.0",
		Pack: PackConfig{
			Version:          "1.0.0",
			MinEngineVersion: mcpack.DefaultMinEngine.String(),
			Type:             "data",
		},
	}
}

// Load decodes path over Default. Files ending in .toml are read as TOML,
// everything else as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal yaml: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and that every enumerated or versioned
// value parses.
func (c *Config) Validate() error {
	if c.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	if _, err := blocks.ParsePlane(c.Plane); err != nil {
		return err
	}
	if _, err := blocks.ParseMetric(c.Metric); err != nil {
		return err
	}
	if c.MaxCommands <= 0 {
		return fmt.Errorf("max_commands must be positive, got %d", c.MaxCommands)
	}
	if _, err := c.OverwritePolicy(); err != nil {
		return err
	}
	if _, err := c.Filter(); err != nil {
		return err
	}
	if _, err := c.Manifest("pack"); err != nil {
		return err
	}
	return nil
}

// ParsedPlane returns the configured plane; Validate has already vetted it.
func (c *Config) ParsedPlane() blocks.Plane {
	p, _ := blocks.ParsePlane(c.Plane)
	return p
}

func (c *Config) ParsedMetric() blocks.Metric {
	m, _ := blocks.ParseMetric(c.Metric)
	return m
}

func (c *Config) OverwritePolicy() (mcpack.OverwritePolicy, error) {
	switch c.Overwrite {
	case "", "fail":
		return mcpack.Fail, nil
	case "replace":
		return mcpack.Replace, nil
	case "merge":
		return mcpack.Merge, nil
	}
	return 0, fmt.Errorf("unknown overwrite policy %q", c.Overwrite)
}

// Filter builds the catalog filter for the configured plane.
func (c *Config) Filter() (catalog.Filter, error) {
	minVersion, err := parseVersion("min_version", c.MinVersion, semver.Version{Major: 1})
	if err != nil {
		return catalog.Filter{}, err
	}
	attrs, err := catalog.ParseAttributes(c.Attributes)
	if err != nil {
		return catalog.Filter{}, err
	}
	return catalog.ForPlane(c.ParsedPlane(), attrs, minVersion), nil
}

// Manifest builds the pack manifest. fallback names the pack when the config
// does not, usually the input's base name.
func (c *Config) Manifest(fallback string) (*mcpack.Manifest, error) {
	name := c.Pack.Name
	if name == "" {
		name = fallback
	}
	m := mcpack.NewManifest(name, c.Pack.Description)
	if c.Pack.Prefix != "" {
		m.Prefix = mcpack.SanitizePrefix(c.Pack.Prefix)
	}
	var err error
	if m.Version, err = parseVersion("pack.version", c.Pack.Version, m.Version); err != nil {
		return nil, err
	}
	if m.MinEngine, err = parseVersion("pack.min_engine_version", c.Pack.MinEngineVersion, m.MinEngine); err != nil {
		return nil, err
	}
	if m.Type, err = mcpack.ParsePackType(c.Pack.Type); err != nil {
		return nil, err
	}
	return m, nil
}

func parseVersion(field, s string, def semver.Version) (semver.Version, error) {
	if s == "" {
		return def, nil
	}
	v, err := semver.Parse(s)
	if err != nil {
		return def, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}
