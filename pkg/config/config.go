// Package config loads optional run settings from a YAML or TOML file.
// Settings left out of the file keep the builder's defaults, and command
// line flags override whatever the file sets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/user/framelog/pkg/framelog"
	"github.com/user/framelog/pkg/orchestrator"
	"github.com/user/framelog/pkg/ports"
)

// Format is a config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the syntax from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config file %s (want .yaml, .yml or .toml)", path)
	}
}

// Config represents a config file. Pointer fields distinguish "not set"
// from an explicit zero, which matters for seconds and device.
type Config struct {
	// Output
	Output     string `yaml:"output" toml:"output"`
	OnExisting string `yaml:"on_existing" toml:"on_existing"`
	Summary    string `yaml:"summary" toml:"summary"`

	// Rate and size
	Preset  string   `yaml:"preset" toml:"preset"`
	FPS     *float64 `yaml:"fps" toml:"fps"`
	Width   *int     `yaml:"width" toml:"width"`
	Height  *int     `yaml:"height" toml:"height"`
	Seconds *float64 `yaml:"seconds" toml:"seconds"`

	// Camera
	Backend     string `yaml:"backend" toml:"backend"`
	Device      *int   `yaml:"device" toml:"device"`
	DevicePath  string `yaml:"device_path" toml:"device_path"`
	PixelFormat string `yaml:"pixel_format" toml:"pixel_format"`
	FFmpegPath  string `yaml:"ffmpeg_path" toml:"ffmpeg_path"`

	// Logging
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

// LoadFromFile loads configuration from a YAML or TOML file.
func LoadFromFile(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format. Unknown keys are errors.
func Parse(data []byte, format Format) (Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse YAML: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("parse TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("parse TOML: unknown key %s", undecoded[0])
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", format)
	}
	return cfg, nil
}

// NewBuilder returns a builder seeded from the preset, then the file's values.
func (c Config) NewBuilder() (*framelog.ConfigBuilder, error) {
	b := framelog.NewConfigBuilder()
	if c.Preset != "" {
		preset, err := framelog.ParsePreset(c.Preset)
		if err != nil {
			return nil, err
		}
		b = framelog.NewPresetConfigBuilder(preset)
	}
	if err := c.Apply(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Apply copies every value set in the file onto b.
func (c Config) Apply(b *framelog.ConfigBuilder) error {
	if c.FPS != nil {
		b.WithFPS(*c.FPS)
	}
	if c.Width != nil {
		b.WithWidth(*c.Width)
	}
	if c.Height != nil {
		b.WithHeight(*c.Height)
	}
	if c.Seconds != nil {
		b.WithSeconds(*c.Seconds)
	}
	if c.Backend != "" {
		b.WithBackend(c.Backend)
	}
	if c.Device != nil {
		b.WithDevice(*c.Device)
	}
	if c.DevicePath != "" {
		b.WithDevicePath(c.DevicePath)
	}
	if c.PixelFormat != "" {
		format, ok := ports.ParsePixelFormat(c.PixelFormat)
		if !ok {
			return fmt.Errorf("unknown pixel_format %q", c.PixelFormat)
		}
		b.WithPixelFormat(format)
	}
	if c.FFmpegPath != "" {
		b.WithFFmpegPath(c.FFmpegPath)
	}
	if c.OnExisting != "" {
		policy, err := orchestrator.ParseExistingPolicy(c.OnExisting)
		if err != nil {
			return err
		}
		b.WithOnExisting(policy)
	}
	return nil
}
