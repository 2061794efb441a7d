// Package framelog provides a high-level API for configuring acquisition runs.
package framelog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/user/framelog/pkg/orchestrator"
	"github.com/user/framelog/pkg/ports"
)

// Preset names a resolution and rate combination.
type Preset string

const (
	PresetHD     Preset = "hd"
	PresetVGA    Preset = "vga"
	PresetFullHD Preset = "fhd"
)

// PresetSettings contains the values a preset fixes.
type PresetSettings struct {
	Width  int
	Height int
	FPS    float64
}

// GetPresetSettings returns settings for the given preset.
func GetPresetSettings(preset Preset) PresetSettings {
	switch preset {
	case PresetVGA:
		return PresetSettings{Width: 640, Height: 480, FPS: 30}
	case PresetFullHD:
		return PresetSettings{Width: 1920, Height: 1080, FPS: 15}
	default: // hd
		return PresetSettings{Width: 1280, Height: 720, FPS: 20}
	}
}

// ParsePreset parses a preset name.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.ToLower(s)); p {
	case PresetHD, PresetVGA, PresetFullHD:
		return p, nil
	default:
		return "", fmt.Errorf("unknown preset %q (want hd, vga or fhd)", s)
	}
}

// Config represents the configuration of one acquisition run.
type Config struct {
	// Rate and size
	FPS     float64 // Target frames per second
	Width   int     // Requested frame width
	Height  int     // Requested frame height
	Seconds float64 // Run duration; 0 runs until interrupted

	// Camera
	Backend     string            // v4l2, ffmpeg or pattern
	Device      int               // Numeric camera index
	DevicePath  string            // Device node for v4l2 (overrides Device)
	PixelFormat ports.PixelFormat // Requested format for v4l2 (YUYV or MJPEG)
	FFmpegPath  string            // ffmpeg binary for the ffmpeg backend

	// Output
	OnExisting orchestrator.ExistingPolicy
	DryRun     bool
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with hd preset defaults.
func NewConfigBuilder() *ConfigBuilder {
	return NewPresetConfigBuilder(PresetHD)
}

// NewPresetConfigBuilder creates a new ConfigBuilder from a preset.
func NewPresetConfigBuilder(preset Preset) *ConfigBuilder {
	s := GetPresetSettings(preset)
	return &ConfigBuilder{
		config: Config{
			FPS:         s.FPS,
			Width:       s.Width,
			Height:      s.Height,
			Backend:     orchestrator.BackendV4L2,
			PixelFormat: ports.PixelYUYV,
			OnExisting:  orchestrator.PolicyAppend,
		},
	}
}

// Build validates and returns the final Config.
func (b *ConfigBuilder) Build() (Config, error) {
	cfg := b.config

	var errs []error
	if err := orchestrator.CheckFPS(cfg.FPS); err != nil {
		errs = append(errs, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		errs = append(errs, fmt.Errorf("width and height must be positive, got %dx%d", cfg.Width, cfg.Height))
	}
	if err := orchestrator.CheckSeconds(cfg.Seconds); err != nil {
		errs = append(errs, err)
	}
	if cfg.Device < 0 {
		errs = append(errs, fmt.Errorf("device must not be negative, got %d", cfg.Device))
	}
	known := false
	for _, name := range orchestrator.Backends() {
		known = known || name == cfg.Backend
	}
	if !known {
		errs = append(errs, fmt.Errorf("unknown backend %q (want %s)", cfg.Backend, strings.Join(orchestrator.Backends(), ", ")))
	}
	if cfg.Backend == orchestrator.BackendV4L2 && cfg.PixelFormat != ports.PixelYUYV && cfg.PixelFormat != ports.PixelMJPEG {
		errs = append(errs, fmt.Errorf("v4l2 backend supports yuyv and mjpeg, got %s", cfg.PixelFormat))
	}

	if err := errors.Join(errs...); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WithFPS sets the target rate.
func (b *ConfigBuilder) WithFPS(fps float64) *ConfigBuilder {
	b.config.FPS = fps
	return b
}

// WithWidth sets the requested frame width.
func (b *ConfigBuilder) WithWidth(width int) *ConfigBuilder {
	b.config.Width = width
	return b
}

// WithHeight sets the requested frame height.
func (b *ConfigBuilder) WithHeight(height int) *ConfigBuilder {
	b.config.Height = height
	return b
}

// WithSeconds sets the run duration. Zero runs until interrupted.
func (b *ConfigBuilder) WithSeconds(seconds float64) *ConfigBuilder {
	b.config.Seconds = seconds
	return b
}

// WithBackend sets the camera backend.
func (b *ConfigBuilder) WithBackend(backend string) *ConfigBuilder {
	b.config.Backend = strings.ToLower(backend)
	return b
}

// WithDevice sets the numeric camera index.
func (b *ConfigBuilder) WithDevice(device int) *ConfigBuilder {
	b.config.Device = device
	return b
}

// WithDevicePath sets the device node used by the v4l2 backend.
func (b *ConfigBuilder) WithDevicePath(path string) *ConfigBuilder {
	b.config.DevicePath = path
	return b
}

// WithPixelFormat sets the pixel format requested from a v4l2 device.
func (b *ConfigBuilder) WithPixelFormat(format ports.PixelFormat) *ConfigBuilder {
	b.config.PixelFormat = format
	return b
}

// WithFFmpegPath sets the ffmpeg binary.
func (b *ConfigBuilder) WithFFmpegPath(path string) *ConfigBuilder {
	b.config.FFmpegPath = path
	return b
}

// WithOnExisting sets the existing-output policy.
func (b *ConfigBuilder) WithOnExisting(policy orchestrator.ExistingPolicy) *ConfigBuilder {
	b.config.OnExisting = policy
	return b
}

// WithDryRun discards frames instead of saving them.
func (b *ConfigBuilder) WithDryRun(dryRun bool) *ConfigBuilder {
	b.config.DryRun = dryRun
	return b
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(outputDir, version string) orchestrator.Config {
	return orchestrator.Config{
		OutputDir:   outputDir,
		OnExisting:  c.OnExisting,
		DryRun:      c.DryRun,
		Backend:     c.Backend,
		Device:      c.Device,
		DevicePath:  c.DevicePath,
		PixelFormat: c.PixelFormat,
		FFmpegPath:  c.FFmpegPath,
		FPS:         c.FPS,
		Width:       c.Width,
		Height:      c.Height,
		Seconds:     c.Seconds,
		Version:     version,
	}
}
