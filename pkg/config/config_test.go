package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/framelog/pkg/orchestrator"
	"github.com/user/framelog/pkg/ports"
)

const yamlConfig = `
output: data/run_001
backend: ffmpeg
fps: 10
width: 640
height: 480
seconds: 0
device: 1
pixel_format: mjpeg
on_existing: resume
summary: summary.md
log_level: debug
`

const tomlConfig = `
output = "data/run_002"
preset = "vga"
seconds = 30.5
backend = "pattern"
device = 0
ffmpeg_path = "/usr/local/bin/ffmpeg"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile_YAML(t *testing.T) {
	cfg, err := LoadFromFile(writeFile(t, "framelog.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Output != "data/run_001" || cfg.Summary != "summary.md" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected strings: %+v", cfg)
	}
	if cfg.Seconds == nil || *cfg.Seconds != 0 {
		t.Errorf("explicit zero seconds should be kept, got %v", cfg.Seconds)
	}

	b, err := cfg.NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	built, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.Backend != "ffmpeg" || built.FPS != 10 || built.Width != 640 || built.Height != 480 || built.Device != 1 {
		t.Errorf("built = %+v", built)
	}
	if built.PixelFormat != ports.PixelMJPEG {
		t.Errorf("pixel format = %s", built.PixelFormat)
	}
	if built.OnExisting != orchestrator.PolicyResume {
		t.Errorf("on existing = %q", built.OnExisting)
	}
}

func TestLoadFromFile_TOML(t *testing.T) {
	cfg, err := LoadFromFile(writeFile(t, "framelog.toml", tomlConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := cfg.NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	built, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// vga preset supplies size and rate; the file supplies the rest.
	if built.Width != 640 || built.Height != 480 || built.FPS != 30 {
		t.Errorf("preset not applied: %+v", built)
	}
	if built.Seconds != 30.5 || built.Backend != "pattern" || built.FFmpegPath != "/usr/local/bin/ffmpeg" {
		t.Errorf("built = %+v", built)
	}
}

func TestLoadFromFile_Empty(t *testing.T) {
	cfg, err := LoadFromFile(writeFile(t, "empty.yml", ""))
	if err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	b, err := cfg.NewBuilder()
	if err != nil {
		t.Fatal(err)
	}
	built, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if built.FPS != 20 || built.Width != 1280 {
		t.Errorf("defaults expected, got %+v", built)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown extension", "framelog.json", "{}", "unsupported"},
		{"unknown yaml key", "a.yaml", "fps: 10\nframerate: 20\n", "framerate"},
		{"unknown toml key", "a.toml", "fps = 10.0\nframerate = 20\n", "framerate"},
		{"bad yaml", "b.yaml", "fps: [", "YAML"},
		{"bad toml", "b.toml", "fps = ", "TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeFile(t, tt.file, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApply_InvalidValues(t *testing.T) {
	if _, err := (Config{PixelFormat: "h264"}).NewBuilder(); err == nil {
		t.Error("expected error for unknown pixel format")
	}
	if _, err := (Config{OnExisting: "merge"}).NewBuilder(); err == nil {
		t.Error("expected error for unknown policy")
	}
	if _, err := (Config{Preset: "8k"}).NewBuilder(); err == nil {
		t.Error("expected error for unknown preset")
	}
}
