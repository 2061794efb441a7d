// Package main provides the CLI entry point for framelog.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/framelog/pkg/adapters/ggrenderer"
	"github.com/user/framelog/pkg/adapters/logger"
	"github.com/user/framelog/pkg/adapters/osfilesystem"
	"github.com/user/framelog/pkg/adapters/systemclock"
	"github.com/user/framelog/pkg/config"
	"github.com/user/framelog/pkg/framelog"
	"github.com/user/framelog/pkg/orchestrator"
	"github.com/user/framelog/pkg/ports"
	"github.com/user/framelog/pkg/summarizer"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Record  RecordCmd  `cmd:"" help:"Capture frames and metadata into a dataset directory."`
	Doctor  DoctorCmd  `cmd:"" help:"Check that capture backends and devices are usable."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// RecordCmd defines the record subcommand.
type RecordCmd struct {
	// Output
	Output     string  `arg:"" optional:"" help:"Output directory, e.g. data/run_001."`
	OnExisting *string `help:"What to do when the output already holds a dataset (append, resume, fail; default: append)."`
	Summary    string  `help:"Write a Markdown run summary to this file."`
	DryRun     bool    `help:"Capture and convert frames without saving anything."`

	// Config file
	Config string `short:"c" type:"existingfile" help:"YAML or TOML config file; flags override its values."`

	// Rate and size
	Preset  string   `short:"p" help:"Size and rate preset (hd, vga, fhd; default: hd)."`
	FPS     *float64 `short:"f" help:"Target frames per second (default: 20)."`
	Width   *int     `short:"W" help:"Requested frame width (default: 1280)."`
	Height  *int     `short:"H" help:"Requested frame height (default: 720)."`
	Seconds *float64 `short:"s" help:"Run duration in seconds, 0 = until Ctrl+C (default: 0)."`

	// Camera
	Backend     *string `short:"b" help:"Capture backend (v4l2, ffmpeg, pattern; default: v4l2)."`
	Device      *int    `short:"d" help:"Camera device index (default: 0)."`
	DevicePath  *string `help:"Device node for the v4l2 backend (default: /dev/video<device>)."`
	PixelFormat *string `help:"Pixel format requested by the v4l2 backend (yuyv, mjpeg; default: yuyv)."`
	FFmpegPath  *string `help:"Path to ffmpeg (falls back to FRAMELOG_FFMPEG_PATH, FFMPEG_PATH, then PATH)."`

	// Logging options
	LogLevel string `short:"l" help:"Log level (debug, info, warn, error; default: info)."`
	Quiet    bool   `short:"q" help:"Suppress all log output."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("framelog"),
		kong.Description("Record time-synchronized camera frames and metadata for offline labeling."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the record command.
func (cmd *RecordCmd) Run() error {
	file, err := cmd.loadConfigFile()
	if err != nil {
		return err
	}

	cfg, err := cmd.buildConfig(file)
	if err != nil {
		return err
	}

	output := cmd.Output
	if output == "" {
		output = file.Output
	}
	if output == "" && !cfg.DryRun {
		return errors.New(l10n.T("output directory argument is required"))
	}

	log := cmd.newLogger(file)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			cancel()
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	clock := systemclock.New()

	orch := orchestrator.New(fs, renderer, clock, log)
	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig(output, version))
	if err != nil {
		return err
	}

	summaryPath := cmd.Summary
	if summaryPath == "" {
		summaryPath = file.Summary
	}
	if summaryPath != "" {
		w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), fs)
		if err := w.Write(summaryPath, summarizer.FromRunResult(result)); err != nil {
			log.Warn("Failed to write summary: %s", err)
		} else {
			log.Info("Summary written to %s", summaryPath)
		}
	}

	return nil
}

func (cmd *RecordCmd) loadConfigFile() (config.Config, error) {
	if cmd.Config == "" {
		return config.Config{}, nil
	}
	return config.LoadFromFile(cmd.Config)
}

// buildConfig layers the preset, the config file and the flags, in that order.
func (cmd *RecordCmd) buildConfig(file config.Config) (framelog.Config, error) {
	if cmd.Preset != "" {
		file.Preset = cmd.Preset
	}
	builder, err := file.NewBuilder()
	if err != nil {
		return framelog.Config{}, err
	}

	if cmd.FPS != nil {
		builder.WithFPS(*cmd.FPS)
	}
	if cmd.Width != nil {
		builder.WithWidth(*cmd.Width)
	}
	if cmd.Height != nil {
		builder.WithHeight(*cmd.Height)
	}
	if cmd.Seconds != nil {
		builder.WithSeconds(*cmd.Seconds)
	}
	if cmd.Backend != nil {
		builder.WithBackend(*cmd.Backend)
	}
	if cmd.Device != nil {
		builder.WithDevice(*cmd.Device)
	}
	if cmd.DevicePath != nil {
		builder.WithDevicePath(*cmd.DevicePath)
	}
	if cmd.PixelFormat != nil {
		format, ok := ports.ParsePixelFormat(*cmd.PixelFormat)
		if !ok {
			return framelog.Config{}, fmt.Errorf("unknown pixel format %q", *cmd.PixelFormat)
		}
		builder.WithPixelFormat(format)
	}
	if cmd.FFmpegPath != nil {
		builder.WithFFmpegPath(*cmd.FFmpegPath)
	}
	if cmd.OnExisting != nil {
		policy, err := orchestrator.ParseExistingPolicy(*cmd.OnExisting)
		if err != nil {
			return framelog.Config{}, err
		}
		builder.WithOnExisting(policy)
	}
	if cmd.DryRun {
		builder.WithDryRun(true)
	}

	return builder.Build()
}

func (cmd *RecordCmd) newLogger(file config.Config) ports.Logger {
	if cmd.Quiet {
		return logger.NewNoop()
	}
	level := cmd.LogLevel
	if level == "" {
		level = file.LogLevel
	}
	return logger.NewConsole(ports.ParseLogLevel(level))
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("framelog version %s", version))
	return nil
}
