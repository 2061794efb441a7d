// Package orchestrator prepares and runs one acquisition.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/framelog/pkg/adapters/ffmpegcamera"
	"github.com/user/framelog/pkg/adapters/filesink"
	"github.com/user/framelog/pkg/adapters/nullsink"
	"github.com/user/framelog/pkg/adapters/patterncamera"
	"github.com/user/framelog/pkg/adapters/v4l2camera"
	"github.com/user/framelog/pkg/pipeline"
	"github.com/user/framelog/pkg/ports"
	"github.com/user/framelog/pkg/stages/acquire"
)

// Backend identifiers accepted by NewCamera.
const (
	BackendV4L2    = v4l2camera.Backend
	BackendFFmpeg  = "ffmpeg"
	BackendPattern = patterncamera.Backend
)

// Backends lists the known backends in preference order.
func Backends() []string {
	return []string{BackendV4L2, BackendFFmpeg, BackendPattern}
}

// ExistingPolicy decides what happens when the output directory already
// holds a dataset.
type ExistingPolicy string

const (
	// PolicyAppend appends to meta.jsonl and numbers frames from 000000,
	// overwriting any frame files with the same names.
	PolicyAppend ExistingPolicy = "append"
	// PolicyResume appends to meta.jsonl and numbers frames after the highest
	// existing file. Record indices still start at 0.
	PolicyResume ExistingPolicy = "resume"
	// PolicyFail refuses to touch a directory holding a dataset.
	PolicyFail ExistingPolicy = "fail"
)

// ParseExistingPolicy parses a policy name.
func ParseExistingPolicy(s string) (ExistingPolicy, error) {
	switch p := ExistingPolicy(strings.ToLower(s)); p {
	case PolicyAppend, PolicyResume, PolicyFail:
		return p, nil
	case "":
		return PolicyAppend, nil
	default:
		return "", fmt.Errorf("unknown on-existing policy %q (want append, resume or fail)", s)
	}
}

// Config contains all configuration for a run.
type Config struct {
	// Output
	OutputDir  string
	OnExisting ExistingPolicy
	DryRun     bool

	// Camera
	Backend     string
	Device      int
	DevicePath  string
	PixelFormat ports.PixelFormat
	FFmpegPath  string

	// Acquisition
	FPS     float64
	Width   int
	Height  int
	Seconds float64 // 0 runs until interrupted

	// Version is written to the run header.
	Version string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		OnExisting:  PolicyAppend,
		Backend:     BackendV4L2,
		PixelFormat: ports.PixelYUYV,
		FPS:         20,
		Width:       1280,
		Height:      720,
	}
}

// Validate checks values the acquisition loop cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.OutputDir == "" && !c.DryRun {
		errs = append(errs, errors.New("output directory is required"))
	}
	if err := CheckFPS(c.FPS); err != nil {
		errs = append(errs, err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %dx%d", c.Width, c.Height))
	}
	if err := CheckSeconds(c.Seconds); err != nil {
		errs = append(errs, err)
	}
	if c.Device < 0 {
		errs = append(errs, fmt.Errorf("device index must not be negative, got %d", c.Device))
	}
	if !isKnownBackend(c.Backend) {
		errs = append(errs, fmt.Errorf("unknown backend %q (want %s)", c.Backend, strings.Join(Backends(), ", ")))
	}
	if _, err := ParseExistingPolicy(string(c.OnExisting)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// MaxSeconds is the longest run duration a time.Duration can hold.
const MaxSeconds = float64(math.MaxInt64 / int64(time.Second))

// CheckFPS rejects rates whose period cannot be represented, including NaN
// and infinities.
func CheckFPS(fps float64) error {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return fmt.Errorf("fps must be a positive number, got %g", fps)
	}
	if float64(time.Second)/fps > float64(math.MaxInt64) {
		return fmt.Errorf("fps %g is too small", fps)
	}
	return nil
}

// CheckSeconds rejects durations that are negative, NaN or too long for a
// time.Duration. Zero means no limit.
func CheckSeconds(seconds float64) error {
	if math.IsNaN(seconds) || seconds < 0 {
		return fmt.Errorf("seconds must not be negative, got %g", seconds)
	}
	if seconds > MaxSeconds {
		return fmt.Errorf("seconds must be at most %.0f, got %g", MaxSeconds, seconds)
	}
	return nil
}

func isKnownBackend(name string) bool {
	for _, b := range Backends() {
		if b == name {
			return true
		}
	}
	return false
}

// CameraFactory creates the camera for a backend.
type CameraFactory func(backend string) (ports.Camera, error)

// StageFactory creates the acquisition stage for a camera and a sink.
type StageFactory func(camera ports.Camera, sink ports.DatasetSink) pipeline.Stage[pipeline.AcquireInput, pipeline.AcquireResult]

// NewCamera returns the camera implementation for backend.
func NewCamera(backend string, renderer ports.Renderer, logger ports.Logger) (ports.Camera, error) {
	switch backend {
	case BackendV4L2:
		return v4l2camera.New(logger), nil
	case BackendFFmpeg:
		return ffmpegcamera.New(logger), nil
	case BackendPattern:
		return patterncamera.New(renderer, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// Orchestrator wires a camera, a sink and the acquisition stage together.
type Orchestrator struct {
	fs       ports.FileSystem
	renderer ports.Renderer
	clock    ports.Clock
	logger   ports.Logger

	newCamera CameraFactory
	newStage  StageFactory
	newRunID  func() string
}

// New creates a new Orchestrator using the real camera backends and the
// acquire stage.
func New(fs ports.FileSystem, renderer ports.Renderer, clock ports.Clock, logger ports.Logger) *Orchestrator {
	o := &Orchestrator{
		fs:       fs,
		renderer: renderer,
		clock:    clock,
		logger:   logger,
		newRunID: func() string { return uuid.NewString() },
	}
	o.newCamera = func(backend string) (ports.Camera, error) {
		return NewCamera(backend, renderer, logger)
	}
	o.newStage = func(camera ports.Camera, sink ports.DatasetSink) pipeline.Stage[pipeline.AcquireInput, pipeline.AcquireResult] {
		return acquire.New(camera, sink, clock, logger)
	}
	return o
}

// WithCameraFactory replaces the backend lookup.
func (o *Orchestrator) WithCameraFactory(f CameraFactory) *Orchestrator {
	o.newCamera = f
	return o
}

// WithStageFactory replaces the acquisition stage.
func (o *Orchestrator) WithStageFactory(f StageFactory) *Orchestrator {
	o.newStage = f
	return o
}

// WithRunID replaces the run ID generator.
func (o *Orchestrator) WithRunID(f func() string) *Orchestrator {
	o.newRunID = f
	return o
}

// Run executes one acquisition. Errors are returned only when the run could
// not start; every started run ends with a nil error and a StopReason.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	if err := config.Validate(); err != nil {
		return RunResult{}, err
	}

	camera, err := o.newCamera(config.Backend)
	if err != nil {
		return RunResult{}, err
	}

	sink, firstSeq, existing, err := o.prepareOutput(config)
	if err != nil {
		return RunResult{}, err
	}

	input := pipeline.AcquireInput{
		Camera: ports.CameraOptions{
			Width:       config.Width,
			Height:      config.Height,
			FPS:         config.FPS,
			DeviceIndex: config.Device,
			DevicePath:  config.DevicePath,
			PixelFormat: config.PixelFormat,
			FFmpegPath:  config.FFmpegPath,
		},
		FPS:           config.FPS,
		Duration:      time.Duration(config.Seconds * float64(time.Second)),
		FirstSequence: firstSeq,
		Header: ports.RunHeader{
			Backend: camera.Name(),
			FPS:     ports.Decimal(config.FPS),
			Width:   config.Width,
			Height:  config.Height,
			Seconds: ports.Decimal(config.Seconds),
			Device:  config.Device,
			RunID:   o.newRunID(),
			Version: config.Version,
		},
	}

	if config.DryRun {
		o.logger.Info("Dry run: frames are captured but not saved")
	}
	o.logger.Info("Recording to %s with %s backend at %.1f fps", config.OutputDir, camera.Name(), config.FPS)
	if config.Seconds > 0 {
		o.logger.Info("Recording for %.1f seconds", config.Seconds)
	} else {
		o.logger.Info("Recording until interrupted (Ctrl+C to stop)")
	}

	acquired, err := o.newStage(camera, sink).Execute(ctx, input)
	if err != nil {
		return RunResult{}, fmt.Errorf("acquire: %w", err)
	}

	if acquired.StopReason == pipeline.StopInterrupted {
		o.logger.Info("Interrupted, shutting down...")
	}
	o.logger.Info("Stopped: %s", acquired.StopReason)
	if config.DryRun {
		o.logger.Info("Captured %d frames (discarded)", acquired.Frames)
	} else {
		o.logger.Info("Saved %d frames under %s", acquired.Frames, config.OutputDir)
	}
	if fps := acquired.EffectiveFPS(); fps > 0 {
		o.logger.Info("Effective rate: %.2f fps", fps)
	}

	return RunResult{
		Config:        config,
		Acquire:       acquired,
		Existing:      existing,
		FirstSequence: firstSeq,
	}, nil
}

// prepareOutput applies the on-existing policy and builds the sink.
func (o *Orchestrator) prepareOutput(config Config) (ports.DatasetSink, int, filesink.Existing, error) {
	var existing filesink.Existing
	if config.DryRun {
		return nullsink.New(o.renderer), 0, existing, nil
	}

	existing, err := filesink.Inspect(o.fs, config.OutputDir)
	if err != nil {
		return nil, 0, existing, fmt.Errorf("%w: inspect %s: %w", ports.ErrOutputUnwritable, config.OutputDir, err)
	}

	firstSeq := 0
	if !existing.Empty() {
		switch config.OnExisting {
		case PolicyFail:
			return nil, 0, existing, fmt.Errorf("%w: %s holds %d records and %d frames",
				ports.ErrOutputExists, config.OutputDir, existing.MetadataLines, existing.FrameFiles)
		case PolicyResume:
			firstSeq = existing.NextSequence
			o.logger.Info("Resuming frame numbering at %06d", firstSeq)
		default:
			o.logger.Warn("Output directory already holds %d records and %d frames; appending and numbering from 000000 will overwrite frames",
				existing.MetadataLines, existing.FrameFiles)
		}
	}

	return filesink.New(config.OutputDir, o.fs, o.renderer), firstSeq, existing, nil
}

// RunResult contains the results of a run for summary generation.
type RunResult struct {
	// Config is the configuration the run used.
	Config Config

	// Acquire is the acquisition stage result.
	Acquire pipeline.AcquireResult

	// Existing describes what the output directory held before the run.
	Existing filesink.Existing

	// FirstSequence is the file number of the first saved frame.
	FirstSequence int
}
