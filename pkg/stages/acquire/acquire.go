// Package acquire implements the rate-controlled acquisition loop.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/framelog/pkg/pipeline"
	"github.com/user/framelog/pkg/ports"
)

// State is a phase of the acquisition loop.
type State int

const (
	StateStarting State = iota
	StateRunning
	StateStopping
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// progressInterval is how often the loop reports progress at info level.
const progressInterval = 10 * time.Second

// Stage captures frames from a camera at a fixed rate and persists them.
// A Stage owns its camera and sink for the duration of one Execute call.
type Stage struct {
	camera   ports.Camera
	sink     ports.DatasetSink
	clock    ports.Clock
	logger   ports.Logger
	observer func(State)
}

// New creates a new acquire stage.
func New(camera ports.Camera, sink ports.DatasetSink, clock ports.Clock, logger ports.Logger) *Stage {
	return &Stage{
		camera: camera,
		sink:   sink,
		clock:  clock,
		logger: logger.WithComponent("acquire"),
	}
}

// WithStateObserver registers fn to be called on every state transition.
func (s *Stage) WithStateObserver(fn func(State)) *Stage {
	s.observer = fn
	return s
}

// Execute runs one acquisition. Startup failures are returned as errors and
// leave no header or frames behind. Once running, the loop always returns a nil
// error: duration expiry, capture failure and cancellation all end the run
// cleanly with every saved frame and record intact.
func (s *Stage) Execute(ctx context.Context, input pipeline.AcquireInput) (result pipeline.AcquireResult, err error) {
	s.enter(StateStarting)

	if input.FPS <= 0 {
		s.enter(StateStopped)
		return result, fmt.Errorf("fps must be positive, got %g", input.FPS)
	}

	if err := s.sink.Open(); err != nil {
		s.enter(StateStopped)
		return result, fmt.Errorf("open output: %w", err)
	}

	s.logger.Debug("Opening %s camera", s.camera.Name())
	if err := s.camera.Open(ctx, input.Camera); err != nil {
		s.sink.Close()
		s.enter(StateStopped)
		if ctx.Err() != nil {
			s.logger.Debug("Camera open aborted by interrupt: %s", err)
			result.StopReason = pipeline.StopInterrupted
			return result, nil
		}
		return result, fmt.Errorf("open camera: %w", err)
	}

	header := input.Header
	if header.Created == "" {
		header.Created = s.clock.Now().Format(ports.HeaderTimeLayout)
	}
	if header.Backend == "" {
		header.Backend = s.camera.Name()
	}
	if err := s.sink.WriteHeader(header); err != nil {
		s.camera.Close()
		s.sink.Close()
		s.enter(StateStopped)
		return result, fmt.Errorf("write run header: %w", err)
	}
	result.Header = header

	defer s.release(&result)

	s.enter(StateRunning)
	s.run(ctx, input, &result)
	return result, nil
}

func (s *Stage) run(ctx context.Context, input pipeline.AcquireInput, result *pipeline.AcquireResult) {
	period := input.Period()
	t0 := s.clock.Now()
	result.StartedAt = t0
	lastProgress := t0
	index := 0

	for {
		if ctx.Err() != nil {
			result.StopReason = pipeline.StopInterrupted
			return
		}

		cycleStart := s.clock.Now()
		if input.Duration > 0 && cycleStart.Sub(t0) >= input.Duration {
			result.StopReason = pipeline.StopDuration
			return
		}

		frame, err := s.camera.Capture(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Debug("Capture aborted by interrupt: %s", err)
				result.StopReason = pipeline.StopInterrupted
				return
			}
			s.logger.Warn("Frame read failed, stopping: %s", err)
			result.StopReason = pipeline.StopCaptureFailed
			result.StopError = err
			return
		}
		frame.CapturedAt = cycleStart

		seq := input.FirstSequence + index
		rel, err := s.sink.SaveFrame(seq, frame)
		if err != nil {
			s.logger.Error("Failed to save frame %d: %s", seq, err)
			result.StopReason = pipeline.StopWriteFailed
			result.StopError = err
			return
		}

		record := ports.NewMetadataRecord(index, rel, cycleStart, frame.Width, frame.Height)
		if err := s.sink.AppendRecord(record); err != nil {
			s.logger.Error("Failed to append record %d: %s", index, err)
			result.StopReason = pipeline.StopWriteFailed
			result.StopError = err
			return
		}

		s.track(result, frame, cycleStart)
		index++
		s.logger.Debug("Saved %s (%dx%d)", rel, frame.Width, frame.Height)

		now := s.clock.Now()
		if now.Sub(lastProgress) >= progressInterval {
			s.logger.Info("Saved %d frames", result.Frames)
			lastProgress = now
		}

		// No catch-up: a slow cycle simply shortens (or skips) the sleep.
		if wait := period - now.Sub(cycleStart); wait > 0 {
			if err := s.clock.Sleep(ctx, wait); err != nil {
				result.StopReason = pipeline.StopInterrupted
				return
			}
		}
	}
}

func (s *Stage) track(result *pipeline.AcquireResult, frame ports.Frame, at time.Time) {
	if result.Frames == 0 {
		result.FirstCapture = at
		result.MinSize = pipeline.Dimension{Width: frame.Width, Height: frame.Height}
		result.MaxSize = result.MinSize
	}
	result.LastCapture = at
	result.Frames++

	result.MinSize.Width = min(result.MinSize.Width, frame.Width)
	result.MinSize.Height = min(result.MinSize.Height, frame.Height)
	result.MaxSize.Width = max(result.MaxSize.Width, frame.Width)
	result.MaxSize.Height = max(result.MaxSize.Height, frame.Height)
}

// release closes the camera and the sink. Close errors are logged, not
// returned: by this point every saved frame is already durable.
func (s *Stage) release(result *pipeline.AcquireResult) {
	s.enter(StateStopping)

	if err := s.camera.Close(); err != nil {
		s.logger.Warn("Failed to close camera: %s", err)
	}
	if err := s.sink.Close(); err != nil {
		s.logger.Warn("Failed to close output: %s", err)
	}

	result.StoppedAt = s.clock.Now()
	s.enter(StateStopped)
}

func (s *Stage) enter(state State) {
	s.logger.Debug("State: %s", state)
	if s.observer != nil {
		s.observer(state)
	}
}

// IsStartupError reports whether err came from a failed Starting phase that
// the command line should treat as fatal.
func IsStartupError(err error) bool {
	return errors.Is(err, ports.ErrDeviceUnavailable) || errors.Is(err, ports.ErrOutputUnwritable)
}
