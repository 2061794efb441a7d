package pipeline

import (
	"time"

	"github.com/user/framelog/pkg/ports"
)

// =============================================================================
// Acquire Stage Types
// =============================================================================

// AcquireInput contains parameters for one acquisition run.
type AcquireInput struct {
	// Camera options passed to Camera.Open.
	Camera ports.CameraOptions

	// FPS is the target rate; the period is 1/FPS.
	FPS float64

	// Duration bounds the run. Zero runs until the context is cancelled.
	Duration time.Duration

	// FirstSequence is the file sequence number of the first frame.
	// Record indices always start at 0.
	FirstSequence int

	// Header is written once the sink and camera are open.
	// Created is filled in by the stage when empty.
	Header ports.RunHeader
}

// Period returns the target time between cycle starts.
func (in AcquireInput) Period() time.Duration {
	if in.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / in.FPS)
}

// StopReason explains why a run left the Running state.
type StopReason string

const (
	// StopNone means the run never reached Running.
	StopNone StopReason = ""
	// StopDuration means the configured duration elapsed.
	StopDuration StopReason = "duration"
	// StopCaptureFailed means a capture returned an error.
	StopCaptureFailed StopReason = "capture_failed"
	// StopInterrupted means the context was cancelled.
	StopInterrupted StopReason = "interrupted"
	// StopWriteFailed means a frame or record could not be persisted.
	StopWriteFailed StopReason = "write_failed"
)

// AcquireResult describes a finished run.
type AcquireResult struct {
	// Frames is the number of frames saved (and records appended).
	Frames int

	// StopReason explains why the loop ended.
	StopReason StopReason

	// StopError is the capture or write error that ended the run, if any.
	StopError error

	// StartedAt is the start of the first cycle; StoppedAt is when the loop exited.
	StartedAt time.Time
	StoppedAt time.Time

	// FirstCapture and LastCapture are the timestamps of the first and last saved frames.
	FirstCapture time.Time
	LastCapture  time.Time

	// MinSize and MaxSize bound the frame dimensions seen.
	MinSize Dimension
	MaxSize Dimension

	// Header is the run header as written.
	Header ports.RunHeader
}

// Duration returns the wall time spent in the loop.
func (r AcquireResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.StoppedAt.IsZero() {
		return 0
	}
	return r.StoppedAt.Sub(r.StartedAt)
}

// EffectiveFPS returns the achieved rate between the first and last frame.
func (r AcquireResult) EffectiveFPS() float64 {
	if r.Frames < 2 {
		return 0
	}
	span := r.LastCapture.Sub(r.FirstCapture).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(r.Frames-1) / span
}

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}
