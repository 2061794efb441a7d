// Package summarizer provides summary generation for acquisition runs.
package summarizer

import (
	"time"

	"github.com/user/framelog/pkg/orchestrator"
)

// Summary contains everything worth reporting about one run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Run identity
	Run RunInfo

	// Requested settings
	Settings Settings

	// What happened
	Result ResultInfo

	// Dataset present before the run
	Existing ExistingInfo
}

// RunInfo identifies the run and where it wrote.
type RunInfo struct {
	OutputDir string
	RunID     string
	Created   string
	Backend   string
	Version   string
	DryRun    bool
}

// Settings contains the requested configuration.
type Settings struct {
	FPS        float64
	Width      int
	Height     int
	Seconds    float64 // 0 = until interrupted
	Device     int
	OnExisting string
}

// ResultInfo contains measured results.
type ResultInfo struct {
	Frames        int
	FirstSequence int
	StopReason    string
	StopError     string
	Duration      time.Duration
	EffectiveFPS  float64

	// Frame size range; equal unless the source changed resolution mid-run.
	MinWidth, MinHeight int
	MaxWidth, MaxHeight int
}

// ExistingInfo describes what an earlier run left in the output directory.
type ExistingInfo struct {
	MetadataLines int
	FrameFiles    int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// FromRunResult creates a Summary describing result.
func FromRunResult(result orchestrator.RunResult) *Summary {
	cfg := result.Config
	acq := result.Acquire

	s := NewSummary()
	s.Run = RunInfo{
		OutputDir: cfg.OutputDir,
		RunID:     acq.Header.RunID,
		Created:   acq.Header.Created,
		Backend:   acq.Header.Backend,
		Version:   cfg.Version,
		DryRun:    cfg.DryRun,
	}
	s.Settings = Settings{
		FPS:        cfg.FPS,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Seconds:    cfg.Seconds,
		Device:     cfg.Device,
		OnExisting: string(cfg.OnExisting),
	}
	s.Result = ResultInfo{
		Frames:        acq.Frames,
		FirstSequence: result.FirstSequence,
		StopReason:    string(acq.StopReason),
		Duration:      acq.Duration(),
		EffectiveFPS:  acq.EffectiveFPS(),
		MinWidth:      acq.MinSize.Width,
		MinHeight:     acq.MinSize.Height,
		MaxWidth:      acq.MaxSize.Width,
		MaxHeight:     acq.MaxSize.Height,
	}
	if acq.StopError != nil {
		s.Result.StopError = acq.StopError.Error()
	}
	s.Existing = ExistingInfo{
		MetadataLines: result.Existing.MetadataLines,
		FrameFiles:    result.Existing.FrameFiles,
	}
	return s
}
