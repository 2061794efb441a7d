package summarizer

import (
	"strings"
	"testing"
	"time"

	"github.com/user/framelog/pkg/mocks"
)

func sampleSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC),
		Run: RunInfo{
			OutputDir: "data/run_001",
			RunID:     "0f8fad5b-d9cb-469f-a165-70867728950e",
			Created:   "20261016_175403",
			Backend:   "v4l2",
			Version:   "1.0.0",
		},
		Settings: Settings{
			FPS:        20,
			Width:      1280,
			Height:     720,
			Seconds:    0,
			OnExisting: "append",
		},
		Result: ResultInfo{
			Frames:       200,
			StopReason:   "interrupted",
			Duration:     10 * time.Second,
			EffectiveFPS: 19.9,
			MinWidth:     1280, MinHeight: 720,
			MaxWidth: 1280, MaxHeight: 720,
		},
	}
}

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	result := NewMarkdownFormatter().Format(sampleSummary())

	checks := []string{
		"# Acquisition Summary",
		"## Run",
		"## Settings",
		"## Result",
		"`data/run_001`",
		"0f8fad5b-d9cb-469f-a165-70867728950e",
		"| Backend | v4l2 |",
		"| Target rate | 20 fps |",
		"| Resolution | 1280x720 |",
		"| Duration | until interrupted |",
		"| Frames saved | 200 |",
		"`frames/000000.png`",
		"| Wall time | 10.00 s |",
		"| Effective rate | 19.90 fps |",
		"| Frame size | 1280x720 |",
		"| Stop reason | interrupted |",
		"2026-10-16T18:00:00Z",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q\n%s", check, result)
		}
	}

	if strings.Contains(result, "Stop error") {
		t.Error("stop error row should be omitted when there is no error")
	}
	if strings.Contains(result, "Previous dataset") {
		t.Error("previous dataset row should be omitted for a fresh directory")
	}
}

func TestMarkdownFormatter_Format_Variants(t *testing.T) {
	s := sampleSummary()
	s.Run.DryRun = true
	s.Settings.Seconds = 2.5
	s.Result.StopReason = "capture_failed"
	s.Result.StopError = "read |frame| failed\nEOF"
	s.Result.MinWidth, s.Result.MinHeight = 640, 480
	s.Result.FirstSequence = 12
	s.Existing = ExistingInfo{MetadataLines: 12, FrameFiles: 12}

	result := NewMarkdownFormatter().Format(s)

	checks := []string{
		"| Dry run | yes |",
		"| Duration | 2.5 s |",
		"| Frames captured | 200 |",
		"`frames/000012.png`",
		"| Frame size | 640x480 - 1280x720 |",
		`read \|frame\| failed EOF`,
		"| Previous dataset | 12 records, 12 frames |",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q\n%s", check, result)
		}
	}
}

func TestMarkdownFormatter_NoFrames(t *testing.T) {
	s := sampleSummary()
	s.Result.Frames = 0
	if !strings.Contains(NewMarkdownFormatter().Format(s), "| Frame size | - |") {
		t.Error("frame size should be '-' without frames")
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(s *Summary) string { return "hello " + s.Run.Backend }), fs)

	if err := w.Write("out/summary.md", sampleSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := fs.ReadFile("out/summary.md")
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	if string(data) != "hello v4l2" {
		t.Errorf("content = %q", data)
	}
}

var _ Formatter = (*MarkdownFormatter)(nil)
