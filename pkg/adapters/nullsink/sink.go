// Package nullsink provides a dataset sink that discards output, used for dry runs.
package nullsink

import (
	"fmt"
	"path"

	"github.com/user/framelog/pkg/ports"
)

// Sink is a no-op implementation of ports.DatasetSink.
// When a renderer is given, frames are still converted and encoded so that a
// dry run measures the same per-frame cost as a real one.
type Sink struct {
	renderer ports.Renderer
}

// New creates a new null sink. renderer may be nil.
func New(renderer ports.Renderer) *Sink {
	return &Sink{renderer: renderer}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// Open does nothing.
func (s *Sink) Open() error {
	return nil
}

// WriteHeader does nothing.
func (s *Sink) WriteHeader(header ports.RunHeader) error {
	return nil
}

// SaveFrame encodes the frame if a renderer is set and discards the result.
func (s *Sink) SaveFrame(seq int, frame ports.Frame) (string, error) {
	if s.renderer != nil {
		img, err := s.renderer.FrameToImage(frame)
		if err != nil {
			return "", fmt.Errorf("convert frame %d: %w", seq, err)
		}
		if _, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0); err != nil {
			return "", fmt.Errorf("encode frame %d: %w", seq, err)
		}
	}
	return path.Join(ports.FramesDir, ports.FrameFileName(seq)), nil
}

// AppendRecord does nothing.
func (s *Sink) AppendRecord(record ports.MetadataRecord) error {
	return nil
}

// Close does nothing.
func (s *Sink) Close() error {
	return nil
}

// Ensure Sink implements ports.DatasetSink
var _ ports.DatasetSink = (*Sink)(nil)
