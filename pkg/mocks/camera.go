package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/framelog/pkg/ports"
)

// Camera is a mock implementation of ports.Camera.
type Camera struct {
	mu sync.Mutex

	NameValue string

	OpenFunc    func(ctx context.Context, opts ports.CameraOptions) error
	CaptureFunc func(ctx context.Context, call int) (ports.Frame, error)
	CloseFunc   func() error

	// Recorded calls
	Opened       bool
	OpenOptions  ports.CameraOptions
	CaptureCalls int
	CloseCalls   int
}

// NewSyntheticCamera returns a camera producing solid RGBA frames whose red
// channel encodes the call number. If failOn > 0, the failOn-th capture
// (1-based) fails with ports.ErrCaptureFailed.
func NewSyntheticCamera(width, height, failOn int) *Camera {
	return &Camera{
		NameValue: "synthetic",
		CaptureFunc: func(ctx context.Context, call int) (ports.Frame, error) {
			if failOn > 0 && call == failOn {
				return ports.Frame{}, fmt.Errorf("%w: synthetic failure on call %d", ports.ErrCaptureFailed, call)
			}
			return SolidFrame(width, height, uint8(call-1)), nil
		},
	}
}

// SolidFrame returns an RGBA frame filled with (value, 255-value, 64, 255).
func SolidFrame(width, height int, value uint8) ports.Frame {
	data := make([]byte, width*height*4)
	for i := 0; i < len(data); i += 4 {
		data[i] = value
		data[i+1] = 255 - value
		data[i+2] = 64
		data[i+3] = 255
	}
	return ports.Frame{
		Data:   data,
		Format: ports.PixelRGBA,
		Width:  width,
		Height: height,
	}
}

func (m *Camera) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m *Camera) Open(ctx context.Context, opts ports.CameraOptions) error {
	m.mu.Lock()
	m.OpenOptions = opts
	m.mu.Unlock()
	if m.OpenFunc != nil {
		if err := m.OpenFunc(ctx, opts); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Opened = true
	m.mu.Unlock()
	return nil
}

func (m *Camera) Capture(ctx context.Context) (ports.Frame, error) {
	m.mu.Lock()
	m.CaptureCalls++
	call := m.CaptureCalls
	m.mu.Unlock()
	if m.CaptureFunc != nil {
		return m.CaptureFunc(ctx, call)
	}
	return SolidFrame(4, 4, 0), nil
}

func (m *Camera) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.Camera = (*Camera)(nil)
