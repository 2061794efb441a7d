//go:build !linux

package v4l2camera

import (
	"context"
	"fmt"

	"github.com/user/framelog/pkg/ports"
)

// Camera is unavailable on this platform.
type Camera struct{}

// New creates a V4L2 camera stub.
func New(logger ports.Logger) *Camera {
	return &Camera{}
}

// Name returns the backend identifier.
func (c *Camera) Name() string {
	return Backend
}

// Open always fails on non-Linux platforms.
func (c *Camera) Open(ctx context.Context, opts ports.CameraOptions) error {
	return fmt.Errorf("%w: %w: V4L2 requires Linux", ports.ErrDeviceUnavailable, ports.ErrPlatformNotSupported)
}

// Capture always fails on non-Linux platforms.
func (c *Camera) Capture(ctx context.Context) (ports.Frame, error) {
	return ports.Frame{}, fmt.Errorf("%w: camera not open", ports.ErrCaptureFailed)
}

// Close does nothing.
func (c *Camera) Close() error {
	return nil
}

var _ ports.Camera = (*Camera)(nil)
