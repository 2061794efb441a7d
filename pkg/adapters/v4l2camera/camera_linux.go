//go:build linux

package v4l2camera

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"

	"github.com/user/framelog/pkg/ports"
)

// Camera implements ports.Camera with a streaming V4L2 device.
type Camera struct {
	logger ports.Logger

	mu     sync.Mutex
	dev    *device.Device
	cancel context.CancelFunc
	output <-chan []byte
	format ports.PixelFormat
	width  int
	height int
	stride int
}

// New creates a V4L2 camera.
func New(logger ports.Logger) *Camera {
	return &Camera{logger: logger.WithComponent("camera")}
}

// Name returns the backend identifier.
func (c *Camera) Name() string {
	return Backend
}

// Open configures the device and starts streaming. The requested pixel format
// must be honored by the driver; a different resolution is accepted and used.
func (c *Camera) Open(ctx context.Context, opts ports.CameraOptions) error {
	want := opts.PixelFormat
	if want != ports.PixelYUYV && want != ports.PixelMJPEG {
		want = ports.PixelYUYV
	}
	fourcc, err := toFourCC(want)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrDeviceUnavailable, err)
	}

	path := DevicePath(opts)
	c.logger.Debug("Opening %s camera", path)

	options := []device.Option{
		device.WithBufferSize(1),
		device.WithPixFormat(v4l2.PixFormat{
			PixelFormat: fourcc,
			Width:       uint32(opts.Width),
			Height:      uint32(opts.Height),
		}),
	}
	if opts.FPS > 0 {
		options = append(options, device.WithFPS(uint32(math.Ceil(opts.FPS))))
	}

	dev, err := device.Open(path, options...)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ports.ErrDeviceUnavailable, path, err)
	}

	got, err := dev.GetPixFormat()
	if err != nil {
		dev.Close()
		return fmt.Errorf("%w: query format of %s: %w", ports.ErrDeviceUnavailable, path, err)
	}
	format, ok := fromFourCC(got.PixelFormat)
	if !ok || format != want {
		dev.Close()
		return fmt.Errorf("%w: %s negotiated pixel format %s, requested %s",
			ports.ErrDeviceUnavailable, path, fourCCName(got.PixelFormat), want)
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	if err := dev.Start(streamCtx); err != nil {
		cancel()
		dev.Close()
		return fmt.Errorf("%w: start streaming on %s: %w", ports.ErrDeviceUnavailable, path, err)
	}

	c.mu.Lock()
	c.dev = dev
	c.cancel = cancel
	c.output = dev.GetOutput()
	c.format = format
	c.width = int(got.Width)
	c.height = int(got.Height)
	c.stride = int(got.BytesPerLine)
	c.mu.Unlock()

	if c.width != opts.Width || c.height != opts.Height {
		c.logger.Info("Camera reported %dx%d, requested %dx%d", c.width, c.height, opts.Width, opts.Height)
	}
	c.logger.Info("Opened %s at %dx%d (%s)", path, c.width, c.height, format)
	return nil
}

// Capture waits for the next buffer from the device.
func (c *Camera) Capture(ctx context.Context) (ports.Frame, error) {
	c.mu.Lock()
	output := c.output
	format, width, height, stride := c.format, c.width, c.height, c.stride
	c.mu.Unlock()

	if output == nil {
		return ports.Frame{}, fmt.Errorf("%w: camera not open", ports.ErrCaptureFailed)
	}

	select {
	case buf, ok := <-output:
		if !ok {
			return ports.Frame{}, fmt.Errorf("%w: stream closed", ports.ErrCaptureFailed)
		}
		if len(buf) == 0 {
			return ports.Frame{}, fmt.Errorf("%w: empty buffer", ports.ErrCaptureFailed)
		}
		// The driver reuses its buffers once the next frame is dequeued.
		data := make([]byte, len(buf))
		copy(data, buf)
		frame := ports.Frame{
			Data:   data,
			Format: format,
			Width:  width,
			Height: height,
		}
		if format == ports.PixelYUYV {
			frame.Stride = stride
		}
		return frame, nil
	case <-ctx.Done():
		return ports.Frame{}, fmt.Errorf("%w: %w", ports.ErrCaptureFailed, ctx.Err())
	}
}

// Close stops streaming and releases the device. It is safe to call more than once.
func (c *Camera) Close() error {
	c.mu.Lock()
	dev, cancel := c.dev, c.cancel
	c.dev, c.cancel, c.output = nil, nil, nil
	c.mu.Unlock()

	if dev == nil {
		return nil
	}
	if err := dev.Stop(); err != nil {
		c.logger.Debug("Stop streaming: %s", err)
	}
	cancel()
	if err := dev.Close(); err != nil {
		return fmt.Errorf("close device: %w", err)
	}
	return nil
}

func toFourCC(format ports.PixelFormat) (v4l2.FourCCType, error) {
	switch format {
	case ports.PixelYUYV:
		return v4l2.PixelFmtYUYV, nil
	case ports.PixelMJPEG:
		return v4l2.PixelFmtMJPEG, nil
	default:
		return 0, fmt.Errorf("pixel format %s is not supported by the v4l2 backend", format)
	}
}

func fromFourCC(fourcc v4l2.FourCCType) (ports.PixelFormat, bool) {
	switch fourcc {
	case v4l2.PixelFmtYUYV:
		return ports.PixelYUYV, true
	case v4l2.PixelFmtMJPEG, v4l2.PixelFmtJPEG:
		return ports.PixelMJPEG, true
	default:
		return 0, false
	}
}

func fourCCName(fourcc v4l2.FourCCType) string {
	if name, ok := v4l2.PixelFormats[fourcc]; ok {
		return name
	}
	b := []byte{byte(fourcc), byte(fourcc >> 8), byte(fourcc >> 16), byte(fourcc >> 24)}
	return string(b)
}

var _ ports.Camera = (*Camera)(nil)
