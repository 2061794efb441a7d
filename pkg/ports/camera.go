// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"strings"
	"time"
)

// Camera abstracts a frame source. The acquisition loop owns a Camera for the
// lifetime of one run and always calls Close on exit.
type Camera interface {
	// Name returns the backend identifier recorded in the run header.
	Name() string

	// Open acquires the device and applies the requested options.
	// Errors wrap ErrDeviceUnavailable.
	Open(ctx context.Context, opts CameraOptions) error

	// Capture reads one frame. Errors wrap ErrCaptureFailed and are terminal
	// for the current run.
	Capture(ctx context.Context) (Frame, error)

	// Close releases the device.
	Close() error
}

// CameraOptions configures a camera at open time.
type CameraOptions struct {
	// Width and Height are the requested resolution. Backends may deliver a
	// different size; frames always carry their own dimensions.
	Width  int
	Height int

	// FPS is the target capture rate, passed to devices that can use it.
	FPS float64

	// DeviceIndex selects a numbered capture device (generic backend).
	DeviceIndex int

	// DevicePath is the V4L2 device node (direct backend).
	DevicePath string

	// PixelFormat is the format requested from the direct backend.
	PixelFormat PixelFormat

	// FFmpegPath overrides ffmpeg discovery for the generic backend.
	FFmpegPath string
}

// PixelFormat identifies the layout of Frame.Data.
type PixelFormat int

const (
	// PixelRGBA is 4 bytes per pixel, R G B A.
	PixelRGBA PixelFormat = iota
	// PixelRGB24 is 3 bytes per pixel, R G B.
	PixelRGB24
	// PixelBGR24 is 3 bytes per pixel, B G R.
	PixelBGR24
	// PixelYUYV is packed YUV 4:2:2, 2 bytes per pixel (Y0 U Y1 V).
	PixelYUYV
	// PixelMJPEG is one JPEG image per frame.
	PixelMJPEG
)

// String returns the string representation of the pixel format.
func (f PixelFormat) String() string {
	switch f {
	case PixelRGBA:
		return "rgba"
	case PixelRGB24:
		return "rgb24"
	case PixelBGR24:
		return "bgr24"
	case PixelYUYV:
		return "yuyv"
	case PixelMJPEG:
		return "mjpeg"
	default:
		return "unknown"
	}
}

// ParsePixelFormat parses a pixel format name. Unknown names return false.
func ParsePixelFormat(s string) (PixelFormat, bool) {
	switch strings.ToLower(s) {
	case "rgba":
		return PixelRGBA, true
	case "rgb24", "rgb":
		return PixelRGB24, true
	case "bgr24", "bgr":
		return PixelBGR24, true
	case "yuyv", "yuy2":
		return PixelYUYV, true
	case "mjpeg", "mjpg":
		return PixelMJPEG, true
	default:
		return PixelRGBA, false
	}
}

// Frame is one captured image.
type Frame struct {
	// Data holds the pixel buffer in Format.
	Data []byte

	// Format describes Data.
	Format PixelFormat

	// Width and Height are the intrinsic dimensions of this frame.
	Width  int
	Height int

	// Stride is the number of bytes per row. Zero means tightly packed.
	Stride int

	// CapturedAt is the wall-clock moment the frame was requested.
	CapturedAt time.Time
}
