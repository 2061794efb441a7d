//go:build linux

package v4l2camera

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vladimirvivien/go4vl/v4l2"

	"github.com/user/framelog/pkg/adapters/logger"
	"github.com/user/framelog/pkg/ports"
)

func TestFourCCMapping(t *testing.T) {
	for _, format := range []ports.PixelFormat{ports.PixelYUYV, ports.PixelMJPEG} {
		fourcc, err := toFourCC(format)
		if err != nil {
			t.Fatalf("toFourCC(%s): %v", format, err)
		}
		back, ok := fromFourCC(fourcc)
		if !ok || back != format {
			t.Errorf("fromFourCC(toFourCC(%s)) = %s, %v", format, back, ok)
		}
	}

	if got, ok := fromFourCC(v4l2.PixelFmtJPEG); !ok || got != ports.PixelMJPEG {
		t.Errorf("JPEG should map to MJPEG, got %s, %v", got, ok)
	}
	if _, err := toFourCC(ports.PixelRGB24); err == nil {
		t.Error("expected error for RGB24")
	}
}

func TestFourCCName(t *testing.T) {
	// 'G','R','E','Y' is not in the well-known table of every go4vl release.
	fourcc := v4l2.FourCCType('A') | v4l2.FourCCType('B')<<8 | v4l2.FourCCType('C')<<16 | v4l2.FourCCType('D')<<24
	if _, known := v4l2.PixelFormats[fourcc]; !known {
		if got := fourCCName(fourcc); got != "ABCD" {
			t.Errorf("fourCCName = %q, want ABCD", got)
		}
	}
}

func TestCamera_OpenMissingDevice(t *testing.T) {
	cam := New(logger.NewNoop())
	err := cam.Open(context.Background(), ports.CameraOptions{
		Width: 640, Height: 480, FPS: 10,
		DevicePath:  filepath.Join(t.TempDir(), "video99"),
		PixelFormat: ports.PixelYUYV,
	})
	if !errors.Is(err, ports.ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close after failed open: %v", err)
	}
}

func TestCamera_CaptureBeforeOpen(t *testing.T) {
	cam := New(logger.NewNoop())
	if _, err := cam.Capture(context.Background()); !errors.Is(err, ports.ErrCaptureFailed) {
		t.Errorf("expected ErrCaptureFailed, got %v", err)
	}
}

func TestDevicePath(t *testing.T) {
	if got := DevicePath(ports.CameraOptions{DeviceIndex: 3}); got != "/dev/video3" {
		t.Errorf("DevicePath = %q", got)
	}
	if got := DevicePath(ports.CameraOptions{DeviceIndex: 3, DevicePath: "/dev/cam"}); got != "/dev/cam" {
		t.Errorf("DevicePath = %q", got)
	}
}
