package ffmpegcamera

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/user/framelog/pkg/adapters/logger"
	"github.com/user/framelog/pkg/ports"
)

func solidBMP(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("encode BMP: %v", err)
	}
	return buf.Bytes()
}

func TestBuildArgs(t *testing.T) {
	opts := ports.CameraOptions{Width: 640, Height: 480, FPS: 15, DeviceIndex: 2}

	tests := []struct {
		goos  string
		input []string
	}{
		{"linux", []string{"-f", "v4l2", "-video_size", "640x480", "-framerate", "15", "-i", "/dev/video2"}},
		{"darwin", []string{"-f", "avfoundation", "-video_size", "640x480", "-framerate", "15", "-i", "2:none"}},
		{"windows", []string{"-f", "vfwcap", "-video_size", "640x480", "-framerate", "15", "-i", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			args, err := buildArgs(tt.goos, opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			joined := strings.Join(args, " ")
			if !strings.Contains(joined, strings.Join(tt.input, " ")) {
				t.Errorf("args %q missing input %q", joined, strings.Join(tt.input, " "))
			}
			if !strings.HasSuffix(joined, "-f image2pipe -c:v bmp -pix_fmt bgr24 pipe:1") {
				t.Errorf("args %q should stream BMP to stdout", joined)
			}
		})
	}
}

func TestBuildArgs_DevicePathAndFractionalRate(t *testing.T) {
	opts := ports.CameraOptions{Width: 320, Height: 240, FPS: 7.5, DevicePath: "/dev/v4l/by-id/cam"}
	args, err := buildArgs("linux", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-framerate 7.5 -i /dev/v4l/by-id/cam") {
		t.Errorf("args = %q", joined)
	}
}

func TestBuildArgs_LowLatencyInput(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "windows"} {
		args, err := buildArgs(goos, ports.CameraOptions{Width: 640, Height: 480, FPS: 20})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", goos, err)
		}
		joined := strings.Join(args, " ")
		flags := strings.Index(joined, "-fflags nobuffer -thread_queue_size 4 -f ")
		input := strings.Index(joined, " -i ")
		if flags < 0 || input < 0 || flags > input {
			t.Errorf("%s: args %q should request unbuffered input before -i", goos, joined)
		}
	}
}

func TestBuildArgs_UnsupportedPlatform(t *testing.T) {
	_, err := buildArgs("plan9", ports.CameraOptions{Width: 1, Height: 1})
	if !errors.Is(err, ports.ErrPlatformNotSupported) {
		t.Errorf("expected ErrPlatformNotSupported, got %v", err)
	}
}

func TestFrameReader(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(solidBMP(t, 6, 4, color.RGBA{200, 100, 50, 255}))
	stream.Write(solidBMP(t, 3, 2, color.RGBA{1, 2, 3, 255}))

	fr := newFrameReader(&stream)

	first, err := fr.next()
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if first.Width != 6 || first.Height != 4 || first.Format != ports.PixelRGBA {
		t.Errorf("first frame = %dx%d %s", first.Width, first.Height, first.Format)
	}
	if got := first.Data[:3]; got[0] != 200 || got[1] != 100 || got[2] != 50 {
		t.Errorf("first pixel = %v", got)
	}

	second, err := fr.next()
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if second.Width != 3 || second.Height != 2 {
		t.Errorf("second frame = %dx%d", second.Width, second.Height)
	}

	if _, err := fr.next(); !errors.Is(err, ports.ErrCaptureFailed) {
		t.Errorf("expected ErrCaptureFailed at end of stream, got %v", err)
	}
}

func TestFrameReader_Garbage(t *testing.T) {
	fr := newFrameReader(strings.NewReader("definitely not a bitmap"))
	if _, err := fr.next(); !errors.Is(err, ports.ErrCaptureFailed) {
		t.Errorf("expected ErrCaptureFailed, got %v", err)
	}
}

func TestLocate_Custom(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(bin, []byte{}, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(bin)
	if err != nil || got != bin {
		t.Errorf("Locate(%q) = %q, %v", bin, got, err)
	}

	if _, err := Locate(bin + ".missing"); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestLocate_Env(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(bin, []byte{}, 0755); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FRAMELOG_FFMPEG_PATH", "")
	t.Setenv("FFMPEG_PATH", bin)
	if got, err := Locate(""); err != nil || got != bin {
		t.Errorf("Locate() = %q, %v", got, err)
	}

	t.Setenv("FRAMELOG_FFMPEG_PATH", bin+".missing")
	if _, err := Locate(""); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("FRAMELOG_FFMPEG_PATH should take precedence, got %v", err)
	}
}

func TestCamera_OpenWithoutFFmpeg(t *testing.T) {
	cam := New(logger.NewNoop())
	err := cam.Open(context.Background(), ports.CameraOptions{
		Width: 640, Height: 480, FPS: 10,
		FFmpegPath: filepath.Join(t.TempDir(), "nope"),
	})
	if !errors.Is(err, ports.ErrDeviceUnavailable) {
		t.Errorf("expected ErrDeviceUnavailable, got %v", err)
	}
}

func TestCamera_CaptureBeforeOpen(t *testing.T) {
	cam := New(logger.NewNoop())
	if _, err := cam.Capture(context.Background()); !errors.Is(err, ports.ErrCaptureFailed) {
		t.Errorf("expected ErrCaptureFailed, got %v", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close on unopened camera: %v", err)
	}
}

// fakeFFmpeg writes a shell script that ignores its arguments and prints body.
func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+script+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return bin
}

func TestCamera_StreamsFrames(t *testing.T) {
	dir := t.TempDir()
	var stream bytes.Buffer
	for i := 0; i < 3; i++ {
		stream.Write(solidBMP(t, 4, 2, color.RGBA{uint8(i * 10), 0, 0, 255}))
	}
	frames := filepath.Join(dir, "frames.bmp")
	if err := os.WriteFile(frames, stream.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	bin := fakeFFmpeg(t, "cat "+frames)

	cam := New(logger.NewNoop())
	cam.goos = "linux"
	if err := cam.Open(context.Background(), ports.CameraOptions{Width: 4, Height: 2, FPS: 10, FFmpegPath: bin}); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer cam.Close()

	// The first frame is consumed as warm-up.
	for want := 10; want <= 20; want += 10 {
		frame, err := cam.Capture(context.Background())
		if err != nil {
			t.Fatalf("capture: %v", err)
		}
		if int(frame.Data[0]) != want {
			t.Errorf("red = %d, want %d", frame.Data[0], want)
		}
	}

	if _, err := cam.Capture(context.Background()); !errors.Is(err, ports.ErrCaptureFailed) {
		t.Errorf("expected ErrCaptureFailed after the stream ends, got %v", err)
	}
}

func TestCamera_OpenReportsFFmpegError(t *testing.T) {
	bin := fakeFFmpeg(t, "echo 'Cannot open video device' >&2; exit 1")

	cam := New(logger.NewNoop())
	cam.goos = "linux"
	err := cam.Open(context.Background(), ports.CameraOptions{Width: 4, Height: 2, FPS: 10, FFmpegPath: bin})
	if !errors.Is(err, ports.ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "Cannot open video device") {
		t.Errorf("error should carry ffmpeg diagnostics, got %v", err)
	}
}

var _ ports.Camera = (*Camera)(nil)
