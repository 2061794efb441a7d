package ffmpegcamera

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/user/framelog/pkg/ports"
)

// openTimeout bounds the wait for the warm-up frame.
var openTimeout = 10 * time.Second

type readResult struct {
	frame ports.Frame
	err   error
}

// Camera implements ports.Camera on top of an ffmpeg child process.
type Camera struct {
	logger ports.Logger
	goos   string

	mu      sync.Mutex
	cmd     *exec.Cmd
	stderr  bytes.Buffer
	reader  *frameReader
	pending chan readResult
	closed  bool
}

// New creates an ffmpeg-backed camera.
func New(logger ports.Logger) *Camera {
	return &Camera{
		logger: logger.WithComponent("camera"),
		goos:   runtime.GOOS,
	}
}

// Name returns the backend identifier.
func (c *Camera) Name() string {
	return "ffmpeg"
}

// Open starts ffmpeg and waits for the first frame, which is discarded.
// A device that cannot deliver a frame fails here rather than on the first capture.
func (c *Camera) Open(ctx context.Context, opts ports.CameraOptions) error {
	ffmpegPath, err := Locate(opts.FFmpegPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrDeviceUnavailable, err)
	}
	c.logger.Debug("Using ffmpeg at %s", ffmpegPath)

	args, err := buildArgs(c.goos, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrDeviceUnavailable, err)
	}

	c.mu.Lock()
	c.cmd = exec.Command(ffmpegPath, args...)
	c.cmd.Stderr = &c.stderr
	stdout, err := c.cmd.StdoutPipe()
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: stdout pipe: %w", ports.ErrDeviceUnavailable, err)
	}
	if err := c.cmd.Start(); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: start ffmpeg: %w", ports.ErrDeviceUnavailable, err)
	}
	c.reader = newFrameReader(stdout)
	c.mu.Unlock()

	openCtx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	frame, err := c.Capture(openCtx)
	if err != nil {
		c.Close()
		return fmt.Errorf("%w: device %d: %s", ports.ErrDeviceUnavailable, opts.DeviceIndex, c.describe(err))
	}

	if frame.Width != opts.Width || frame.Height != opts.Height {
		c.logger.Info("Camera reported %dx%d, requested %dx%d", frame.Width, frame.Height, opts.Width, opts.Height)
	}
	c.logger.Info("Opened %s at %dx%d (%s)", fmt.Sprintf("device %d", opts.DeviceIndex), frame.Width, frame.Height, "bgr24")
	return nil
}

// Capture returns the next frame from the stream. A cancelled context stops
// ffmpeg, since the pending read cannot otherwise be interrupted.
func (c *Camera) Capture(ctx context.Context) (ports.Frame, error) {
	c.mu.Lock()
	if c.reader == nil || c.closed {
		c.mu.Unlock()
		return ports.Frame{}, fmt.Errorf("%w: camera not open", ports.ErrCaptureFailed)
	}
	if c.pending == nil {
		ch := make(chan readResult, 1)
		reader := c.reader
		go func() {
			frame, err := reader.next()
			ch <- readResult{frame: frame, err: err}
		}()
		c.pending = ch
	}
	pending := c.pending
	c.mu.Unlock()

	select {
	case res := <-pending:
		c.mu.Lock()
		c.pending = nil
		c.mu.Unlock()
		return res.frame, res.err
	case <-ctx.Done():
		c.kill()
		return ports.Frame{}, fmt.Errorf("%w: %w", ports.ErrCaptureFailed, ctx.Err())
	}
}

// Close stops ffmpeg. It is safe to call more than once.
func (c *Camera) Close() error {
	c.mu.Lock()
	if c.closed || c.cmd == nil {
		c.closed = true
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cmd := c.cmd
	c.mu.Unlock()

	if cmd.Process != nil {
		cmd.Process.Kill()
	}
	// Killed processes report a non-nil error; nothing useful to return.
	cmd.Wait()
	return nil
}

func (c *Camera) kill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd != nil && c.cmd.Process != nil {
		c.cmd.Process.Kill()
	}
}

// describe appends ffmpeg's own diagnostics to err, when there are any.
func (c *Camera) describe(err error) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := strings.TrimSpace(c.stderr.String())
	if msg == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s\nffmpeg: %s", err, msg)
}

var _ ports.Camera = (*Camera)(nil)
