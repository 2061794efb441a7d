// Package patterncamera provides a synthetic camera that draws a moving
// test pattern. It needs no hardware, which makes it useful for dry runs
// and for checking that a machine can sustain a given rate.
package patterncamera

import (
	"context"
	"fmt"
	"image/color"
	"sync"

	"github.com/user/framelog/pkg/ports"
)

// Backend is the identifier written to the run header.
const Backend = "pattern"

var (
	gradientFrom = color.RGBA{R: 0x10, G: 0x20, B: 0x40, A: 0xff}
	gradientTo   = color.RGBA{R: 0x20, G: 0x80, B: 0x80, A: 0xff}
	barColor     = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	gridColor    = color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff}
)

// Camera renders frames of the requested size on demand.
type Camera struct {
	renderer ports.Renderer
	logger   ports.Logger

	mu     sync.Mutex
	width  int
	height int
	count  int
	open   bool
}

// New creates a pattern camera drawing through renderer.
func New(renderer ports.Renderer, logger ports.Logger) *Camera {
	return &Camera{
		renderer: renderer,
		logger:   logger.WithComponent("camera"),
	}
}

// Name returns the backend identifier.
func (c *Camera) Name() string {
	return Backend
}

// Open records the frame size. Any positive size is accepted.
func (c *Camera) Open(ctx context.Context, opts ports.CameraOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("%w: invalid pattern size %dx%d", ports.ErrDeviceUnavailable, opts.Width, opts.Height)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = opts.Width, opts.Height
	c.count = 0
	c.open = true

	c.logger.Info("Opened %s at %dx%d (%s)", Backend, c.width, c.height, ports.PixelRGBA)
	return nil
}

// Capture draws the next frame: a gradient, a vertical bar sweeping left to
// right one step per frame, a centre cross and the frame counter.
func (c *Camera) Capture(ctx context.Context) (ports.Frame, error) {
	if err := ctx.Err(); err != nil {
		return ports.Frame{}, fmt.Errorf("%w: %w", ports.ErrCaptureFailed, err)
	}

	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return ports.Frame{}, fmt.Errorf("%w: camera not open", ports.ErrCaptureFailed)
	}
	n := c.count
	c.count++
	w, h := c.width, c.height
	c.mu.Unlock()

	canvas := c.renderer.CreateCanvas(w, h, gradientFrom)
	canvas.DrawLinearGradient(gradientFrom, gradientTo)

	barWidth := max(w/32, 1)
	canvas.DrawRect(BarX(n, w), 0, barWidth, h, barColor)

	canvas.DrawLine(w/2, 0, w/2, h, gridColor, 1)
	canvas.DrawLine(0, h/2, w, h/2, gridColor, 1)

	canvas.DrawText(Label(n), w/2, h/8, ports.TextStyle{
		FontSize: float64(max(h/20, 10)),
		Color:    color.White,
		Align:    ports.AlignCenter,
	})

	return c.renderer.ImageToFrame(canvas.ToImage()), nil
}

// Close marks the camera closed.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

// BarX returns the left edge of the sweeping bar in frame n.
func BarX(n, width int) int {
	step := max(width/64, 1)
	return (n * step) % width
}

// Label returns the counter text drawn on frame n.
func Label(n int) string {
	return fmt.Sprintf("framelog #%06d", n)
}

var _ ports.Camera = (*Camera)(nil)
