package mocks

import (
	"image"
	"image/color"

	"github.com/user/framelog/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	FrameToImageFunc func(frame ports.Frame) (image.Image, error)
	ImageToFrameFunc func(img image.Image) ports.Frame
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
}

func (m *Renderer) FrameToImage(frame ports.Frame) (image.Image, error) {
	if m.FrameToImageFunc != nil {
		return m.FrameToImageFunc(frame)
	}
	return image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height)), nil
}

func (m *Renderer) ImageToFrame(img image.Image) ports.Frame {
	if m.ImageToFrameFunc != nil {
		return m.ImageToFrameFunc(img)
	}
	b := img.Bounds()
	return ports.Frame{Format: ports.PixelRGBA, Width: b.Dx(), Height: b.Dy()}
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{0x89, 0x50, 0x4E, 0x47}, nil
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	return &Canvas{width: width, height: height}
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas that records text draws.
type Canvas struct {
	width  int
	height int
	Texts  []string
}

func (m *Canvas) DrawLinearGradient(from, to color.Color) {}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Texts = append(m.Texts, text)
}

func (m *Canvas) DrawLine(x1, y1, x2, y2 int, c color.Color, width float64) {}

func (m *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

var _ ports.Canvas = (*Canvas)(nil)
