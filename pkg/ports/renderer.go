package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts image conversion, encoding and drawing.
type Renderer interface {
	// FrameToImage converts a captured frame into an image, performing any
	// color-space conversion its pixel format requires.
	FrameToImage(frame Frame) (image.Image, error)

	// ImageToFrame packs an image into an RGBA frame.
	ImageToFrame(img image.Image) Frame

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas
}

// Canvas provides drawing operations for synthetic frames.
type Canvas interface {
	// DrawLinearGradient fills the canvas with a horizontal gradient.
	DrawLinearGradient(from, to color.Color)

	// DrawRect draws a filled rectangle.
	DrawRect(x, y, w, h int, c color.Color)

	// DrawText draws text at the specified position.
	DrawText(text string, x, y int, style TextStyle)

	// DrawLine draws a line between two points.
	DrawLine(x1, y1, x2, y2 int, c color.Color, width float64)

	// ToImage returns the canvas as an image.Image.
	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
)

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatPNG ImageFormat = iota
	FormatJPEG
)
