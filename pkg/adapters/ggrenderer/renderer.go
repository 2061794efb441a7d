// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/user/framelog/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
type Renderer struct {
	encoder png.Encoder

	fontOnce sync.Once
	font     *opentype.Font
	fontErr  error

	mu    sync.Mutex
	faces map[float64]font.Face
}

// New creates a new Renderer. Frames are written with png.BestSpeed because
// encoding happens inside the capture period.
func New() *Renderer {
	return &Renderer{
		encoder: png.Encoder{CompressionLevel: png.BestSpeed},
		faces:   make(map[float64]font.Face),
	}
}

// face returns the Go Regular face at size points, or nil if it cannot be built.
func (r *Renderer) face(size float64) font.Face {
	if size <= 0 {
		return nil
	}
	r.fontOnce.Do(func() {
		r.font, r.fontErr = opentype.Parse(goregular.TTF)
	})
	if r.fontErr != nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{Size: size, DPI: 72})
	if err != nil {
		return nil
	}
	r.faces[size] = f
	return f
}

// FrameToImage converts a frame into an image in RGB channel order.
func (r *Renderer) FrameToImage(frame ports.Frame) (image.Image, error) {
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", frame.Width, frame.Height)
	}

	switch frame.Format {
	case ports.PixelRGBA:
		stride := strideOr(frame, 4)
		if err := checkLen(frame, stride, 4); err != nil {
			return nil, err
		}
		return &image.RGBA{
			Pix:    frame.Data,
			Stride: stride,
			Rect:   image.Rect(0, 0, frame.Width, frame.Height),
		}, nil
	case ports.PixelRGB24:
		return packed24ToRGBA(frame, 0, 2)
	case ports.PixelBGR24:
		// BGR to RGB swap
		return packed24ToRGBA(frame, 2, 0)
	case ports.PixelYUYV:
		return yuyvToRGBA(frame)
	case ports.PixelMJPEG:
		img, err := jpeg.Decode(bytes.NewReader(withHuffmanTables(frame.Data)))
		if err != nil {
			return nil, fmt.Errorf("decode MJPEG frame: %w", err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported pixel format: %s", frame.Format)
	}
}

// ImageToFrame packs an image into an RGBA frame.
func (r *Renderer) ImageToFrame(img image.Image) ports.Frame {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return ports.Frame{
		Data:   rgba.Pix,
		Format: ports.PixelRGBA,
		Width:  rgba.Rect.Dx(),
		Height: rgba.Rect.Dy(),
		Stride: rgba.Stride,
	}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := r.encoder.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// CreateCanvas creates a new drawing canvas.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc, renderer: r}
}

func strideOr(frame ports.Frame, bpp int) int {
	if frame.Stride > 0 {
		return frame.Stride
	}
	return frame.Width * bpp
}

func checkLen(frame ports.Frame, stride, bpp int) error {
	need := stride*(frame.Height-1) + frame.Width*bpp
	if len(frame.Data) < need {
		return fmt.Errorf("short %s frame: %d bytes, need %d for %dx%d",
			frame.Format, len(frame.Data), need, frame.Width, frame.Height)
	}
	return nil
}

// packed24ToRGBA expands a 3-byte-per-pixel frame. ri and bi are the byte
// offsets of red and blue within a pixel.
func packed24ToRGBA(frame ports.Frame, ri, bi int) (image.Image, error) {
	stride := strideOr(frame, 3)
	if err := checkLen(frame, stride, 3); err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		src := frame.Data[y*stride : y*stride+frame.Width*3]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+frame.Width*4]
		for x := 0; x < frame.Width; x++ {
			row[x*4+0] = src[x*3+ri]
			row[x*4+1] = src[x*3+1]
			row[x*4+2] = src[x*3+bi]
			row[x*4+3] = 0xff
		}
	}
	return dst, nil
}

// yuyvToRGBA de-interleaves packed YUV 4:2:2 into planar YCbCr and converts it.
func yuyvToRGBA(frame ports.Frame) (image.Image, error) {
	if frame.Width%2 != 0 {
		return nil, fmt.Errorf("YUYV frame width must be even, got %d", frame.Width)
	}
	stride := strideOr(frame, 2)
	if err := checkLen(frame, stride, 2); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, frame.Width, frame.Height)
	ycc := image.NewYCbCr(rect, image.YCbCrSubsampleRatio422)
	for y := 0; y < frame.Height; y++ {
		src := frame.Data[y*stride : y*stride+frame.Width*2]
		yRow := ycc.Y[y*ycc.YStride:]
		cRow := y * ycc.CStride
		for x := 0; x < frame.Width/2; x++ {
			p := src[x*4 : x*4+4]
			yRow[2*x] = p[0]
			yRow[2*x+1] = p[2]
			ycc.Cb[cRow+x] = p[1]
			ycc.Cr[cRow+x] = p[3]
		}
	}

	dst := image.NewRGBA(rect)
	draw.Draw(dst, rect, ycc, image.Point{}, draw.Src)
	return dst, nil
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas using gg.Context.
type Canvas struct {
	dc       *gg.Context
	renderer *Renderer
}

// DrawLinearGradient fills the canvas with a left-to-right gradient.
func (c *Canvas) DrawLinearGradient(from, to color.Color) {
	w, h := float64(c.dc.Width()), float64(c.dc.Height())
	grad := gg.NewLinearGradient(0, 0, w, 0)
	grad.AddColorStop(0, from)
	grad.AddColorStop(1, to)
	c.dc.SetFillStyle(grad)
	c.dc.DrawRectangle(0, 0, w, h)
	c.dc.Fill()
}

// DrawRect draws a filled rectangle.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawText draws text at the specified position.
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.dc.SetColor(style.Color)
	// gg keeps its built-in face when no size is given
	if f := c.renderer.face(style.FontSize); f != nil {
		c.dc.SetFontFace(f)
	}

	ax := 0.0
	if style.Align == ports.AlignCenter {
		ax = 0.5
	}

	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0.5)
}

// DrawLine draws a line between two points.
func (c *Canvas) DrawLine(x1, y1, x2, y2 int, col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
	c.dc.Stroke()
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

// Ensure Canvas implements ports.Canvas
var _ ports.Canvas = (*Canvas)(nil)
