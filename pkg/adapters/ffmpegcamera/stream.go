package ffmpegcamera

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/user/framelog/pkg/ports"
)

// frameReader decodes consecutive BMP images from a byte stream.
type frameReader struct {
	r *bufio.Reader
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: bufio.NewReaderSize(r, 1<<20)}
}

// next decodes one image. Width and height come from the image itself.
func (fr *frameReader) next() (ports.Frame, error) {
	img, err := bmp.Decode(fr.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ports.Frame{}, fmt.Errorf("%w: stream ended", ports.ErrCaptureFailed)
		}
		return ports.Frame{}, fmt.Errorf("%w: decode BMP: %w", ports.ErrCaptureFailed, err)
	}
	return toFrame(img), nil
}

func toFrame(img image.Image) ports.Frame {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return ports.Frame{
		Data:   rgba.Pix,
		Format: ports.PixelRGBA,
		Width:  b.Dx(),
		Height: b.Dy(),
		Stride: rgba.Stride,
	}
}
