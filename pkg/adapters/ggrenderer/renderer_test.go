package ggrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/user/framelog/pkg/ports"
)

func TestRenderer_CreateCanvas(t *testing.T) {
	r := New()

	canvas := r.CreateCanvas(100, 80, color.White)
	if canvas == nil {
		t.Fatal("expected canvas to be created")
	}

	bounds := canvas.ToImage().Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 80 {
		t.Errorf("expected 100x80, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCanvas_DrawRect(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(20, 20, color.Black)
	canvas.DrawRect(5, 5, 10, 10, color.RGBA{R: 255, A: 255})

	img := canvas.ToImage()
	got := color.RGBAModel.Convert(img.At(10, 10)).(color.RGBA)
	if got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("expected red inside rect, got %v", got)
	}
	outside := color.RGBAModel.Convert(img.At(1, 1)).(color.RGBA)
	if outside.R != 0 {
		t.Errorf("expected black outside rect, got %v", outside)
	}
}

func TestRenderer_FrameToImage_BGR24(t *testing.T) {
	r := New()

	// 2x1: pure blue, pure red (in B G R byte order)
	frame := ports.Frame{
		Data:   []byte{255, 0, 0, 0, 0, 255},
		Format: ports.PixelBGR24,
		Width:  2,
		Height: 1,
	}

	img, err := r.FrameToImage(frame)
	if err != nil {
		t.Fatalf("FrameToImage failed: %v", err)
	}

	first := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	if first != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel 0: expected blue, got %v", first)
	}
	second := color.RGBAModel.Convert(img.At(1, 0)).(color.RGBA)
	if second != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel 1: expected red, got %v", second)
	}
}

func TestRenderer_FrameToImage_RGB24WithStride(t *testing.T) {
	r := New()

	// 1x2 with 4-byte row stride (1 padding byte)
	frame := ports.Frame{
		Data:   []byte{10, 20, 30, 0, 40, 50, 60, 0},
		Format: ports.PixelRGB24,
		Width:  1,
		Height: 2,
		Stride: 4,
	}

	img, err := r.FrameToImage(frame)
	if err != nil {
		t.Fatalf("FrameToImage failed: %v", err)
	}

	got := color.RGBAModel.Convert(img.At(0, 1)).(color.RGBA)
	if got != (color.RGBA{R: 40, G: 50, B: 60, A: 255}) {
		t.Errorf("expected second row pixel, got %v", got)
	}
}

func TestRenderer_FrameToImage_YUYV(t *testing.T) {
	r := New()

	// Neutral chroma: luma passes through unchanged.
	frame := ports.Frame{
		Data:   []byte{16, 128, 235, 128},
		Format: ports.PixelYUYV,
		Width:  2,
		Height: 1,
	}

	img, err := r.FrameToImage(frame)
	if err != nil {
		t.Fatalf("FrameToImage failed: %v", err)
	}

	dark := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	if dark.R != 16 || dark.G != 16 || dark.B != 16 {
		t.Errorf("pixel 0: expected gray 16, got %v", dark)
	}
	light := color.RGBAModel.Convert(img.At(1, 0)).(color.RGBA)
	if light.R != 235 || light.G != 235 || light.B != 235 {
		t.Errorf("pixel 1: expected gray 235, got %v", light)
	}
}

func TestRenderer_FrameToImage_YUYVOddWidth(t *testing.T) {
	r := New()
	frame := ports.Frame{
		Data:   make([]byte, 6),
		Format: ports.PixelYUYV,
		Width:  3,
		Height: 1,
	}
	if _, err := r.FrameToImage(frame); err == nil {
		t.Error("expected error for odd YUYV width")
	}
}

func TestRenderer_FrameToImage_MJPEG(t *testing.T) {
	r := New()

	src := image.NewRGBA(image.Rect(0, 0, 32, 16))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	img, err := r.FrameToImage(ports.Frame{
		Data:   buf.Bytes(),
		Format: ports.PixelMJPEG,
		Width:  32,
		Height: 16,
	})
	if err != nil {
		t.Fatalf("FrameToImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("expected 32x16, got %dx%d", b.Dx(), b.Dy())
	}
}

// stripHuffmanTables drops every DHT segment before the scan, the way many
// UVC cameras send MJPEG frames.
func stripHuffmanTables(t *testing.T, data []byte) []byte {
	t.Helper()
	out := append([]byte{}, data[:2]...)
	i := 2
	for i+4 <= len(data) {
		marker := data[i+1]
		if marker == markerSOS {
			return append(out, data[i:]...)
		}
		end := i + 2 + int(data[i+2])<<8 + int(data[i+3])
		if marker != markerDHT {
			out = append(out, data[i:end]...)
		}
		i = end
	}
	t.Fatal("no SOS marker in fixture")
	return nil
}

func TestRenderer_FrameToImage_MJPEGWithoutHuffmanTables(t *testing.T) {
	r := New()

	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 200, 40, 40, 255
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	stripped := stripHuffmanTables(t, buf.Bytes())
	if bytes.Contains(stripped, []byte{0xff, markerDHT}) {
		t.Fatal("fixture still holds a DHT segment")
	}
	if _, err := jpeg.Decode(bytes.NewReader(stripped)); err == nil {
		t.Fatal("fixture should not decode without Huffman tables")
	}

	img, err := r.FrameToImage(ports.Frame{
		Data:   stripped,
		Format: ports.PixelMJPEG,
		Width:  16,
		Height: 16,
	})
	if err != nil {
		t.Fatalf("FrameToImage failed: %v", err)
	}
	got := color.RGBAModel.Convert(img.At(8, 8)).(color.RGBA)
	if got.R < 180 || got.G > 70 || got.B > 70 {
		t.Errorf("expected reddish pixel, got %v", got)
	}
}

func TestWithHuffmanTables_KeepsCompleteFrames(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if got := withHuffmanTables(buf.Bytes()); !bytes.Equal(got, buf.Bytes()) {
		t.Error("frame with its own tables should be left unchanged")
	}

	garbage := []byte{1, 2, 3, 4, 5}
	if got := withHuffmanTables(garbage); !bytes.Equal(got, garbage) {
		t.Error("non-JPEG data should be left unchanged")
	}
}

func TestRenderer_FrameToImage_ShortBuffer(t *testing.T) {
	r := New()
	frame := ports.Frame{
		Data:   make([]byte, 10),
		Format: ports.PixelRGBA,
		Width:  4,
		Height: 4,
	}
	if _, err := r.FrameToImage(frame); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestRenderer_ImageToFrameRoundTrip(t *testing.T) {
	r := New()

	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	frame := r.ImageToFrame(src)
	if frame.Width != 3 || frame.Height != 2 || frame.Format != ports.PixelRGBA {
		t.Fatalf("unexpected frame: %dx%d %s", frame.Width, frame.Height, frame.Format)
	}

	img, err := r.FrameToImage(frame)
	if err != nil {
		t.Fatalf("FrameToImage failed: %v", err)
	}
	got := color.RGBAModel.Convert(img.At(2, 1)).(color.RGBA)
	if got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("expected pixel to survive round trip, got %v", got)
	}
}

func TestRenderer_EncodePNGIsLossless(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 7, A: 255})
		}
	}

	data, err := r.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := img.RGBAAt(x, y)
			got := color.RGBAModel.Convert(decoded.At(x, y)).(color.RGBA)
			if got != want {
				t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestRenderer_EncodeJPEG(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))

	data, err := r.EncodeImage(img, ports.FormatJPEG, 80)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestRenderer_EncodeUnsupportedFormat(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if _, err := r.EncodeImage(img, ports.ImageFormat(99), 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestCanvas_DrawTextHonoursFontSize(t *testing.T) {
	r := New()

	inked := func(size float64) int {
		canvas := r.CreateCanvas(200, 80, color.Black)
		canvas.DrawText("framelog", 100, 40, ports.TextStyle{
			FontSize: size,
			Color:    color.White,
			Align:    ports.AlignCenter,
		})
		img := canvas.ToImage()
		n := 0
		for y := 0; y < 80; y++ {
			for x := 0; x < 200; x++ {
				if c := color.GrayModel.Convert(img.At(x, y)).(color.Gray); c.Y > 128 {
					n++
				}
			}
		}
		return n
	}

	small, large := inked(10), inked(30)
	if small == 0 {
		t.Fatal("expected text to be drawn")
	}
	if large <= small*2 {
		t.Errorf("expected 30pt text to cover far more pixels than 10pt, got %d vs %d", large, small)
	}
}
