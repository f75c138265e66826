package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"inkboard/internal/board"
	"inkboard/internal/shape"
)

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	return img
}

func rgb(c color.Color) (uint8, uint8, uint8) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B
}

func TestRasterizeSize(t *testing.T) {
	r := &Rasterizer{}
	data, err := r.Rasterize(board.Scene{Width: 200, Height: 100})
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	b := decode(t, data).Bounds()
	if b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("Rasterize failed: expected 200x100, got %dx%d", b.Dx(), b.Dy())
	}

	r.Scale = 2
	data, _ = r.Rasterize(board.Scene{Width: 200, Height: 100})
	if b := decode(t, data).Bounds(); b.Dx() != 400 {
		t.Errorf("Rasterize scale failed: expected width 400, got %d", b.Dx())
	}
}

func TestRasterizeFilledRect(t *testing.T) {
	r := &Rasterizer{}
	scene := board.Scene{Width: 100, Height: 100, Shapes: []shape.Shape{
		shape.NewRect("r", shape.Box{X: 20, Y: 20, Width: 60, Height: 60}, shape.NewFill("#ff0000"), "#000000", 2),
	}}
	data, err := r.Rasterize(scene)
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	img := decode(t, data)
	if red, g, b := rgb(img.At(50, 50)); red != 255 || g != 0 || b != 0 {
		t.Errorf("Fill failed: expected red at center, got %d %d %d", red, g, b)
	}
	if red, g, b := rgb(img.At(5, 5)); red != 255 || g != 255 || b != 255 {
		t.Errorf("Background failed: expected white corner, got %d %d %d", red, g, b)
	}
}

func TestRasterizeInvalidSize(t *testing.T) {
	r := &Rasterizer{}
	if _, err := r.Rasterize(board.Scene{}); err == nil {
		t.Errorf("Rasterize failed: expected error for zero size")
	}
}

func TestRasterizeTooLarge(t *testing.T) {
	r := &Rasterizer{}
	if _, err := r.Rasterize(board.Scene{Width: 1e9, Height: 100}); err == nil {
		t.Errorf("Rasterize failed: expected error for oversized canvas")
	}
	r.Scale = 4
	if _, err := r.Rasterize(board.Scene{Width: 5000, Height: 100}); err == nil {
		t.Errorf("Rasterize failed: expected error for oversized scaled canvas")
	}
}

func TestOversizedImageIsPlaceholder(t *testing.T) {
	url := EncodeDataURL(solidPNG(t, 2, 2))
	r := &Rasterizer{}
	_, err := r.Rasterize(board.Scene{Width: 40, Height: 40, Shapes: []shape.Shape{
		shape.NewImage("i", 0, 0, 1e9, 1e9, url),
	}})
	if err != nil {
		t.Errorf("Rasterize failed: %v", err)
	}
}

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestImageDataURL(t *testing.T) {
	src, w, h, err := ImageDataURL(bytes.NewReader(solidPNG(t, 6, 3)))
	if err != nil {
		t.Fatalf("ImageDataURL failed: %v", err)
	}
	if w != 6 || h != 3 {
		t.Errorf("ImageDataURL failed: expected 6x3, got %dx%d", w, h)
	}
	img, err := DecodeDataURL(src)
	if err != nil {
		t.Fatalf("DecodeDataURL failed: %v", err)
	}
	if img.Bounds().Dx() != 6 {
		t.Errorf("DecodeDataURL failed: expected width 6, got %d", img.Bounds().Dx())
	}
	if _, _, _, err := ImageDataURL(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Errorf("ImageDataURL failed: expected error for garbage input")
	}
}

func TestDataURL(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	url := EncodeDataURL(buf.Bytes())
	img, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("DecodeDataURL failed: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("DecodeDataURL failed: expected width 4, got %d", img.Bounds().Dx())
	}
	if _, err := DecodeDataURL("https://example.com/a.png"); err == nil {
		t.Errorf("DecodeDataURL failed: expected error for remote URL")
	}

	r := &Rasterizer{}
	data, err := r.Rasterize(board.Scene{Width: 40, Height: 40, Shapes: []shape.Shape{
		shape.NewImage("i", 10, 10, 20, 20, url),
	}})
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	if red, g, b := rgb(decode(t, data).At(20, 20)); red != 0 || g != 0 || b != 255 {
		t.Errorf("Image failed: expected blue at center, got %d %d %d", red, g, b)
	}
}

func TestRasterizeAllKinds(t *testing.T) {
	box := shape.Box{X: 5, Y: 5, Width: 30, Height: 30}
	scene := board.Scene{Width: 64, Height: 64, Shapes: []shape.Shape{
		shape.NewLine("l", []float64{0, 0, 10, 10, 20, 0}, "", 0),
		shape.NewLine("dot", []float64{40, 40}, "", 4),
		shape.NewCircle("c", box, shape.NoFill, "", 0),
		shape.NewStar("s", box, shape.NewFill("gold"), "", 0),
		shape.NewText("t", 2, 40, "hi", 12, ""),
		shape.NewImage("i", 30, 30, 10, 10, "https://example.com/x.png"),
	}}
	r := &Rasterizer{}
	if _, err := r.Rasterize(scene); err != nil {
		t.Errorf("Rasterize failed: %v", err)
	}
}
