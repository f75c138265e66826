// Package thumbnail draws small, lossy previews of pages for page pickers.
// A preview shows at most four glyphs and a shape count; it is not a faithful
// render (see package render for that).
package thumbnail

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"inkboard/internal/document"
	"inkboard/internal/paint"
	"inkboard/internal/shape"
)

const (
	Width     = 120
	Height    = 90
	MaxGlyphs = 4
)

var Palette = []string{"#3b82f6", "#ef4444", "#10b981", "#f59e0b"}

var (
	emptyBackground = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	borderColor     = color.RGBA{0xd1, 0xd5, 0xdb, 0xff}
	labelColor      = color.RGBA{0x6b, 0x72, 0x80, 0xff}
)

const (
	glyphSize = 20.0
	glyphGap  = 8.0
	labelSize = 11.0
)

// Render returns the PNG preview of a page. Equal pages render to equal bytes.
func Render(page document.Page) ([]byte, error) {
	dc := gg.NewContext(Width, Height)
	face, err := paint.MonoFace(labelSize)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	if len(page.Shapes) == 0 {
		dc.SetColor(emptyBackground)
		dc.Clear()
		dc.SetColor(labelColor)
		dc.DrawStringAnchored("Empty page", Width/2, Height/2, 0.5, 0.5)
		return encode(dc)
	}

	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(borderColor)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, Width-1, Height-1)
	dc.Stroke()

	n := len(page.Shapes)
	if n > MaxGlyphs {
		n = MaxGlyphs
	}
	rowWidth := float64(n)*glyphSize + float64(n-1)*glyphGap
	x0 := (Width - rowWidth) / 2
	y := 22.0
	for i, s := range page.Shapes[:n] {
		dc.SetColor(paint.Or(Palette[i%len(Palette)], color.Black))
		drawGlyph(dc, s.Kind(), x0+float64(i)*(glyphSize+glyphGap), y)
	}

	dc.SetColor(labelColor)
	dc.DrawStringAnchored(Label(len(page.Shapes)), Width/2, Height-16, 0.5, 0.5)
	return encode(dc)
}

// Label is the caption under the glyphs.
func Label(n int) string {
	if n == 1 {
		return "1 shape"
	}
	return fmt.Sprintf("%d shapes", n)
}

func drawGlyph(dc *gg.Context, kind shape.Kind, x, y float64) {
	switch kind {
	case shape.KindCircle:
		dc.DrawCircle(x+glyphSize/2, y+glyphSize/2, glyphSize/2)
		dc.Fill()
	case shape.KindLine:
		dc.SetLineWidth(3)
		dc.SetLineCapRound()
		dc.DrawLine(x+2, y+glyphSize-2, x+glyphSize-2, y+2)
		dc.Stroke()
	default:
		dc.DrawRectangle(x, y, glyphSize, glyphSize)
		dc.Fill()
	}
}

func encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
