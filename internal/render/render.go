// Package render draws a full page scene to PNG.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"inkboard/internal/board"
	"inkboard/internal/document"
	"inkboard/internal/logger"
	"inkboard/internal/paint"
	"inkboard/internal/shape"
)

var placeholderColor = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}

// MaxPixels bounds each side of a rendered image.
const MaxPixels = document.MaxCanvasSide

// Rasterizer renders scenes with gg. The zero value renders on white at scale 1.
type Rasterizer struct {
	Background color.Color
	Scale      float64
	Log        *logger.Logger
}

var _ board.Rasterizer = (*Rasterizer)(nil)

func (r *Rasterizer) scale() float64 {
	if r.Scale <= 0 {
		return 1
	}
	return r.Scale
}

// Rasterize implements board.Rasterizer.
func (r *Rasterizer) Rasterize(scene board.Scene) ([]byte, error) {
	dc, err := r.Draw(scene)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw paints the scene onto a fresh context, shapes in list order.
func (r *Rasterizer) Draw(scene board.Scene) (*gg.Context, error) {
	if scene.Width <= 0 || scene.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %vx%v", scene.Width, scene.Height)
	}
	k := r.scale()
	w, h := math.Ceil(scene.Width*k), math.Ceil(scene.Height*k)
	if w > MaxPixels || h > MaxPixels {
		return nil, fmt.Errorf("canvas %vx%v at scale %v exceeds %d pixels per side", scene.Width, scene.Height, k, MaxPixels)
	}
	dc := gg.NewContext(int(w), int(h))
	bg := r.Background
	if bg == nil {
		bg = color.White
	}
	dc.SetColor(bg)
	dc.Clear()
	dc.Scale(k, k)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	for _, s := range scene.Shapes {
		if err := r.drawShape(dc, s); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

func (r *Rasterizer) drawShape(dc *gg.Context, s shape.Shape) error {
	switch v := s.(type) {
	case shape.Line:
		drawLine(dc, v)
	case shape.Rect:
		dc.DrawRectangle(v.X, v.Y, v.Width, v.Height)
		fillAndStroke(dc, v.Fill, v.Stroke, v.StrokeWidth)
	case shape.Circle:
		c := shape.Bounds(v).Center()
		dc.DrawCircle(c.X, c.Y, math.Min(v.Width, v.Height)/2)
		fillAndStroke(dc, v.Fill, v.Stroke, v.StrokeWidth)
	case shape.Star:
		for i, p := range shape.StarVertices(v) {
			if i == 0 {
				dc.MoveTo(p.X, p.Y)
			} else {
				dc.LineTo(p.X, p.Y)
			}
		}
		dc.ClosePath()
		fillAndStroke(dc, v.Fill, v.Stroke, v.StrokeWidth)
	case shape.Text:
		face, err := paint.MonoFace(v.FontSize)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.SetColor(paint.Or(v.Fill, color.Black))
		// Text is anchored at its top-left corner.
		dc.DrawStringAnchored(v.Content, v.X, v.Y, 0, 1)
	case shape.Image:
		r.drawImage(dc, v)
	}
	return nil
}

func drawLine(dc *gg.Context, l shape.Line) {
	dc.SetColor(paint.Or(l.Stroke, color.Black))
	dc.SetLineWidth(l.StrokeWidth)
	if len(l.Points) == 2 {
		dc.DrawCircle(l.Points[0], l.Points[1], l.StrokeWidth/2)
		dc.Fill()
		return
	}
	for i := 0; i+1 < len(l.Points); i += 2 {
		if i == 0 {
			dc.MoveTo(l.Points[i], l.Points[i+1])
		} else {
			dc.LineTo(l.Points[i], l.Points[i+1])
		}
	}
	dc.Stroke()
}

func fillAndStroke(dc *gg.Context, fill shape.Fill, stroke string, width float64) {
	if fill.Valid {
		if c, ok := paint.Parse(fill.Color); ok && !paint.IsTransparent(c) {
			dc.SetColor(c)
			dc.FillPreserve()
		}
	}
	dc.SetColor(paint.Or(stroke, color.Black))
	dc.SetLineWidth(width)
	dc.Stroke()
}

func (r *Rasterizer) drawImage(dc *gg.Context, v shape.Image) {
	img, err := DecodeDataURL(v.Src)
	if err != nil || v.Width <= 0 || v.Height <= 0 || v.Width > MaxPixels || v.Height > MaxPixels {
		if err != nil && r.Log != nil {
			r.Log.Debug("image %s drawn as placeholder: %v", v.ID, err)
		}
		drawPlaceholder(dc, v)
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(v.Width)), int(math.Ceil(v.Height))))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	dc.DrawImage(dst, int(math.Round(v.X)), int(math.Round(v.Y)))
}

func drawPlaceholder(dc *gg.Context, v shape.Image) {
	dc.SetColor(placeholderColor)
	dc.SetLineWidth(1)
	dc.DrawRectangle(v.X, v.Y, v.Width, v.Height)
	dc.Stroke()
	dc.DrawLine(v.X, v.Y, v.X+v.Width, v.Y+v.Height)
	dc.DrawLine(v.X+v.Width, v.Y, v.X, v.Y+v.Height)
	dc.Stroke()
}

// DecodeDataURL decodes a base64 "data:image/...;base64," URL.
func DecodeDataURL(src string) (image.Image, error) {
	if !strings.HasPrefix(src, "data:") {
		return nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data URL encoding")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// EncodeDataURL wraps PNG bytes in a data URL.
func EncodeDataURL(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}

// ImageDataURL decodes a PNG, JPEG or GIF and returns it as a PNG data URL
// along with its pixel size.
func ImageDataURL(r io.Reader) (src string, width, height int, err error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", 0, 0, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > MaxPixels || b.Dy() > MaxPixels {
		return "", 0, 0, fmt.Errorf("image %dx%d exceeds %d pixels per side", b.Dx(), b.Dy(), MaxPixels)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, 0, fmt.Errorf("encode png: %w", err)
	}
	return EncodeDataURL(buf.Bytes()), b.Dx(), b.Dy(), nil
}
