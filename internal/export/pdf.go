// Package export writes whole documents to vector formats.
package export

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"inkboard/internal/document"
	"inkboard/internal/paint"
	"inkboard/internal/render"
	"inkboard/internal/shape"
)

// PDF writes one PDF page per document page, sized to the canvas, with one
// canvas unit per point.
func PDF(w io.Writer, doc *document.Document, size document.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		size = document.DefaultSize
	}
	// gofpdf swaps the size for "L", so the exact size is always given as portrait.
	const orientation = "P"
	pageSize := gofpdf.SizeType{Wd: size.Width, Ht: size.Height}
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		Size:           pageSize,
	})
	p.SetCreator("inkboard", true)
	if active, ok := doc.Page(doc.ActivePageID); ok {
		p.SetTitle(active.Name, true)
	}
	p.SetAutoPageBreak(false, 0)
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	tr := p.UnicodeTranslatorFromDescriptor("")

	images := 0
	for _, page := range doc.Pages {
		p.AddPageFormat(orientation, pageSize)
		for _, s := range page.Shapes {
			switch v := s.(type) {
			case shape.Line:
				pdfLine(p, v)
			case shape.Rect:
				style := setPaint(p, v.Fill, v.Stroke, v.StrokeWidth)
				p.Rect(v.X, v.Y, v.Width, v.Height, style)
			case shape.Circle:
				style := setPaint(p, v.Fill, v.Stroke, v.StrokeWidth)
				c := shape.Bounds(v).Center()
				p.Circle(c.X, c.Y, math.Min(v.Width, v.Height)/2, style)
			case shape.Star:
				style := setPaint(p, v.Fill, v.Stroke, v.StrokeWidth)
				verts := shape.StarVertices(v)
				pts := make([]gofpdf.PointType, len(verts))
				for i, pt := range verts {
					pts[i] = gofpdf.PointType{X: pt.X, Y: pt.Y}
				}
				p.Polygon(pts, style)
			case shape.Text:
				r, g, b := paint.RGB(paint.Or(v.Fill, color.Black))
				p.SetTextColor(r, g, b)
				p.SetFont("Courier", "", v.FontSize)
				// Courier ascent is roughly 0.8 of the size; text is anchored top-left.
				p.Text(v.X, v.Y+v.FontSize*0.8, tr(v.Content))
			case shape.Image:
				images++
				pdfImage(p, v, fmt.Sprintf("img%d", images))
			}
		}
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDraw(p *gofpdf.Fpdf, stroke string, width float64) {
	r, g, b := paint.RGB(paint.Or(stroke, color.Black))
	p.SetDrawColor(r, g, b)
	p.SetLineWidth(width)
}

// setPaint sets draw and fill colors and returns the gofpdf style string.
func setPaint(p *gofpdf.Fpdf, fill shape.Fill, stroke string, width float64) string {
	setDraw(p, stroke, width)
	if !fill.Valid {
		return "D"
	}
	c, ok := paint.Parse(fill.Color)
	if !ok || paint.IsTransparent(c) {
		return "D"
	}
	r, g, b := paint.RGB(c)
	p.SetFillColor(r, g, b)
	return "FD"
}

func pdfLine(p *gofpdf.Fpdf, l shape.Line) {
	setDraw(p, l.Stroke, l.StrokeWidth)
	if len(l.Points) == 2 {
		r, g, b := paint.RGB(paint.Or(l.Stroke, color.Black))
		p.SetFillColor(r, g, b)
		p.Circle(l.Points[0], l.Points[1], l.StrokeWidth/2, "F")
		return
	}
	for i := 2; i+1 < len(l.Points); i += 2 {
		p.Line(l.Points[i-2], l.Points[i-1], l.Points[i], l.Points[i+1])
	}
}

func pdfImage(p *gofpdf.Fpdf, v shape.Image, name string) {
	img, err := render.DecodeDataURL(v.Src)
	if err != nil {
		p.SetDrawColor(156, 163, 175)
		p.SetLineWidth(1)
		p.Rect(v.X, v.Y, v.Width, v.Height, "D")
		p.Line(v.X, v.Y, v.X+v.Width, v.Y+v.Height)
		p.Line(v.X+v.Width, v.Y, v.X, v.Y+v.Height)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		p.SetError(fmt.Errorf("encode image %s: %w", v.ID, err))
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(name, opts, &buf)
	p.ImageOptions(name, v.X, v.Y, v.Width, v.Height, false, opts, 0, "")
}
