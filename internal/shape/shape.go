// Package shape defines the drawable primitives of a page.
//
// Shape is a sealed sum type: the only implementations are the value types in
// this package. Shapes are plain data; mutation happens by building a new value
// (see Move) so that a stored snapshot can never be changed through a live page.
package shape

import "fmt"

// Kind names a shape type as it appears in the wire format.
type Kind string

const (
	KindLine   Kind = "line"
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindStar   Kind = "star"
)

const (
	DefaultStrokeWidth = 2.0
	DefaultFontSize    = 20.0
	DefaultStroke      = "#000000"
	DefaultTextFill    = "#000000"
	Transparent        = "transparent"
)

// Shape is implemented by Line, Text, Image, Rect, Circle and Star.
type Shape interface {
	Kind() Kind
	Meta() Base
	sealed()
}

// Base carries the fields every shape has.
type Base struct {
	ID        string
	Draggable bool
}

// Fill is an optional fill color. The zero value means no fill.
type Fill struct {
	Color string
	Valid bool
}

var NoFill = Fill{}

// NewFill treats "" and "transparent" as no fill.
func NewFill(color string) Fill {
	if color == "" || color == Transparent {
		return NoFill
	}
	return Fill{Color: color, Valid: true}
}

// String returns the wire spelling of the fill.
func (f Fill) String() string {
	if !f.Valid {
		return Transparent
	}
	return f.Color
}

// Line is a polyline of flat x, y pairs.
type Line struct {
	Base
	Points      []float64 // flattened x,y pairs
	Stroke      string
	StrokeWidth float64
}

// Text is anchored at its top-left corner.
type Text struct {
	Base
	X, Y     float64
	Content  string
	FontSize float64
	Fill     string
}

// Image holds its pixels as a data URL.
type Image struct {
	Base
	X, Y          float64
	Width, Height float64
	Src           string
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Base
	X, Y          float64
	Width, Height float64
	Fill          Fill
	Stroke        string
	StrokeWidth   float64
}

// Circle is drawn inscribed in its box.
type Circle struct {
	Base
	X, Y          float64
	Width, Height float64
	Fill          Fill
	Stroke        string
	StrokeWidth   float64
}

// Star is a five-pointed star inscribed in its box.
type Star struct {
	Base
	X, Y          float64
	Width, Height float64
	Fill          Fill
	Stroke        string
	StrokeWidth   float64
}

func (Line) Kind() Kind   { return KindLine }
func (Text) Kind() Kind   { return KindText }
func (Image) Kind() Kind  { return KindImage }
func (Rect) Kind() Kind   { return KindRect }
func (Circle) Kind() Kind { return KindCircle }
func (Star) Kind() Kind   { return KindStar }

func (s Line) Meta() Base   { return s.Base }
func (s Text) Meta() Base   { return s.Base }
func (s Image) Meta() Base  { return s.Base }
func (s Rect) Meta() Base   { return s.Base }
func (s Circle) Meta() Base { return s.Base }
func (s Star) Meta() Base   { return s.Base }

func (Line) sealed()   {}
func (Text) sealed()   {}
func (Image) sealed()  {}
func (Rect) sealed()   {}
func (Circle) sealed() {}
func (Star) sealed()   {}

// ParseKind maps a wire type name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindLine, KindText, KindImage, KindRect, KindCircle, KindStar:
		return k, nil
	}
	return "", fmt.Errorf("unknown shape type %q", s)
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return DefaultStrokeWidth
	}
	return w
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// NewLine builds a committed stroke. Lines are never draggable.
func NewLine(id string, points []float64, stroke string, width float64) Line {
	pts := make([]float64, len(points))
	copy(pts, points)
	return Line{
		Base:        Base{ID: id},
		Points:      pts,
		Stroke:      orDefault(stroke, DefaultStroke),
		StrokeWidth: strokeWidth(width),
	}
}

// NewText returns a draggable text shape with defaults applied.
func NewText(id string, x, y float64, content string, fontSize float64, fill string) Text {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	return Text{
		Base:     Base{ID: id, Draggable: true},
		X:        x,
		Y:        y,
		Content:  content,
		FontSize: fontSize,
		Fill:     orDefault(fill, DefaultTextFill),
	}
}

// NewImage returns a draggable image shape.
func NewImage(id string, x, y, width, height float64, src string) Image {
	return Image{
		Base:   Base{ID: id, Draggable: true},
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Src:    src,
	}
}

// NewRect returns a draggable rectangle.
func NewRect(id string, box Box, fill Fill, stroke string, width float64) Rect {
	return Rect{
		Base:        Base{ID: id, Draggable: true},
		X:           box.X,
		Y:           box.Y,
		Width:       box.Width,
		Height:      box.Height,
		Fill:        fill,
		Stroke:      orDefault(stroke, DefaultStroke),
		StrokeWidth: strokeWidth(width),
	}
}

// NewCircle returns a draggable circle inscribed in box.
func NewCircle(id string, box Box, fill Fill, stroke string, width float64) Circle {
	return Circle{
		Base:        Base{ID: id, Draggable: true},
		X:           box.X,
		Y:           box.Y,
		Width:       box.Width,
		Height:      box.Height,
		Fill:        fill,
		Stroke:      orDefault(stroke, DefaultStroke),
		StrokeWidth: strokeWidth(width),
	}
}

// NewStar returns a draggable five-pointed star inscribed in box.
func NewStar(id string, box Box, fill Fill, stroke string, width float64) Star {
	return Star{
		Base:        Base{ID: id, Draggable: true},
		X:           box.X,
		Y:           box.Y,
		Width:       box.Width,
		Height:      box.Height,
		Fill:        fill,
		Stroke:      orDefault(stroke, DefaultStroke),
		StrokeWidth: strokeWidth(width),
	}
}

// WithBase returns s with its base fields replaced. Lines stay non-draggable.
func WithBase(s Shape, b Base) Shape {
	switch v := s.(type) {
	case Line:
		b.Draggable = false
		v.Base = b
		return v
	case Text:
		v.Base = b
		return v
	case Image:
		v.Base = b
		return v
	case Rect:
		v.Base = b
		return v
	case Circle:
		v.Base = b
		return v
	case Star:
		v.Base = b
		return v
	}
	panic(fmt.Sprintf("shape: unexpected type %T", s))
}
