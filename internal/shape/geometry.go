package shape

import (
	"fmt"
	"math"
)

// Point is a position in canvas units.
type Point struct {
	X, Y float64
}

// Box is an axis-aligned rectangle.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// NormalizeBox returns the box spanned by two drag points: the top-left corner
// is the component-wise minimum and the size is the absolute difference.
func NormalizeBox(a, b Point) Box {
	return Box{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Contains reports whether (x, y) is inside b, edges included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// Inflate grows the box by d on every side.
func (b Box) Inflate(d float64) Box {
	return Box{X: b.X - d, Y: b.Y - d, Width: b.Width + 2*d, Height: b.Height + 2*d}
}

func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// textAdvance approximates glyph width as a fraction of the font size.
const textAdvance = 0.6

// hitSlop is the minimum pick distance around thin shapes.
const hitSlop = 4.0

// Bounds returns the axis-aligned bounding box of s.
func Bounds(s Shape) Box {
	switch v := s.(type) {
	case Line:
		if len(v.Points) < 2 {
			return Box{}
		}
		minX, minY := v.Points[0], v.Points[1]
		maxX, maxY := minX, minY
		for i := 2; i+1 < len(v.Points); i += 2 {
			minX = math.Min(minX, v.Points[i])
			maxX = math.Max(maxX, v.Points[i])
			minY = math.Min(minY, v.Points[i+1])
			maxY = math.Max(maxY, v.Points[i+1])
		}
		return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	case Text:
		return Box{X: v.X, Y: v.Y, Width: float64(len([]rune(v.Content))) * v.FontSize * textAdvance, Height: v.FontSize}
	case Image:
		return Box{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
	case Rect:
		return Box{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
	case Circle:
		return Box{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
	case Star:
		return Box{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
	}
	panic(fmt.Sprintf("shape: unexpected type %T", s))
}

// Contains reports whether (x, y) picks s.
func Contains(s Shape, x, y float64) bool {
	switch v := s.(type) {
	case Line:
		tol := math.Max(v.StrokeWidth/2, hitSlop)
		if len(v.Points) == 2 {
			return math.Hypot(x-v.Points[0], y-v.Points[1]) <= tol
		}
		for i := 0; i+3 < len(v.Points); i += 2 {
			if segmentDistance(x, y, v.Points[i], v.Points[i+1], v.Points[i+2], v.Points[i+3]) <= tol {
				return true
			}
		}
		return false
	case Circle:
		r := math.Min(v.Width, v.Height) / 2
		c := Bounds(v).Center()
		return math.Hypot(x-c.X, y-c.Y) <= r+math.Max(v.StrokeWidth/2, 1)
	default:
		b := Bounds(s)
		if b.Width < hitSlop || b.Height < hitSlop {
			b = b.Inflate(hitSlop)
		}
		return b.Contains(x, y)
	}
}

func segmentDistance(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-x1, py-y1)
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}

// Move returns a copy of s translated by (dx, dy).
func Move(s Shape, dx, dy float64) Shape {
	switch v := s.(type) {
	case Line:
		pts := make([]float64, len(v.Points))
		for i := 0; i+1 < len(v.Points); i += 2 {
			pts[i] = v.Points[i] + dx
			pts[i+1] = v.Points[i+1] + dy
		}
		v.Points = pts
		return v
	case Text:
		v.X += dx
		v.Y += dy
		return v
	case Image:
		v.X += dx
		v.Y += dy
		return v
	case Rect:
		v.X += dx
		v.Y += dy
		return v
	case Circle:
		v.X += dx
		v.Y += dy
		return v
	case Star:
		v.X += dx
		v.Y += dy
		return v
	}
	panic(fmt.Sprintf("shape: unexpected type %T", s))
}

const (
	starPoints     = 5
	starInnerRatio = 0.5
)

// StarRadii derives the outer and inner radius from the star's box.
func StarRadii(s Star) (outer, inner float64) {
	outer = math.Min(s.Width, s.Height) / 2
	return outer, outer * starInnerRatio
}

// StarVertices returns the ten outline vertices of s, alternating outer and
// inner, starting with the outer vertex pointing straight up.
func StarVertices(s Star) []Point {
	outer, inner := StarRadii(s)
	c := Bounds(s).Center()
	pts := make([]Point, 0, starPoints*2)
	for i := 0; i < starPoints*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := -math.Pi/2 + float64(i)*math.Pi/starPoints
		pts = append(pts, Point{X: c.X + r*math.Cos(angle), Y: c.Y + r*math.Sin(angle)})
	}
	return pts
}
