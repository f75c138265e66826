package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"inkboard/internal/shape"
)

// One terminal cell covers CellWidth x CellHeight canvas units.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

type cell struct {
	ch    rune
	color string
}

// Grid is a character raster of a page.
type Grid struct {
	cells [][]cell
	cols  int
	rows  int
}

// NewGrid returns a blank grid of at least one cell.
func NewGrid(cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	cells := make([][]cell, rows)
	for i := range cells {
		cells[i] = make([]cell, cols)
		for j := range cells[i] {
			cells[i][j] = cell{ch: ' '}
		}
	}
	return &Grid{cells: cells, cols: cols, rows: rows}
}

// maxCell bounds cell indices so far-off coordinates stay representable.
const maxCell = 1 << 20

// ToCell maps a canvas point to the cell containing it.
func ToCell(x, y float64) (int, int) {
	return cellIndex(x, CellWidth), cellIndex(y, CellHeight)
}

func cellIndex(v, size float64) int {
	f := math.Floor(v / size)
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Max(-maxCell, math.Min(maxCell, f)))
}

// ToCanvas maps a cell to the canvas point at its center.
func ToCanvas(col, row int) shape.Point {
	return shape.Point{X: float64(col)*CellWidth + CellWidth/2, Y: float64(row)*CellHeight + CellHeight/2}
}

func (g *Grid) set(col, row int, ch rune, color string) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.cells[row][col] = cell{ch: ch, color: color}
}

func (g *Grid) line(x1, y1, x2, y2 int, ch rune, color string) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy
	for {
		g.set(x1, y1, ch, color)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// segment draws the part of a canvas-space segment that falls on the grid.
func (g *Grid) segment(a, b shape.Point, ch rune, color string) {
	a, b, ok := clipSegment(a, b, g.extent())
	if !ok {
		return
	}
	c1, r1 := ToCell(a.X, a.Y)
	c2, r2 := ToCell(b.X, b.Y)
	g.line(c1, r1, c2, r2, ch, color)
}

// extent is the canvas area covered by the grid plus a one cell margin.
func (g *Grid) extent() shape.Box {
	return shape.Box{
		X:      -CellWidth,
		Y:      -CellHeight,
		Width:  float64(g.cols+2) * CellWidth,
		Height: float64(g.rows+2) * CellHeight,
	}
}

// clipSegment is Liang-Barsky clipping of a-b against box.
func clipSegment(a, b shape.Point, box shape.Box) (shape.Point, shape.Point, bool) {
	for _, v := range []float64{a.X, a.Y, b.X, b.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return a, b, false
		}
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X - box.X},
		{dx, box.X + box.Width - a.X},
		{-dy, a.Y - box.Y},
		{dy, box.Y + box.Height - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return shape.Point{X: a.X + t0*dx, Y: a.Y + t0*dy}, shape.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Cursor marks the cell under the pointer.
func (g *Grid) Cursor(col, row int) {
	g.set(col, row, '█', "")
}

// Draw paints one shape. Selected shapes are drawn with '#' strokes.
func (g *Grid) Draw(s shape.Shape, selected bool) {
	switch v := s.(type) {
	case shape.Line:
		ch := '•'
		if selected {
			ch = '#'
		}
		if len(v.Points) == 2 {
			c, r := ToCell(v.Points[0], v.Points[1])
			g.set(c, r, ch, v.Stroke)
			return
		}
		for i := 2; i+1 < len(v.Points); i += 2 {
			a := shape.Point{X: v.Points[i-2], Y: v.Points[i-1]}
			b := shape.Point{X: v.Points[i], Y: v.Points[i+1]}
			g.segment(a, b, ch, v.Stroke)
		}
	case shape.Rect:
		g.box(shape.Bounds(v), v.Fill, v.Stroke, selected, '+', '-', '|')
	case shape.Image:
		g.box(shape.Bounds(v), shape.NoFill, "", selected, '+', '=', '!')
		b := shape.Bounds(v)
		c, r := ToCell(b.Center().X, b.Center().Y)
		g.text(c-2, r, "image", "")
	case shape.Circle:
		g.ellipse(v, selected)
	case shape.Star:
		ch := '*'
		if selected {
			ch = '#'
		}
		verts := shape.StarVertices(v)
		for i := range verts {
			g.segment(verts[i], verts[(i+1)%len(verts)], ch, v.Stroke)
		}
	case shape.Text:
		c, r := ToCell(v.X, v.Y)
		content := v.Content
		if selected {
			g.set(c-1, r, '>', v.Fill)
		}
		g.text(c, r, content, v.Fill)
	}
}

func (g *Grid) text(col, row int, s, color string) {
	for i, line := range strings.Split(s, "\n") {
		x := col
		for _, ch := range line {
			g.set(x, row+i, ch, color)
			x++
		}
	}
}

func (g *Grid) box(b shape.Box, fill shape.Fill, stroke string, selected bool, corner, horizontal, vertical rune) {
	if selected {
		corner, horizontal, vertical = '#', '#', '#'
	}
	c1, r1 := ToCell(b.X, b.Y)
	c2, r2 := ToCell(b.X+b.Width, b.Y+b.Height)
	// Loops only visit cells on the grid.
	if fill.Valid {
		for r := max(r1+1, 0); r < min(r2, g.rows); r++ {
			for c := max(c1+1, 0); c < min(c2, g.cols); c++ {
				g.set(c, r, '░', fill.Color)
			}
		}
	}
	for c := max(c1, 0); c <= min(c2, g.cols-1); c++ {
		g.set(c, r1, horizontal, stroke)
		g.set(c, r2, horizontal, stroke)
	}
	for r := max(r1, 0); r <= min(r2, g.rows-1); r++ {
		g.set(c1, r, vertical, stroke)
		g.set(c2, r, vertical, stroke)
	}
	g.set(c1, r1, corner, stroke)
	g.set(c2, r1, corner, stroke)
	g.set(c1, r2, corner, stroke)
	g.set(c2, r2, corner, stroke)
}

// ellipse marks every visible cell the circle's outline passes through and,
// when filled, every visible cell whose center lies inside.
func (g *Grid) ellipse(v shape.Circle, selected bool) {
	ch := 'o'
	if selected {
		ch = '#'
	}
	radius := math.Min(v.Width, v.Height) / 2
	center := shape.Bounds(v).Center()
	if math.IsNaN(radius) || math.IsNaN(center.X) || math.IsNaN(center.Y) {
		return
	}
	c1, r1 := ToCell(center.X-radius, center.Y-radius)
	c2, r2 := ToCell(center.X+radius, center.Y+radius)
	for r := max(r1, 0); r <= min(r2, g.rows-1); r++ {
		y0, y1 := float64(r)*CellHeight, float64(r+1)*CellHeight
		for c := max(c1, 0); c <= min(c2, g.cols-1); c++ {
			x0, x1 := float64(c)*CellWidth, float64(c+1)*CellWidth
			near := math.Hypot(clamp(center.X, x0, x1)-center.X, clamp(center.Y, y0, y1)-center.Y)
			far := math.Hypot(math.Max(math.Abs(x0-center.X), math.Abs(x1-center.X)), math.Max(math.Abs(y0-center.Y), math.Abs(y1-center.Y)))
			switch {
			case near < radius && radius <= far:
				g.set(c, r, ch, v.Stroke)
			case v.Fill.Valid:
				if p := ToCanvas(c, r); math.Hypot(p.X-center.X, p.Y-center.Y) < radius {
					g.set(c, r, '░', v.Fill.Color)
				}
			}
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Lines returns the grid rows. With color set, runs of colored cells are
// wrapped in lipgloss foreground styles.
func (g *Grid) Lines(color bool) []string {
	out := make([]string, g.rows)
	for i, row := range g.cells {
		if !color {
			var b strings.Builder
			for _, c := range row {
				b.WriteRune(c.ch)
			}
			out[i] = b.String()
			continue
		}
		var b, run strings.Builder
		current := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(current)).Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			col := termColor(c)
			if col != current {
				flush()
				current = col
			}
			run.WriteRune(c.ch)
		}
		flush()
		out[i] = b.String()
	}
	return out
}

// termColor keeps only hex colors; black strokes use the terminal default.
func termColor(c cell) string {
	if c.ch == ' ' || !strings.HasPrefix(c.color, "#") || c.color == shape.DefaultStroke {
		return ""
	}
	return c.color
}

// RenderGrid draws shapes in order onto a cols x rows grid.
func RenderGrid(shapes []shape.Shape, selectedID string, cols, rows int) *Grid {
	g := NewGrid(cols, rows)
	for _, s := range shapes {
		g.Draw(s, selectedID != "" && s.Meta().ID == selectedID)
	}
	return g
}
