package board

import (
	"inkboard/internal/shape"
)

// gesture is the transient pointer state. None of it is serialized or stored
// in history.
type gesture struct {
	tool       Tool
	down       bool
	points     []float64
	origin     *shape.Point
	preview    shape.Shape
	selectedID string
	drag       *dragState
}

type dragState struct {
	id       string
	start    shape.Point
	original shape.Shape
	moved    bool
	deselect bool
}

// Tool returns the current tool.
func (b *Board) Tool() Tool {
	return b.g.tool
}

// SetTool switches tools, aborting any in-flight gesture. Leaving the select
// tool drops the selection.
func (b *Board) SetTool(t Tool) {
	b.Cancel()
	if t != ToolSelect {
		b.g.selectedID = ""
	}
	b.g.tool = t
}

// Selected returns the selected shape of the active page.
func (b *Board) Selected() (shape.Shape, bool) {
	if b.g.selectedID == "" {
		return nil, false
	}
	shapes := b.doc.Active().Shapes
	if i := shape.Index(shapes, b.g.selectedID); i >= 0 {
		return shape.Clone(shapes[i]), true
	}
	return nil, false
}

// SelectedID returns the id of the selected shape, or "".
func (b *Board) SelectedID() string {
	return b.g.selectedID
}

// Drawing reports whether a pointer gesture is in progress.
func (b *Board) Drawing() bool {
	return b.g.down
}

// PointerDown starts a gesture with the current tool. Text is placed
// immediately.
func (b *Board) PointerDown(p shape.Point) {
	switch b.g.tool {
	case ToolPen:
		b.g.down = true
		b.g.points = []float64{p.X, p.Y}
	case ToolRect, ToolCircle, ToolStar:
		b.g.down = true
		origin := p
		b.g.origin = &origin
		b.g.preview = nil
	case ToolText:
		b.insertText(p)
	case ToolSelect:
		b.selectDown(p)
	}
}

// PointerMove extends the gesture in progress.
func (b *Board) PointerMove(p shape.Point) {
	if !b.g.down {
		return
	}
	switch b.g.tool {
	case ToolPen:
		b.g.points = append(b.g.points, p.X, p.Y)
	case ToolRect, ToolCircle, ToolStar:
		b.g.preview = b.buildShape("preview", shape.NormalizeBox(*b.g.origin, p))
	case ToolSelect:
		b.selectMove(p)
	}
}

// PointerUp ends the gesture and commits its result, if any.
func (b *Board) PointerUp(p shape.Point) {
	if !b.g.down {
		return
	}
	switch b.g.tool {
	case ToolPen:
		if len(b.g.points) > 0 {
			line := shape.NewLine(b.newID(), b.g.points, b.style.Stroke, b.style.StrokeWidth)
			b.commit(append(b.Shapes(), line), "stroke")
		}
	case ToolRect, ToolCircle, ToolStar:
		box := shape.NormalizeBox(*b.g.origin, p)
		if box.Width < MinShapeSize && box.Height < MinShapeSize {
			b.log.Debug("discarded %s gesture: %.0fx%.0f", b.g.tool, box.Width, box.Height)
			break
		}
		b.commit(append(b.Shapes(), b.buildShape(b.newID(), box)), b.g.tool.String())
	case ToolSelect:
		b.selectUp()
	}
	b.resetGesture()
}

// Cancel aborts the in-flight gesture. A live drag is undone by restoring the
// page's committed snapshot.
func (b *Board) Cancel() {
	if d := b.g.drag; d != nil && d.moved {
		p := b.doc.Active()
		if shapes, ok := b.hist.Current(p.ID); ok {
			p.Shapes = shapes
		}
	}
	b.resetGesture()
}

func (b *Board) resetGesture() {
	b.g.down = false
	b.g.points = nil
	b.g.origin = nil
	b.g.preview = nil
	b.g.drag = nil
}

func (b *Board) livePreview() shape.Shape {
	switch {
	case b.g.tool == ToolPen && b.g.down && len(b.g.points) > 0:
		return shape.NewLine("preview", b.g.points, b.style.Stroke, b.style.StrokeWidth)
	case b.g.preview != nil:
		return shape.Clone(b.g.preview)
	}
	return nil
}

func (b *Board) buildShape(id string, box shape.Box) shape.Shape {
	s := b.style
	switch b.g.tool {
	case ToolCircle:
		return shape.NewCircle(id, box, s.Fill, s.Stroke, s.StrokeWidth)
	case ToolStar:
		return shape.NewStar(id, box, s.Fill, s.Stroke, s.StrokeWidth)
	default:
		return shape.NewRect(id, box, s.Fill, s.Stroke, s.StrokeWidth)
	}
}

func (b *Board) insertText(p shape.Point) {
	content := ""
	if b.prompt != nil {
		content = b.prompt(DefaultText)
	}
	if content == "" {
		content = DefaultText
	}
	txt := shape.NewText(b.newID(), p.X, p.Y, content, b.style.FontSize, b.style.TextColor)
	b.commit(append(b.Shapes(), txt), "text")
}

// hit returns the topmost shape under p.
func (b *Board) hit(p shape.Point) (shape.Shape, bool) {
	shapes := b.doc.Active().Shapes
	for i := len(shapes) - 1; i >= 0; i-- {
		if shape.Contains(shapes[i], p.X, p.Y) {
			return shapes[i], true
		}
	}
	return nil, false
}

func (b *Board) selectDown(p shape.Point) {
	s, ok := b.hit(p)
	if !ok {
		b.g.selectedID = ""
		return
	}
	id := s.Meta().ID
	b.g.down = true
	b.g.drag = &dragState{
		id:       id,
		start:    p,
		original: shape.Clone(s),
		deselect: id == b.g.selectedID,
	}
	b.g.selectedID = id
}

func (b *Board) selectMove(p shape.Point) {
	d := b.g.drag
	if d == nil || !d.original.Meta().Draggable {
		return
	}
	dx, dy := p.X-d.start.X, p.Y-d.start.Y
	shapes := b.doc.Active().Shapes
	i := shape.Index(shapes, d.id)
	if i < 0 {
		return
	}
	shapes[i] = shape.Move(d.original, dx, dy)
	d.moved = dx != 0 || dy != 0
}

func (b *Board) selectUp() {
	d := b.g.drag
	if d == nil {
		return
	}
	if d.moved {
		b.commit(b.Shapes(), "move")
		return
	}
	// A tap on the selected shape without moving toggles it off.
	if d.deselect {
		b.g.selectedID = ""
	}
}
