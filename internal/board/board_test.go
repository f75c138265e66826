package board

import (
	"errors"
	"fmt"
	"testing"

	"inkboard/internal/document"
	"inkboard/internal/shape"
	"inkboard/internal/wire"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newBoard(opts ...Option) *Board {
	return New(append([]Option{WithIDGenerator(seqIDs())}, opts...)...)
}

func pt(x, y float64) shape.Point { return shape.Point{X: x, Y: y} }

func drawRect(b *Board, x1, y1, x2, y2 float64) {
	b.SetTool(ToolRect)
	b.PointerDown(pt(x1, y1))
	b.PointerMove(pt(x2, y2))
	b.PointerUp(pt(x2, y2))
}

func TestNewBoard(t *testing.T) {
	b := newBoard()
	if len(b.Pages()) != 1 {
		t.Fatalf("New failed: expected 1 page, got %d", len(b.Pages()))
	}
	if b.ActivePage().Name != document.DefaultPageName {
		t.Errorf("New failed: expected %q, got %q", document.DefaultPageName, b.ActivePage().Name)
	}
	if b.CanUndo() || b.CanRedo() {
		t.Errorf("New failed: fresh board should have no history")
	}
	if b.Tool() != ToolSelect {
		t.Errorf("New failed: expected select tool, got %v", b.Tool())
	}
}

func TestPenStroke(t *testing.T) {
	b := newBoard()
	b.SetTool(ToolPen)
	b.PointerDown(pt(0, 0))
	b.PointerMove(pt(5, 5))
	b.PointerMove(pt(10, 0))
	b.PointerUp(pt(10, 0))

	shapes := b.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("Pen failed: expected 1 shape, got %d", len(shapes))
	}
	l, ok := shapes[0].(shape.Line)
	if !ok {
		t.Fatalf("Pen failed: expected Line, got %T", shapes[0])
	}
	want := []float64{0, 0, 5, 5, 10, 0}
	if fmt.Sprint(l.Points) != fmt.Sprint(want) {
		t.Errorf("Pen failed: expected points %v, got %v", want, l.Points)
	}
	if l.Draggable {
		t.Errorf("Pen failed: committed line must not be draggable")
	}
	if cursor, n := b.HistoryPosition(); cursor != 1 || n != 2 {
		t.Errorf("Pen failed: expected history 1/2, got %d/%d", cursor, n)
	}
}

func TestPenTapCommitsPoint(t *testing.T) {
	b := newBoard()
	b.SetTool(ToolPen)
	b.PointerDown(pt(3, 4))
	b.PointerUp(pt(3, 4))
	shapes := b.Shapes()
	if len(shapes) != 1 || len(shapes[0].(shape.Line).Points) != 2 {
		t.Errorf("Pen tap failed: expected one single-point line, got %v", shapes)
	}
}

func TestPreviewIsNotCommitted(t *testing.T) {
	b := newBoard()
	b.SetTool(ToolCircle)
	b.PointerDown(pt(0, 0))
	for i := 1; i <= 20; i++ {
		b.PointerMove(pt(float64(i*3), float64(i*2)))
	}
	if _, n := b.HistoryPosition(); n != 1 {
		t.Errorf("Preview failed: moves committed history, len %d", n)
	}
	if len(b.Shapes()) != 0 {
		t.Errorf("Preview failed: preview leaked into page shapes")
	}
	if scene := b.Scene(); len(scene) != 1 || scene[0].Kind() != shape.KindCircle {
		t.Errorf("Preview failed: expected live circle in scene, got %v", scene)
	}

	b.PointerUp(pt(60, 40))
	if _, n := b.HistoryPosition(); n != 2 {
		t.Errorf("Preview failed: expected exactly one commit, history len %d", n)
	}
	if len(b.Scene()) != 1 {
		t.Errorf("Preview failed: preview survived pointer up")
	}
}

func TestDegenerateGestureDiscarded(t *testing.T) {
	b := newBoard()
	drawRect(b, 10, 10, 12, 11)
	if len(b.Shapes()) != 0 {
		t.Errorf("Degenerate failed: expected no shape, got %v", b.Shapes())
	}
	if b.CanUndo() {
		t.Errorf("Degenerate failed: expected no history entry")
	}
}

func TestThinShapeAccepted(t *testing.T) {
	b := newBoard()
	drawRect(b, 10, 10, 10, 20)
	shapes := b.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("Thin rect failed: expected 1 shape, got %d", len(shapes))
	}
	r := shapes[0].(shape.Rect)
	if r.X != 10 || r.Y != 10 || r.Width != 0 || r.Height != 10 {
		t.Errorf("Thin rect failed: expected (10,10,0,10), got (%v,%v,%v,%v)", r.X, r.Y, r.Width, r.Height)
	}
	if !r.Draggable || r.ID == "" {
		t.Errorf("Thin rect failed: expected draggable shape with id, got %+v", r.Base)
	}
}

func TestReverseDragNormalizes(t *testing.T) {
	b := newBoard()
	b.SetTool(ToolStar)
	b.PointerDown(pt(50, 60))
	b.PointerUp(pt(20, 10))
	s := b.Shapes()[0].(shape.Star)
	if s.X != 20 || s.Y != 10 || s.Width != 30 || s.Height != 50 {
		t.Errorf("Star failed: expected (20,10,30,50), got (%v,%v,%v,%v)", s.X, s.Y, s.Width, s.Height)
	}
}

func TestUndoRedo(t *testing.T) {
	b := newBoard()
	drawRect(b, 0, 0, 10, 10)
	drawRect(b, 20, 20, 40, 40)
	two := b.Shapes()

	if !b.Undo() {
		t.Fatalf("Undo failed: expected change")
	}
	if len(b.Shapes()) != 1 {
		t.Errorf("Undo failed: expected 1 shape, got %d", len(b.Shapes()))
	}
	if !b.Redo() {
		t.Fatalf("Redo failed: expected change")
	}
	if !shape.EqualAll(b.Shapes(), two) {
		t.Errorf("Redo failed: expected %v, got %v", two, b.Shapes())
	}
	if b.Redo() {
		t.Errorf("Redo failed: expected no-op at newest snapshot")
	}

	b.Undo()
	b.Undo()
	if b.Undo() {
		t.Errorf("Undo failed: expected no-op at first snapshot")
	}
	if len(b.Shapes()) != 0 {
		t.Errorf("Undo failed: expected empty page")
	}
}

func TestRedoTruncation(t *testing.T) {
	b := newBoard()
	drawRect(b, 0, 0, 10, 10)
	b.Undo()
	drawRect(b, 20, 20, 40, 40)
	if b.CanRedo() {
		t.Errorf("Redo truncation failed: expected CanRedo false")
	}
}

func TestPerPageIsolation(t *testing.T) {
	b := newBoard()
	first := b.ActivePageID()
	drawRect(b, 0, 0, 10, 10)

	second := b.AddPage("")
	if b.ActivePageID() != second {
		t.Fatalf("AddPage failed: new page not active")
	}
	if b.CanUndo() {
		t.Errorf("Isolation failed: new page can undo")
	}
	drawRect(b, 0, 0, 20, 20)
	b.Undo()

	if err := b.SelectPage(first); err != nil {
		t.Fatalf("SelectPage failed: %v", err)
	}
	if len(b.Shapes()) != 1 {
		t.Errorf("Isolation failed: undo on page 2 touched page 1")
	}
	if !b.CanUndo() || b.CanRedo() {
		t.Errorf("Isolation failed: page 1 history changed")
	}
}

func TestLastPageGuard(t *testing.T) {
	b := newBoard()
	drawRect(b, 0, 0, 10, 10)
	before := b.Document()
	err := b.DeletePage(b.ActivePageID())
	if !errors.Is(err, document.ErrLastPage) {
		t.Errorf("DeletePage failed: expected ErrLastPage, got %v", err)
	}
	if fmt.Sprintf("%#v", before) != fmt.Sprintf("%#v", b.Document()) {
		t.Errorf("DeletePage failed: document changed")
	}
}

func TestDeletePageDropsHistory(t *testing.T) {
	b := newBoard()
	first := b.ActivePageID()
	second := b.AddPage("Sketch")
	if err := b.DeletePage(second); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}
	if b.ActivePageID() != first {
		t.Errorf("DeletePage failed: expected %s active, got %s", first, b.ActivePageID())
	}
	if b.hist.Has(second) {
		t.Errorf("DeletePage failed: history entry kept")
	}
}

func TestDeletePageRevertsLiveDrag(t *testing.T) {
	b := newBoard()
	first := b.ActivePageID()
	drawRect(b, 10, 10, 30, 30)
	other := b.AddPage("")
	if err := b.SelectPage(first); err != nil {
		t.Fatalf("SelectPage failed: %v", err)
	}
	b.SetTool(ToolSelect)
	b.PointerDown(pt(20, 20))
	b.PointerMove(pt(120, 20))
	if err := b.DeletePage(other); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}
	b.PointerUp(pt(120, 20))

	if r := b.Shapes()[0].(shape.Rect); r.X != 10 {
		t.Errorf("DeletePage failed: expected x=10, got %v", r.X)
	}
	committed, _ := b.hist.Current(first)
	if !shape.EqualAll(b.Shapes(), committed) {
		t.Errorf("DeletePage failed: live shapes %v differ from history %v", b.Shapes(), committed)
	}
	if b.Drawing() {
		t.Errorf("DeletePage failed: gesture still active")
	}
}

func TestFailedDeleteKeepsDrag(t *testing.T) {
	b := newBoard()
	drawRect(b, 10, 10, 30, 30)
	b.SetTool(ToolSelect)
	b.PointerDown(pt(20, 20))
	b.PointerMove(pt(40, 20))
	if err := b.DeletePage(b.ActivePageID()); !errors.Is(err, document.ErrLastPage) {
		t.Fatalf("DeletePage failed: expected ErrLastPage, got %v", err)
	}
	b.PointerUp(pt(40, 20))
	if r := b.Shapes()[0].(shape.Rect); r.X != 30 {
		t.Errorf("Drag failed: expected x=30, got %v", r.X)
	}
}

func TestTextPrompt(t *testing.T) {
	var asked string
	b := newBoard(WithTextPrompt(func(def string) string {
		asked = def
		return ""
	}))
	b.SetTool(ToolText)
	b.PointerDown(pt(7, 8))
	if asked != DefaultText {
		t.Errorf("Text failed: expected prompt default %q, got %q", DefaultText, asked)
	}
	txt := b.Shapes()[0].(shape.Text)
	if txt.Content != DefaultText || txt.X != 7 || txt.Y != 8 {
		t.Errorf("Text failed: got %+v", txt)
	}

	b2 := newBoard(WithTextPrompt(func(string) string { return "idea" }))
	b2.SetTool(ToolText)
	b2.PointerDown(pt(0, 0))
	b2.PointerUp(pt(0, 0))
	if got := b2.Shapes()[0].(shape.Text).Content; got != "idea" {
		t.Errorf("Text failed: expected idea, got %q", got)
	}
	if _, n := b2.HistoryPosition(); n != 2 {
		t.Errorf("Text failed: expected one commit, history len %d", n)
	}
}

func TestSelectAndDrag(t *testing.T) {
	b := newBoard()
	drawRect(b, 10, 10, 30, 30)
	b.SetTool(ToolSelect)

	b.PointerDown(pt(20, 20))
	if b.SelectedID() == "" {
		t.Fatalf("Select failed: expected shape selected")
	}
	b.PointerMove(pt(25, 22))
	b.PointerMove(pt(30, 25))
	if _, n := b.HistoryPosition(); n != 2 {
		t.Errorf("Drag failed: live moves committed, history len %d", n)
	}
	b.PointerUp(pt(30, 25))

	r := b.Shapes()[0].(shape.Rect)
	if r.X != 20 || r.Y != 15 {
		t.Errorf("Drag failed: expected (20,15), got (%v,%v)", r.X, r.Y)
	}
	if _, n := b.HistoryPosition(); n != 3 {
		t.Errorf("Drag failed: expected one move commit, history len %d", n)
	}
	if b.SelectedID() == "" {
		t.Errorf("Drag failed: selection lost after move")
	}

	b.Undo()
	if r := b.Shapes()[0].(shape.Rect); r.X != 10 {
		t.Errorf("Undo move failed: expected x=10, got %v", r.X)
	}
}

func TestSelectToggle(t *testing.T) {
	b := newBoard()
	drawRect(b, 10, 10, 30, 30)
	b.SetTool(ToolSelect)

	b.PointerDown(pt(20, 20))
	b.PointerUp(pt(20, 20))
	if b.SelectedID() == "" {
		t.Fatalf("Select failed: expected selection")
	}
	b.PointerDown(pt(20, 20))
	b.PointerUp(pt(20, 20))
	if b.SelectedID() != "" {
		t.Errorf("Toggle failed: expected deselect on second tap")
	}

	b.PointerDown(pt(20, 20))
	b.PointerUp(pt(20, 20))
	b.PointerDown(pt(200, 200))
	b.PointerUp(pt(200, 200))
	if b.SelectedID() != "" {
		t.Errorf("Select failed: empty click should clear selection")
	}
	if _, n := b.HistoryPosition(); n != 2 {
		t.Errorf("Select failed: selection touched history, len %d", n)
	}
}

func TestLinesAreNotDragged(t *testing.T) {
	b := newBoard()
	b.SetTool(ToolPen)
	b.PointerDown(pt(0, 0))
	b.PointerMove(pt(100, 0))
	b.PointerUp(pt(100, 0))

	b.SetTool(ToolSelect)
	b.PointerDown(pt(50, 0))
	b.PointerMove(pt(50, 50))
	b.PointerUp(pt(50, 50))
	l := b.Shapes()[0].(shape.Line)
	if l.Points[1] != 0 {
		t.Errorf("Line drag failed: line moved to %v", l.Points)
	}
	if _, n := b.HistoryPosition(); n != 2 {
		t.Errorf("Line drag failed: unexpected commit, history len %d", n)
	}
}

func TestCancelRevertsDrag(t *testing.T) {
	b := newBoard()
	drawRect(b, 10, 10, 30, 30)
	b.SetTool(ToolSelect)
	b.PointerDown(pt(20, 20))
	b.PointerMove(pt(60, 60))
	b.Cancel()
	if r := b.Shapes()[0].(shape.Rect); r.X != 10 || r.Y != 10 {
		t.Errorf("Cancel failed: expected (10,10), got (%v,%v)", r.X, r.Y)
	}
	if _, n := b.HistoryPosition(); n != 2 {
		t.Errorf("Cancel failed: unexpected commit, history len %d", n)
	}
}

func TestDeleteSelected(t *testing.T) {
	b := newBoard()
	if err := b.DeleteSelected(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("DeleteSelected failed: expected ErrNoSelection, got %v", err)
	}
	drawRect(b, 10, 10, 30, 30)
	b.SetTool(ToolSelect)
	b.PointerDown(pt(20, 20))
	b.PointerUp(pt(20, 20))
	if err := b.DeleteSelected(); err != nil {
		t.Fatalf("DeleteSelected failed: %v", err)
	}
	if len(b.Shapes()) != 0 || b.SelectedID() != "" {
		t.Errorf("DeleteSelected failed: shape or selection remains")
	}
	b.Undo()
	if len(b.Shapes()) != 1 {
		t.Errorf("Undo delete failed: expected shape restored")
	}
}

func TestClearCommitsEmptyList(t *testing.T) {
	b := newBoard()
	drawRect(b, 0, 0, 10, 10)
	drawRect(b, 0, 0, 20, 20)
	b.Clear()
	if len(b.Shapes()) != 0 {
		t.Errorf("Clear failed: shapes remain")
	}
	if _, n := b.HistoryPosition(); n != 4 {
		t.Errorf("Clear failed: expected one commit, history len %d", n)
	}
	b.Undo()
	if len(b.Shapes()) != 2 {
		t.Errorf("Undo clear failed: expected 2 shapes, got %d", len(b.Shapes()))
	}
}

func TestUndoDropsStaleSelection(t *testing.T) {
	b := newBoard()
	drawRect(b, 10, 10, 30, 30)
	b.SetTool(ToolSelect)
	b.PointerDown(pt(20, 20))
	b.PointerUp(pt(20, 20))
	b.Undo()
	if _, ok := b.Selected(); ok || b.SelectedID() != "" {
		t.Errorf("Undo failed: selection of removed shape kept")
	}
}

func TestLegacyLoad(t *testing.T) {
	b := newBoard()
	err := b.LoadWire([]byte(`{"elements":[{"id":"e1","type":"rect","x":0,"y":0,"width":10,"height":10}]}`))
	if err != nil {
		t.Fatalf("LoadWire failed: %v", err)
	}
	pages := b.Pages()
	if len(pages) != 1 || pages[0].Name != "Page 1" || pages[0].ID != document.LegacyPageID {
		t.Errorf("LoadWire failed: expected single Page 1, got %+v", pages)
	}
	if cursor, n := b.HistoryPosition(); cursor != 0 || n != 1 {
		t.Errorf("LoadWire failed: expected history 0/1, got %d/%d", cursor, n)
	}
	if b.CanUndo() {
		t.Errorf("LoadWire failed: expected CanUndo false")
	}
}

func TestLoadWireErrorLeavesBoard(t *testing.T) {
	b := newBoard()
	drawRect(b, 0, 0, 10, 10)
	before, _ := b.Wire()
	err := b.LoadWire([]byte(`{"pages":[]}`))
	if !errors.Is(err, wire.ErrMalformedDocument) {
		t.Errorf("LoadWire failed: expected ErrMalformedDocument, got %v", err)
	}
	after, _ := b.Wire()
	if string(before) != string(after) {
		t.Errorf("LoadWire failed: board changed on error")
	}
	if !b.CanUndo() {
		t.Errorf("LoadWire failed: history reset on error")
	}
}

func TestDragWithRepeatedWireIDs(t *testing.T) {
	blob := `{"pages":[{"id":"p","elements":[
		{"id":"dup","type":"rect","x":0,"y":0,"width":100,"height":100},
		{"id":"dup","type":"circle","x":200,"y":200,"width":20,"height":20}]}]}`
	b := newBoard()
	if err := b.LoadWire([]byte(blob)); err != nil {
		t.Fatalf("LoadWire failed: %v", err)
	}
	b.SetTool(ToolSelect)
	b.PointerDown(pt(210, 210))
	b.PointerMove(pt(310, 210))
	b.PointerUp(pt(310, 210))

	shapes := b.Shapes()
	if len(shapes) != 2 {
		t.Fatalf("Drag failed: expected 2 shapes, got %d", len(shapes))
	}
	r, ok := shapes[0].(shape.Rect)
	if !ok || r.X != 0 || r.Y != 0 || r.Width != 100 {
		t.Errorf("Drag failed: expected rect untouched, got %+v", shapes[0])
	}
	c, ok := shapes[1].(shape.Circle)
	if !ok || c.X != 300 {
		t.Errorf("Drag failed: expected circle at x=300, got %+v", shapes[1])
	}
}

func TestWireRoundTripThroughBoard(t *testing.T) {
	b := newBoard()
	drawRect(b, 0, 0, 10, 10)
	b.AddPage("Two")
	b.SetTool(ToolPen)
	b.PointerDown(pt(1, 1))
	b.PointerMove(pt(2, 2))
	b.PointerUp(pt(2, 2))

	data, err := b.Wire()
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	other := newBoard()
	if err := other.LoadWire(data); err != nil {
		t.Fatalf("LoadWire failed: %v", err)
	}
	if fmt.Sprintf("%#v", b.Document()) != fmt.Sprintf("%#v", other.Document()) {
		t.Errorf("Round trip failed:\n%#v\n%#v", b.Document(), other.Document())
	}
}

type fakeRasterizer struct {
	scene Scene
}

func (f *fakeRasterizer) Rasterize(s Scene) ([]byte, error) {
	f.scene = s
	return []byte("png"), nil
}

func TestExport(t *testing.T) {
	b := newBoard(WithSize(Size{Width: 320, Height: 240}))
	drawRect(b, 0, 0, 10, 10)
	b.SetTool(ToolRect)
	b.PointerDown(pt(50, 50))
	b.PointerMove(pt(90, 90))

	r := &fakeRasterizer{}
	out, err := b.Export(r)
	if err != nil || string(out) != "png" {
		t.Fatalf("Export failed: %v %q", err, out)
	}
	if r.scene.Width != 320 || r.scene.Height != 240 {
		t.Errorf("Export failed: expected 320x240, got %vx%v", r.scene.Width, r.scene.Height)
	}
	if len(r.scene.Shapes) != 1 {
		t.Errorf("Export failed: expected committed shapes only, got %d", len(r.scene.Shapes))
	}
}

func TestAddImage(t *testing.T) {
	b := newBoard()
	id := b.AddImage("data:image/png;base64,AAAA", 5, 5, 40, 30)
	s, ok := b.Shapes()[0].(shape.Image)
	if !ok || s.ID != id || s.Width != 40 {
		t.Errorf("AddImage failed: got %+v", b.Shapes())
	}
	if !b.CanUndo() {
		t.Errorf("AddImage failed: expected history commit")
	}
}

func TestFitSize(t *testing.T) {
	bounds := Size{Width: 800, Height: 600}
	if w, h := FitSize(40, 30, bounds); w != 40 || h != 30 {
		t.Errorf("FitSize failed: expected 40x30, got %vx%v", w, h)
	}
	if w, h := FitSize(2000, 100, bounds); w != 800 || h != 40 {
		t.Errorf("FitSize failed: expected 800x40, got %vx%v", w, h)
	}
	if w, h := FitSize(100, 1200, bounds); w != 50 || h != 600 {
		t.Errorf("FitSize failed: expected 50x600, got %vx%v", w, h)
	}
}

func TestHistoryLimitOption(t *testing.T) {
	b := newBoard(WithHistoryLimit(2))
	for i := 0; i < 4; i++ {
		drawRect(b, 0, 0, float64(10+i), 10)
	}
	if _, n := b.HistoryPosition(); n != 2 {
		t.Errorf("History limit failed: expected 2 snapshots, got %d", n)
	}
	if b.HistoryLimit() != 2 {
		t.Errorf("HistoryLimit failed: expected 2, got %d", b.HistoryLimit())
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		got, err := ParseTool(tool.String())
		if err != nil || got != tool {
			t.Errorf("ParseTool(%q) failed: got %v, %v", tool, got, err)
		}
	}
	if _, err := ParseTool("lasso"); err == nil {
		t.Errorf("ParseTool failed: expected error")
	}
}
