// Package board is the drawing controller. A Board owns the document, the
// per-page undo history and the in-flight pointer gesture; every committed edit
// goes through it and lands in history exactly once.
//
// A Board is not safe for concurrent use.
package board

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"inkboard/internal/document"
	"inkboard/internal/history"
	"inkboard/internal/logger"
	"inkboard/internal/shape"
	"inkboard/internal/wire"
)

// ErrNoSelection is returned by edits that need a selected shape.
var ErrNoSelection = errors.New("nothing selected")

// MinShapeSize is the smallest drag that produces a shape. A box is rejected
// only when both sides are below it.
const MinShapeSize = 5.0

// DefaultText is used when the text prompt returns nothing.
const DefaultText = "Text"

// TextPrompt asks the user for a string and returns it. An empty result means
// the placeholder text is used.
type TextPrompt func(defaultValue string) string

// Scene is what a rasterizer draws: one page of shapes on a fixed canvas.
type Scene struct {
	Width, Height float64
	Shapes        []shape.Shape
}

// Rasterizer turns a scene into encoded image bytes.
type Rasterizer interface {
	Rasterize(scene Scene) ([]byte, error)
}

// Size is the canvas extent, shared with the document package.
type Size = document.Size

// Board is the editing controller for one document.
type Board struct {
	doc    *document.Document
	hist   *history.Store
	g      gesture
	style  Style
	size   Size
	prompt TextPrompt
	newID  func() string
	log    *logger.Logger

	historyLimit int
}

// Option configures a Board in New.
type Option func(*Board)

// WithTextPrompt sets the prompt asked for the content of new text shapes.
func WithTextPrompt(p TextPrompt) Option {
	return func(b *Board) { b.prompt = p }
}

// WithIDGenerator replaces the uuid generator used for pages and shapes.
func WithIDGenerator(f func() string) Option {
	return func(b *Board) { b.newID = f }
}

// WithLogger sets the board logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(b *Board) { b.log = l }
}

// WithStyle sets the initial drawing style.
func WithStyle(s Style) Option {
	return func(b *Board) { b.style = s }
}

// WithSize sets the canvas size used for export.
func WithSize(s Size) Option {
	return func(b *Board) { b.size = s }
}

// WithHistoryLimit caps snapshots per page; 0 keeps every snapshot.
func WithHistoryLimit(n int) Option {
	return func(b *Board) { b.historyLimit = n }
}

// New returns a board holding one blank page.
func New(opts ...Option) *Board {
	b := &Board{
		style: DefaultStyle(),
		size:  document.DefaultSize,
		newID: uuid.NewString,
		log:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.hist = history.New(b.historyLimit)
	b.doc = document.New(b.newID(), document.DefaultPageName)
	b.hist.Seed(b.doc.ActivePageID, nil)
	return b
}

// Size returns the canvas extent shared by every page.
func (b *Board) Size() Size {
	return b.size
}

// Style returns the style applied to newly drawn shapes.
func (b *Board) Style() Style {
	return b.style
}

// SetStyle changes the style of shapes drawn from now on.
func (b *Board) SetStyle(s Style) {
	b.style = s
}

// Document returns a deep copy of the document.
func (b *Board) Document() *document.Document {
	return b.doc.Clone()
}

// Pages returns deep copies of every page in order.
func (b *Board) Pages() []document.Page {
	out := make([]document.Page, len(b.doc.Pages))
	for i, p := range b.doc.Pages {
		out[i] = p.Clone()
	}
	return out
}

// ActivePage returns a copy of the active page.
func (b *Board) ActivePage() document.Page {
	return b.doc.Active().Clone()
}

// ActivePageID returns the id of the active page.
func (b *Board) ActivePageID() string {
	return b.doc.ActivePageID
}

// Shapes returns a copy of the committed shapes of the active page.
func (b *Board) Shapes() []shape.Shape {
	return shape.CloneAll(b.doc.Active().Shapes)
}

// Load replaces the document wholesale and starts a fresh history entry for
// every page.
func (b *Board) Load(doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	b.resetGesture()
	b.g.selectedID = ""
	b.doc = doc.Clone()
	b.hist.Reset()
	for _, p := range b.doc.Pages {
		b.hist.Seed(p.ID, p.Shapes)
	}
	b.log.Info("loaded %d page(s), %d shape(s)", len(b.doc.Pages), b.doc.ShapeCount())
	return nil
}

// LoadWire decodes a wire blob and loads it. On error the board is untouched.
func (b *Board) LoadWire(data []byte) error {
	doc, size, err := wire.Unmarshal(data)
	if err != nil {
		return err
	}
	if err := b.Load(doc); err != nil {
		return fmt.Errorf("%w: %v", wire.ErrMalformedDocument, err)
	}
	b.size = size
	return nil
}

// Wire encodes the current document.
func (b *Board) Wire() ([]byte, error) {
	return wire.Marshal(b.doc, b.size)
}

// AddPage appends a page, gives it an empty history and makes it active.
func (b *Board) AddPage(name string) string {
	b.Cancel()
	b.g.selectedID = ""
	p := b.doc.AddPage(b.newID(), name)
	id := p.ID
	b.hist.Seed(id, nil)
	b.doc.ActivePageID = id
	b.check()
	b.log.Debug("added page %s (%s)", id, p.Name)
	return id
}

// DeletePage removes a page and its history. A live drag is reverted first, so
// the page that becomes active never sees an uncommitted move.
func (b *Board) DeletePage(id string) error {
	if b.doc.Index(id) >= 0 && len(b.doc.Pages) > 1 {
		b.Cancel()
	}
	if err := b.doc.DeletePage(id); err != nil {
		return err
	}
	b.hist.Delete(id)
	b.dropStaleSelection()
	b.check()
	b.log.Debug("deleted page %s", id)
	return nil
}

// SelectPage makes id the active page, aborting any gesture and clearing
// the selection.
func (b *Board) SelectPage(id string) error {
	if id == b.doc.ActivePageID {
		return nil
	}
	if b.doc.Index(id) < 0 {
		return fmt.Errorf("select %q: %w", id, document.ErrPageNotFound)
	}
	b.Cancel()
	b.g.selectedID = ""
	return b.doc.SelectPage(id)
}

// RenamePage renames a page. Names are not recorded in history.
func (b *Board) RenamePage(id, name string) error {
	return b.doc.RenamePage(id, name)
}

// AddImage places an image on the active page and returns its id.
func (b *Board) AddImage(src string, x, y, width, height float64) string {
	b.Cancel()
	img := shape.NewImage(b.newID(), x, y, width, height, src)
	b.commit(append(b.Shapes(), img), "image")
	return img.ID
}

// FitSize scales a width x height image down, keeping its aspect ratio, until
// it fits within bounds. Images that already fit are returned as is.
func FitSize(width, height float64, bounds Size) (float64, float64) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	k := math.Min(1, math.Min(bounds.Width/width, bounds.Height/height))
	return width * k, height * k
}

// DeleteSelected removes the selected shape. It returns ErrNoSelection when
// nothing is selected.
func (b *Board) DeleteSelected() error {
	b.Cancel()
	p := b.doc.Active()
	i := shape.Index(p.Shapes, b.g.selectedID)
	if b.g.selectedID == "" || i < 0 {
		b.g.selectedID = ""
		return ErrNoSelection
	}
	shapes := b.Shapes()
	shapes = append(shapes[:i], shapes[i+1:]...)
	b.g.selectedID = ""
	b.commit(shapes, "delete")
	return nil
}

// Clear removes every shape from the active page.
func (b *Board) Clear() {
	b.Cancel()
	b.g.selectedID = ""
	b.commit([]shape.Shape{}, "clear")
}

// Undo restores the previous snapshot of the active page. It reports whether
// anything changed.
func (b *Board) Undo() bool {
	b.Cancel()
	p := b.doc.Active()
	shapes, ok := b.hist.Undo(p.ID)
	if !ok {
		return false
	}
	p.Shapes = shapes
	b.dropStaleSelection()
	return true
}

// Redo reapplies the next snapshot of the active page. It reports whether
// anything changed.
func (b *Board) Redo() bool {
	b.Cancel()
	p := b.doc.Active()
	shapes, ok := b.hist.Redo(p.ID)
	if !ok {
		return false
	}
	p.Shapes = shapes
	b.dropStaleSelection()
	return true
}

// CanUndo reports whether the active page has an earlier snapshot.
func (b *Board) CanUndo() bool {
	return b.hist.CanUndo(b.doc.ActivePageID)
}

// CanRedo reports whether the active page has a later snapshot.
func (b *Board) CanRedo() bool {
	return b.hist.CanRedo(b.doc.ActivePageID)
}

// HistoryLimit returns the per-page snapshot cap; 0 means unbounded.
func (b *Board) HistoryLimit() int {
	return b.hist.Limit()
}

// HistoryPosition returns the cursor and snapshot count of the active page.
func (b *Board) HistoryPosition() (cursor, length int) {
	id := b.doc.ActivePageID
	return b.hist.Cursor(id), b.hist.Len(id)
}

// Scene returns the committed shapes of the active page followed by the live
// preview, if any.
func (b *Board) Scene() []shape.Shape {
	shapes := b.Shapes()
	if live := b.livePreview(); live != nil {
		shapes = append(shapes, live)
	}
	return shapes
}

// Export rasterizes the committed shapes of the active page.
func (b *Board) Export(r Rasterizer) ([]byte, error) {
	return r.Rasterize(Scene{Width: b.size.Width, Height: b.size.Height, Shapes: b.Shapes()})
}

// commit replaces the active page's shapes and records one snapshot.
func (b *Board) commit(shapes []shape.Shape, what string) {
	p := b.doc.Active()
	p.Shapes = shapes
	b.hist.Commit(p.ID, p.Shapes)
	b.check()
	cursor, n := b.HistoryPosition()
	b.log.Debug("commit %s on %s: %d shape(s), history %d/%d", what, p.ID, len(shapes), cursor+1, n)
}

func (b *Board) dropStaleSelection() {
	if b.g.selectedID != "" && shape.Index(b.doc.Active().Shapes, b.g.selectedID) < 0 {
		b.g.selectedID = ""
	}
}

// check panics when an internal mutation broke the document invariants or left
// a page without a timeline.
func (b *Board) check() {
	if err := b.doc.Validate(); err != nil {
		panic(fmt.Sprintf("board: %v", err))
	}
	for _, p := range b.doc.Pages {
		if !b.hist.Has(p.ID) {
			panic(fmt.Sprintf("board: page %s has no history", p.ID))
		}
	}
}
