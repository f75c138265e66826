// Package document holds the page list of a drawing and the page lifecycle.
package document

import (
	"errors"
	"fmt"
	"strings"

	"inkboard/internal/shape"
)

const (
	DefaultPageName = "Page 1"
	LegacyPageID    = "page-1"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrLastPage     = errors.New("cannot delete the last page")
	ErrInvalidName  = errors.New("page name must not be blank")
	ErrDuplicateID  = errors.New("duplicate page id")

	ErrDuplicateShapeID = errors.New("duplicate shape id")
)

// Page is one independent canvas. Shapes are painted in slice order.
type Page struct {
	ID     string
	Name   string
	Shapes []shape.Shape
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	return Page{ID: p.ID, Name: p.Name, Shapes: shape.CloneAll(p.Shapes)}
}

// Document is an ordered list of pages with one of them active.
type Document struct {
	Pages        []Page
	ActivePageID string
}

// New returns a document with one blank active page.
func New(id, name string) *Document {
	if strings.TrimSpace(name) == "" {
		name = DefaultPageName
	}
	return &Document{
		Pages:        []Page{{ID: id, Name: name, Shapes: []shape.Shape{}}},
		ActivePageID: id,
	}
}

// Index returns the position of the page with the given id, or -1.
func (d *Document) Index(id string) int {
	for i := range d.Pages {
		if d.Pages[i].ID == id {
			return i
		}
	}
	return -1
}

// Page returns the page with the given id.
func (d *Document) Page(id string) (*Page, bool) {
	i := d.Index(id)
	if i < 0 {
		return nil, false
	}
	return &d.Pages[i], true
}

// Active returns the active page. It panics if the document is inconsistent.
func (d *Document) Active() *Page {
	p, ok := d.Page(d.ActivePageID)
	if !ok {
		panic(fmt.Sprintf("document: active page %q does not exist", d.ActivePageID))
	}
	return p
}

// AddPage appends a blank page. A blank name becomes "Page N".
func (d *Document) AddPage(id, name string) *Page {
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Page %d", len(d.Pages)+1)
	}
	d.Pages = append(d.Pages, Page{ID: id, Name: name, Shapes: []shape.Shape{}})
	return &d.Pages[len(d.Pages)-1]
}

// RenamePage sets a page name. A blank name is rejected.
func (d *Document) RenamePage(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	p, ok := d.Page(id)
	if !ok {
		return fmt.Errorf("rename %q: %w", id, ErrPageNotFound)
	}
	p.Name = name
	return nil
}

// DeletePage removes a page. The last remaining page cannot be deleted.
// Deleting the active page activates the page before it, or the new first page.
func (d *Document) DeletePage(id string) error {
	i := d.Index(id)
	if i < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrPageNotFound)
	}
	if len(d.Pages) <= 1 {
		return ErrLastPage
	}
	d.Pages = append(d.Pages[:i], d.Pages[i+1:]...)
	if d.ActivePageID == id {
		if i > 0 {
			i--
		}
		d.ActivePageID = d.Pages[i].ID
	}
	return nil
}

// SelectPage makes id the active page.
func (d *Document) SelectPage(id string) error {
	if d.Index(id) < 0 {
		return fmt.Errorf("select %q: %w", id, ErrPageNotFound)
	}
	d.ActivePageID = id
	return nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	pages := make([]Page, len(d.Pages))
	for i, p := range d.Pages {
		pages[i] = p.Clone()
	}
	return &Document{Pages: pages, ActivePageID: d.ActivePageID}
}

// Validate checks that the document has at least one page, that page ids are
// unique, that shape ids are unique within their page and that the active
// page exists.
func (d *Document) Validate() error {
	if len(d.Pages) == 0 {
		return errors.New("document has no pages")
	}
	seen := make(map[string]bool, len(d.Pages))
	for _, p := range d.Pages {
		if seen[p.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = true
		if err := checkShapeIDs(p); err != nil {
			return err
		}
	}
	if !seen[d.ActivePageID] {
		return fmt.Errorf("active page %q: %w", d.ActivePageID, ErrPageNotFound)
	}
	return nil
}

func checkShapeIDs(p Page) error {
	ids := make(map[string]bool, len(p.Shapes))
	for _, s := range p.Shapes {
		id := s.Meta().ID
		if ids[id] {
			return fmt.Errorf("page %q: %w: %q", p.ID, ErrDuplicateShapeID, id)
		}
		ids[id] = true
	}
	return nil
}

// ShapeCount returns the number of shapes across all pages.
func (d *Document) ShapeCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Shapes)
	}
	return n
}

// Size is the canvas extent shared by every page, in canvas units.
type Size struct {
	Width, Height float64
}

// DefaultSize is used when a blob or config does not give a canvas size.
var DefaultSize = Size{Width: 800, Height: 600}

// MaxCanvasSide bounds each canvas dimension.
const MaxCanvasSide = 10000

// Valid reports whether both dimensions are positive and within MaxCanvasSide.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 && s.Width <= MaxCanvasSide && s.Height <= MaxCanvasSide
}
