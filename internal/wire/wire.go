// Package wire converts documents to and from their JSON storage blob.
//
// The current format stores every page:
//
//	{"pages":[{"id","name","elements":[...]}],"currentPageId","width","height"}
//
// Older blobs carry a single top-level "elements" list and load as one page.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"inkboard/internal/document"
	"inkboard/internal/shape"
)

// ErrMalformedDocument wraps every decoding and validation failure.
var ErrMalformedDocument = errors.New("malformed document")

// Blob is the top-level JSON object.
type Blob struct {
	Pages         []Page        `json:"pages"`
	CurrentPageID string        `json:"currentPageId,omitempty"`
	ActivePageID  string        `json:"activePageId,omitempty"`
	Elements      []ShapeRecord `json:"elements,omitempty"`
	Width         float64       `json:"width,omitempty"`
	Height        float64       `json:"height,omitempty"`
}

// Page is one page of a Blob.
type Page struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Elements []ShapeRecord `json:"elements"`
}

// ShapeRecord is the flat JSON form of every shape kind. Fields not used by a
// kind are omitted.
type ShapeRecord struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Draggable   *bool     `json:"draggable,omitempty"`
	X           *float64  `json:"x,omitempty"`
	Y           *float64  `json:"y,omitempty"`
	Width       *float64  `json:"width,omitempty"`
	Height      *float64  `json:"height,omitempty"`
	Points      []float64 `json:"points,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	Text        string    `json:"text,omitempty"`
	FontSize    float64   `json:"fontSize,omitempty"`
	Src         string    `json:"src,omitempty"`
}

func num(v float64) *float64 { return &v }

func flag(v bool) *bool { return &v }

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// ToWire maps a document onto its wire form.
func ToWire(doc *document.Document, size document.Size) Blob {
	b := Blob{
		Pages:         make([]Page, 0, len(doc.Pages)),
		CurrentPageID: doc.ActivePageID,
		Width:         size.Width,
		Height:        size.Height,
	}
	for _, p := range doc.Pages {
		wp := Page{ID: p.ID, Name: p.Name, Elements: make([]ShapeRecord, 0, len(p.Shapes))}
		for _, s := range p.Shapes {
			wp.Elements = append(wp.Elements, EncodeShape(s))
		}
		b.Pages = append(b.Pages, wp)
	}
	return b
}

// EncodeShape returns the record for one shape.
func EncodeShape(s shape.Shape) ShapeRecord {
	m := s.Meta()
	r := ShapeRecord{ID: m.ID, Type: string(s.Kind()), Draggable: flag(m.Draggable)}
	switch v := s.(type) {
	case shape.Line:
		r.Points = append([]float64{}, v.Points...)
		r.Stroke = v.Stroke
		r.StrokeWidth = v.StrokeWidth
	case shape.Text:
		r.X, r.Y = num(v.X), num(v.Y)
		r.Text = v.Content
		r.FontSize = v.FontSize
		r.Fill = v.Fill
	case shape.Image:
		r.X, r.Y = num(v.X), num(v.Y)
		r.Width, r.Height = num(v.Width), num(v.Height)
		r.Src = v.Src
	case shape.Rect:
		r.X, r.Y = num(v.X), num(v.Y)
		r.Width, r.Height = num(v.Width), num(v.Height)
		r.Fill, r.Stroke, r.StrokeWidth = v.Fill.String(), v.Stroke, v.StrokeWidth
	case shape.Circle:
		r.X, r.Y = num(v.X), num(v.Y)
		r.Width, r.Height = num(v.Width), num(v.Height)
		r.Fill, r.Stroke, r.StrokeWidth = v.Fill.String(), v.Stroke, v.StrokeWidth
	case shape.Star:
		r.X, r.Y = num(v.X), num(v.Y)
		r.Width, r.Height = num(v.Width), num(v.Height)
		r.Fill, r.Stroke, r.StrokeWidth = v.Fill.String(), v.Stroke, v.StrokeWidth
	}
	return r
}

// DecodeShape builds a shape from its record, applying constructor defaults.
// A record without an id gets a fresh one.
func DecodeShape(r ShapeRecord) (shape.Shape, error) {
	kind, err := shape.ParseKind(r.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	box := shape.Box{X: val(r.X), Y: val(r.Y), Width: val(r.Width), Height: val(r.Height)}

	var s shape.Shape
	switch kind {
	case shape.KindLine:
		if len(r.Points)%2 != 0 {
			return nil, fmt.Errorf("%w: line %q has an odd number of coordinates", ErrMalformedDocument, id)
		}
		s = shape.NewLine(id, r.Points, r.Stroke, r.StrokeWidth)
	case shape.KindText:
		s = shape.NewText(id, box.X, box.Y, r.Text, r.FontSize, r.Fill)
	case shape.KindImage:
		s = shape.NewImage(id, box.X, box.Y, box.Width, box.Height, r.Src)
	case shape.KindRect:
		s = shape.NewRect(id, box, shape.NewFill(r.Fill), r.Stroke, r.StrokeWidth)
	case shape.KindCircle:
		s = shape.NewCircle(id, box, shape.NewFill(r.Fill), r.Stroke, r.StrokeWidth)
	case shape.KindStar:
		s = shape.NewStar(id, box, shape.NewFill(r.Fill), r.Stroke, r.StrokeWidth)
	}
	if r.Draggable != nil {
		s = shape.WithBase(s, shape.Base{ID: id, Draggable: *r.Draggable})
	}
	return s, nil
}

// decodeShapes decodes one page of records. A shape whose id was already used
// on the page gets a fresh id, so every shape stays addressable.
func decodeShapes(records []ShapeRecord) ([]shape.Shape, error) {
	out := make([]shape.Shape, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		s, err := DecodeShape(r)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if m := s.Meta(); seen[m.ID] {
			m.ID = uuid.NewString()
			s = shape.WithBase(s, m)
		}
		seen[s.Meta().ID] = true
		out = append(out, s)
	}
	return out, nil
}

// FromWire rebuilds a document. A blob with pages is adopted as is; a legacy
// blob with only elements becomes a single page; anything else is malformed.
func FromWire(b Blob) (*document.Document, error) {
	switch {
	case b.Pages != nil:
		if len(b.Pages) == 0 {
			return nil, fmt.Errorf("%w: empty page list", ErrMalformedDocument)
		}
		doc := &document.Document{Pages: make([]document.Page, 0, len(b.Pages))}
		for i, wp := range b.Pages {
			shapes, err := decodeShapes(wp.Elements)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", i, err)
			}
			id := wp.ID
			if id == "" {
				id = uuid.NewString()
			}
			name := wp.Name
			if name == "" {
				name = fmt.Sprintf("Page %d", i+1)
			}
			doc.Pages = append(doc.Pages, document.Page{ID: id, Name: name, Shapes: shapes})
		}
		doc.ActivePageID = doc.Pages[0].ID
		for _, want := range []string{b.CurrentPageID, b.ActivePageID} {
			if want != "" && doc.Index(want) >= 0 {
				doc.ActivePageID = want
				break
			}
		}
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return doc, nil

	case b.Elements != nil:
		shapes, err := decodeShapes(b.Elements)
		if err != nil {
			return nil, err
		}
		doc := document.New(document.LegacyPageID, document.DefaultPageName)
		doc.Pages[0].Shapes = shapes
		return doc, nil
	}
	return nil, fmt.Errorf("%w: neither pages nor elements present", ErrMalformedDocument)
}

// Marshal encodes a document as indented JSON.
func Marshal(doc *document.Document, size document.Size) ([]byte, error) {
	return json.MarshalIndent(ToWire(doc, size), "", "  ")
}

// Unmarshal parses a blob. A missing canvas size falls back to the default; a
// size beyond document.MaxCanvasSide is malformed.
func Unmarshal(data []byte) (*document.Document, document.Size, error) {
	var b Blob
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, document.Size{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	doc, err := FromWire(b)
	if err != nil {
		return nil, document.Size{}, err
	}
	size := document.Size{Width: b.Width, Height: b.Height}
	if size.Width > document.MaxCanvasSide || size.Height > document.MaxCanvasSide {
		return nil, document.Size{}, fmt.Errorf("%w: canvas %gx%g exceeds %d", ErrMalformedDocument, size.Width, size.Height, document.MaxCanvasSide)
	}
	if !size.Valid() {
		size = document.DefaultSize
	}
	return doc, size, nil
}
