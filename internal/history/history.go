// Package history keeps an undo/redo timeline of shape-list snapshots per page.
package history

import "inkboard/internal/shape"

type entry struct {
	snapshots [][]shape.Shape
	cursor    int
}

// Store maps page ids to their timelines. Every snapshot going in or coming
// out is deep-copied, so callers may keep mutating their own lists.
type Store struct {
	entries map[string]*entry
	limit   int
}

// New returns an empty store. limit caps snapshots per page; 0 is unbounded.
func New(limit int) *Store {
	if limit < 0 {
		limit = 0
	}
	return &Store{entries: make(map[string]*entry), limit: limit}
}

// Limit returns the per-page snapshot cap.
func (s *Store) Limit() int {
	return s.limit
}

// Seed starts a fresh timeline for the page, replacing any existing one.
func (s *Store) Seed(pageID string, shapes []shape.Shape) {
	s.entries[pageID] = &entry{snapshots: [][]shape.Shape{shape.CloneAll(shapes)}}
}

// Commit drops every snapshot after the cursor, appends a copy of shapes and
// moves the cursor onto it. An unknown page is seeded instead.
func (s *Store) Commit(pageID string, shapes []shape.Shape) {
	e, ok := s.entries[pageID]
	if !ok {
		s.Seed(pageID, shapes)
		return
	}
	e.snapshots = append(e.snapshots[:e.cursor+1], shape.CloneAll(shapes))
	e.cursor++
	if s.limit > 0 && len(e.snapshots) > s.limit {
		drop := len(e.snapshots) - s.limit
		e.snapshots = append([][]shape.Shape(nil), e.snapshots[drop:]...)
		e.cursor -= drop
	}
}

// Undo steps back one snapshot and returns a copy of it. It reports false when
// already at the oldest snapshot.
func (s *Store) Undo(pageID string) ([]shape.Shape, bool) {
	e, ok := s.entries[pageID]
	if !ok || e.cursor == 0 {
		return nil, false
	}
	e.cursor--
	return shape.CloneAll(e.snapshots[e.cursor]), true
}

// Redo steps forward one snapshot and returns a copy of it. It reports false
// when already at the newest snapshot.
func (s *Store) Redo(pageID string) ([]shape.Shape, bool) {
	e, ok := s.entries[pageID]
	if !ok || e.cursor >= len(e.snapshots)-1 {
		return nil, false
	}
	e.cursor++
	return shape.CloneAll(e.snapshots[e.cursor]), true
}

// Current returns a copy of the snapshot under the cursor.
func (s *Store) Current(pageID string) ([]shape.Shape, bool) {
	e, ok := s.entries[pageID]
	if !ok {
		return nil, false
	}
	return shape.CloneAll(e.snapshots[e.cursor]), true
}

// CanUndo reports whether the cursor can move back.
func (s *Store) CanUndo(pageID string) bool {
	e, ok := s.entries[pageID]
	return ok && e.cursor > 0
}

// CanRedo reports whether the cursor can move forward.
func (s *Store) CanRedo(pageID string) bool {
	e, ok := s.entries[pageID]
	return ok && e.cursor < len(e.snapshots)-1
}

// Len returns the number of snapshots held for the page.
func (s *Store) Len(pageID string) int {
	if e, ok := s.entries[pageID]; ok {
		return len(e.snapshots)
	}
	return 0
}

// Cursor returns the index of the current snapshot, or -1 for unknown pages.
func (s *Store) Cursor(pageID string) int {
	if e, ok := s.entries[pageID]; ok {
		return e.cursor
	}
	return -1
}

// Has reports whether the page has a timeline.
func (s *Store) Has(pageID string) bool {
	_, ok := s.entries[pageID]
	return ok
}

// Delete drops the page's timeline.
func (s *Store) Delete(pageID string) {
	delete(s.entries, pageID)
}

// Reset drops every timeline.
func (s *Store) Reset() {
	s.entries = make(map[string]*entry)
}
