package history

import (
	"testing"

	"inkboard/internal/shape"
)

func rect(id string, x float64) shape.Shape {
	return shape.NewRect(id, shape.Box{X: x, Y: 0, Width: 10, Height: 10}, shape.NoFill, "", 0)
}

func TestUndoRedoInverse(t *testing.T) {
	s := New(0)
	s0 := []shape.Shape{}
	s1 := []shape.Shape{rect("a", 0)}
	s2 := []shape.Shape{rect("a", 0), rect("b", 20)}

	s.Seed("p", s0)
	s.Commit("p", s1)
	s.Commit("p", s2)

	got, ok := s.Undo("p")
	if !ok || !shape.EqualAll(got, s1) {
		t.Errorf("Undo failed: expected %v, got %v", s1, got)
	}
	got, ok = s.Redo("p")
	if !ok || !shape.EqualAll(got, s2) {
		t.Errorf("Redo failed: expected %v, got %v", s2, got)
	}
}

func TestUndoAtStartIsNoop(t *testing.T) {
	s := New(0)
	s.Seed("p", nil)
	if _, ok := s.Undo("p"); ok {
		t.Errorf("Undo failed: expected no-op at index 0")
	}
	if s.Cursor("p") != 0 {
		t.Errorf("Cursor failed: expected 0, got %d", s.Cursor("p"))
	}
	if s.CanUndo("p") {
		t.Errorf("CanUndo failed: expected false")
	}
}

func TestRedoAtEndIsNoop(t *testing.T) {
	s := New(0)
	s.Seed("p", nil)
	s.Commit("p", []shape.Shape{rect("a", 0)})
	if _, ok := s.Redo("p"); ok {
		t.Errorf("Redo failed: expected no-op at newest snapshot")
	}
	if s.CanRedo("p") {
		t.Errorf("CanRedo failed: expected false")
	}
}

func TestCommitTruncatesRedo(t *testing.T) {
	s := New(0)
	s.Seed("p", nil)
	s.Commit("p", []shape.Shape{rect("a", 0)})
	s.Commit("p", []shape.Shape{rect("a", 0), rect("b", 20)})
	s.Undo("p")
	s.Undo("p")

	s.Commit("p", []shape.Shape{rect("c", 40)})
	if s.CanRedo("p") {
		t.Errorf("CanRedo failed: expected false after commit")
	}
	if s.Len("p") != 2 {
		t.Errorf("Len failed: expected 2, got %d", s.Len("p"))
	}
	if s.Cursor("p") != 1 {
		t.Errorf("Cursor failed: expected 1, got %d", s.Cursor("p"))
	}
}

func TestPagesAreIsolated(t *testing.T) {
	s := New(0)
	s.Seed("a", nil)
	s.Seed("b", nil)
	s.Commit("a", []shape.Shape{rect("x", 0)})

	if s.CanUndo("b") {
		t.Errorf("CanUndo(b) failed: commit on a leaked into b")
	}
	if _, ok := s.Undo("b"); ok {
		t.Errorf("Undo(b) failed: expected no-op")
	}
	if !s.CanUndo("a") {
		t.Errorf("CanUndo(a) failed: expected true")
	}
}

func TestCommitUnknownPageSeeds(t *testing.T) {
	s := New(0)
	s.Commit("new", []shape.Shape{rect("a", 0)})
	if s.Len("new") != 1 || s.Cursor("new") != 0 {
		t.Errorf("Commit failed: expected seeded entry, got len %d cursor %d", s.Len("new"), s.Cursor("new"))
	}
}

func TestSnapshotsAreCopied(t *testing.T) {
	s := New(0)
	pts := []float64{0, 0, 1, 1}
	list := []shape.Shape{shape.NewLine("l", pts, "", 0)}
	s.Seed("p", nil)
	s.Commit("p", list)
	list[0].(shape.Line).Points[0] = 50

	cur, _ := s.Current("p")
	if cur[0].(shape.Line).Points[0] != 0 {
		t.Errorf("Commit failed: stored snapshot aliases caller slice")
	}
}

func TestLimit(t *testing.T) {
	s := New(3)
	s.Seed("p", nil)
	for i := 0; i < 5; i++ {
		s.Commit("p", []shape.Shape{rect("a", float64(i))})
	}
	if s.Len("p") != 3 {
		t.Errorf("Len failed: expected 3, got %d", s.Len("p"))
	}
	if s.Cursor("p") != 2 {
		t.Errorf("Cursor failed: expected 2, got %d", s.Cursor("p"))
	}
	s.Undo("p")
	got, _ := s.Undo("p")
	if got[0].(shape.Rect).X != 2 {
		t.Errorf("Undo failed: expected oldest kept x=2, got %v", got[0].(shape.Rect).X)
	}
}

func TestDeleteAndReset(t *testing.T) {
	s := New(0)
	s.Seed("a", nil)
	s.Seed("b", nil)
	s.Delete("a")
	if s.Has("a") || !s.Has("b") {
		t.Errorf("Delete failed")
	}
	s.Reset()
	if s.Has("b") {
		t.Errorf("Reset failed")
	}
	if s.Cursor("b") != -1 {
		t.Errorf("Cursor failed: expected -1 for unknown page")
	}
}
