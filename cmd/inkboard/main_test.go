package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"inkboard/internal/config"
	"inkboard/internal/logger"
	"inkboard/internal/shape"
)

func TestResolve(t *testing.T) {
	cfg := config.Default()
	st, key := resolve(cfg, filepath.Join("boards", "sketch.json"))
	if st.Dir() != "boards" || key != "sketch" {
		t.Errorf("resolve failed: expected (boards, sketch), got (%s, %s)", st.Dir(), key)
	}

	cfg.SaveDirectory = "/tmp/inkboard"
	st, key = resolve(cfg, "sketch")
	if st.Dir() != "/tmp/inkboard" || key != "sketch" {
		t.Errorf("resolve failed: expected save directory, got (%s, %s)", st.Dir(), key)
	}
}

func TestSelectPages(t *testing.T) {
	b := blankBoard(config.Default(), logger.Discard(), 3)

	all, err := selectPages(b, "all")
	if err != nil || len(all) != 3 {
		t.Fatalf("selectPages(all) failed: expected 3 pages, got %v (%v)", all, err)
	}
	one, err := selectPages(b, "2")
	if err != nil || len(one) != 1 || one[0] != 2 {
		t.Errorf("selectPages(2) failed: expected [2], got %v (%v)", one, err)
	}
	byID, err := selectPages(b, b.Pages()[2].ID)
	if err != nil || len(byID) != 1 || byID[0] != 3 {
		t.Errorf("selectPages(id) failed: expected [3], got %v (%v)", byID, err)
	}
	if _, err := selectPages(b, "4"); err == nil {
		t.Errorf("selectPages(4) failed: expected out of range error")
	}
	if _, err := selectPages(b, "nope"); err == nil {
		t.Errorf("selectPages(nope) failed: expected not found error")
	}
}

func TestBlankBoard(t *testing.T) {
	b := blankBoard(config.Default(), logger.Discard(), 2)
	if len(b.Pages()) != 2 {
		t.Fatalf("blankBoard failed: expected 2 pages, got %d", len(b.Pages()))
	}
	if b.ActivePageID() != b.Pages()[0].ID {
		t.Errorf("blankBoard failed: expected first page active")
	}
	if b.Pages()[1].Name != "Page 2" {
		t.Errorf("blankBoard failed: expected Page 2, got %q", b.Pages()[1].Name)
	}
}

func TestPlaceImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1600, 300))); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "wide.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	b := blankBoard(config.Default(), logger.Discard(), 1)
	id, err := placeImage(b, path, 10, 20)
	if err != nil {
		t.Fatalf("placeImage failed: %v", err)
	}
	img, ok := b.Shapes()[0].(shape.Image)
	if !ok || img.ID != id {
		t.Fatalf("placeImage failed: expected image %s, got %+v", id, b.Shapes())
	}
	if img.X != 10 || img.Y != 20 || img.Width != 800 || img.Height != 150 {
		t.Errorf("placeImage failed: expected {10 20 800 150}, got {%v %v %v %v}", img.X, img.Y, img.Width, img.Height)
	}

	if _, err := placeImage(b, filepath.Join(t.TempDir(), "none.png"), 0, 0); err == nil {
		t.Errorf("placeImage failed: expected error for missing file")
	}
}
