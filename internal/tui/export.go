package tui

import (
	"fmt"
	"io"
	"os"

	"inkboard/internal/shape"
)

// WriteText writes the cell rendering of shapes as plain text, one grid row
// per line, with trailing blanks kept so columns line up.
func WriteText(w io.Writer, shapes []shape.Shape, cols, rows int) error {
	for _, line := range RenderGrid(shapes, "", cols, rows).Lines(false) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// GridSize returns the number of cells needed to show a canvas.
func GridSize(width, height float64) (cols, rows int) {
	c, r := ToCell(width, height)
	return c + 1, r + 1
}

// WriteTextFile writes the text rendering to filename. Write and close errors
// are both reported.
func WriteTextFile(filename string, shapes []shape.Shape, cols, rows int) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteText(file, shapes, cols, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
