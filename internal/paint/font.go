package paint

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

// MonoFace returns a Go Mono face at the given point size (72 DPI, so one
// point is one pixel).
func MonoFace(size float64) (font.Face, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = truetype.Parse(gomono.TTF)
	})
	if monoErr != nil {
		return nil, fmt.Errorf("failed to parse font: %v", monoErr)
	}
	if size <= 0 {
		size = 12
	}
	return truetype.NewFace(monoFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
