// Package paint parses the color strings stored on shapes.
package paint

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var named = map[string]color.RGBA{
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 128, 0, 255},
	"lime":    {0, 255, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"orange":  {255, 165, 0, 255},
	"purple":  {128, 0, 128, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
	"silver":  {192, 192, 192, 255},
	"navy":    {0, 0, 128, 255},
	"teal":    {0, 128, 128, 255},
	"maroon":  {128, 0, 0, 255},
	"olive":   {128, 128, 0, 255},
	"aqua":    {0, 255, 255, 255},
	"cyan":    {0, 255, 255, 255},
	"fuchsia": {255, 0, 255, 255},
	"magenta": {255, 0, 255, 255},
	"pink":    {255, 192, 203, 255},
}

var Transparent = color.RGBA{}

// Parse accepts #rgb, #rrggbb, #rrggbbaa, basic CSS color names and
// "transparent". It reports false for anything else.
func Parse(s string) (color.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return Transparent, true
	}
	if c, ok := named[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return nil, false
	}
	if len(s) == 9 {
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return nil, false
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return nil, false
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}, true
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}

// Or parses s and falls back to def when s is not a color.
func Or(s string, def color.Color) color.Color {
	if c, ok := Parse(s); ok {
		return c
	}
	return def
}

// RGB returns the 8-bit channels of c with alpha dropped.
func RGB(c color.Color) (r, g, b int) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return int(n.R), int(n.G), int(n.B)
}

// IsTransparent reports whether c has no coverage.
func IsTransparent(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a == 0
}
