package state

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Swatch is one selectable palette entry.
type Swatch struct {
	Hex   string
	Color color.NRGBA
}

var swatchHex = []string{
	"#ffffff",
	"#2e2e2e", "#868e96", "#fa5252", "#e64980", "#be4bdb", "#7950f2", "#4c6ef5",
	"#228be6", "#15aabf", "#12b886", "#40c057", "#82c91e", "#fab005", "#fd7e14",
}

// Palette is the fixed, ordered swatch set.
var Palette = mustSwatches(swatchHex)

// DefaultSwatch is the active color before the user picks one.
func DefaultSwatch() Swatch { return Palette[0] }

// LookupSwatch finds a palette entry by hex value.
func LookupSwatch(hex string) (Swatch, bool) {
	hex = strings.ToLower(hex)
	for _, s := range Palette {
		if s.Hex == hex {
			return s, true
		}
	}
	return Swatch{}, false
}

// InPalette reports whether c is exactly one of the swatch colors.
func InPalette(c color.Color) bool {
	r, g, b, a := c.RGBA()
	for _, s := range Palette {
		sr, sg, sb, sa := s.Color.RGBA()
		if r == sr && g == sg && b == sb && a == sa {
			return true
		}
	}
	return false
}

func mustSwatches(hexes []string) []Swatch {
	out := make([]Swatch, 0, len(hexes))
	for _, h := range hexes {
		c, err := parseHex(h)
		if err != nil {
			panic(err)
		}
		out = append(out, Swatch{Hex: h, Color: c})
	}
	return out
}

func parseHex(h string) (color.NRGBA, error) {
	s := strings.TrimPrefix(h, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", h)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", h, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
