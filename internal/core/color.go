package core

import "image/color"

// Color is an index into the fixed 16-entry console palette.
type Color uint8

// PaletteSize is the number of entries in the console palette.
const PaletteSize = 16

// Named palette entries (PICO-8 ordering).
const (
	ColorBlack Color = iota
	ColorDarkBlue
	ColorDarkPurple
	ColorDarkGreen
	ColorBrown
	ColorDarkGray
	ColorLightGray
	ColorWhite
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorBlue
	ColorIndigo
	ColorPink
	ColorPeach
)

// Transparent is the sprite pixel value skipped when blitting.
const Transparent = ColorBlack

// hexColors holds the palette as #RRGGBB strings for terminal renderers.
var hexColors = [PaletteSize]string{
	"#000000", "#1D2B53", "#7E2553", "#008751",
	"#AB5236", "#5F574F", "#C2C3C7", "#FFF1E8",
	"#FF004D", "#FFA300", "#FFEC27", "#00E436",
	"#29ADFF", "#83769C", "#FF77A8", "#FFCCAA",
}

// Palette is the console palette as a color.Palette so the screen can be
// backed by an *image.Paletted.
var Palette = func() color.Palette {
	p := make(color.Palette, PaletteSize)
	for i, h := range hexColors {
		p[i] = parseHex(h)
	}
	return p
}()

// ColorIndex resolves an arbitrary integer to a palette entry using a
// non-negative modulo, so -1 maps to 15 rather than an out-of-range value.
func ColorIndex(c int) Color {
	return Color(Mod(c, PaletteSize))
}

// Hex returns the #RRGGBB form of the colour.
func (c Color) Hex() string {
	return hexColors[c%PaletteSize]
}

// RGBA returns the palette entry for the colour.
func (c Color) RGBA() color.RGBA {
	return Palette[c%PaletteSize].(color.RGBA)
}

func parseHex(h string) color.RGBA {
	var v [3]uint8
	for i := range v {
		v[i] = hexNibble(h[1+i*2])<<4 | hexNibble(h[2+i*2])
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: 0xff}
}

func hexNibble(b byte) uint8 {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
