package gfx

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/vovakirdan/term8/internal/core"
)

// face is the built-in glyph set used by print.
var face = basicfont.Face7x13

// GlyphHeight is the height of the text box drawn by Print.
var GlyphHeight = face.Metrics().Height.Ceil()

// Print draws text with the top of its glyph box at (x, y). There is no
// wrapping; glyphs falling off the screen are clipped by the surface.
func (a *API) Print(text string, x, y float64, c int) {
	sx, sy, ok := a.project(x, y)
	if !ok {
		return
	}

	d := font.Drawer{
		Dst:  a.screen.Image(),
		Src:  image.NewUniform(core.ColorIndex(c).RGBA()),
		Face: face,
		Dot:  fixed.P(sx, sy+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// TextWidth returns the advance of text in pixels.
func TextWidth(text string) int {
	return font.MeasureString(face, text).Ceil()
}
