package core

import (
	"image"
	"strings"
)

// Console screen dimensions in pixels.
const (
	ScreenWidth  = 128
	ScreenHeight = 128
)

// Screen is the 128x128 indexed-colour framebuffer scripts draw into.
// It is backed by an *image.Paletted so standard image tooling (font
// drawing, PNG encoding, scaling) can operate on it directly.
type Screen struct {
	img *image.Paletted
}

// NewScreen creates a screen cleared to colour 0.
func NewScreen() *Screen {
	return &Screen{
		img: image.NewPaletted(image.Rect(0, 0, ScreenWidth, ScreenHeight), Palette),
	}
}

// Width returns the screen width in pixels.
func (s *Screen) Width() int {
	return ScreenWidth
}

// Height returns the screen height in pixels.
func (s *Screen) Height() int {
	return ScreenHeight
}

// Bounds returns the drawable area as a Rect.
func (s *Screen) Bounds() Rect {
	return NewRect(0, 0, ScreenWidth, ScreenHeight)
}

// Image exposes the backing image. Writes through it are visible on screen.
func (s *Screen) Image() *image.Paletted {
	return s.img
}

// Clear fills the entire screen with the given colour.
func (s *Screen) Clear(c Color) {
	v := uint8(c % PaletteSize)
	for i := range s.img.Pix {
		s.img.Pix[i] = v
	}
}

// Set places a pixel at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, c Color) {
	if !s.Bounds().Contains(x, y) {
		return
	}
	s.img.Pix[y*s.img.Stride+x] = uint8(c % PaletteSize)
}

// Get returns the pixel at the given position.
// Returns colour 0 for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) Color {
	if !s.Bounds().Contains(x, y) {
		return ColorBlack
	}
	return Color(s.img.Pix[y*s.img.Stride+x])
}

// DrawRect fills a rectangular area, clipped to the screen.
func (s *Screen) DrawRect(r Rect, c Color) {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	v := uint8(c % PaletteSize)
	for y := r.Y; y < r.Bottom(); y++ {
		row := s.img.Pix[y*s.img.Stride : y*s.img.Stride+ScreenWidth]
		for x := r.X; x < r.Right(); x++ {
			row[x] = v
		}
	}
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (s *Screen) DrawHLine(x, y, length int, c Color) {
	s.DrawRect(NewRect(x, y, length, 1), c)
}

// DrawVLine draws a vertical line from (x, y) with the given length.
func (s *Screen) DrawVLine(x, y, length int, c Color) {
	s.DrawRect(NewRect(x, y, 1, length), c)
}

// CopyFrom overwrites this screen with the contents of another.
func (s *Screen) CopyFrom(other *Screen) {
	copy(s.img.Pix, other.img.Pix)
}

// String converts the screen to one hex digit per pixel, rows joined with
// newlines. Used for text screenshots and test fixtures.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(ScreenWidth*ScreenHeight + ScreenHeight)

	for y := 0; y < ScreenHeight; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(s.Row(y))
	}
	return sb.String()
}

// Row returns the specified row as hex digits.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= ScreenHeight {
		return strings.Repeat("0", ScreenWidth)
	}
	const digits = "0123456789abcdef"
	b := make([]byte, ScreenWidth)
	for x := range b {
		b[x] = digits[s.img.Pix[y*s.img.Stride+x]&0x0f]
	}
	return string(b)
}
