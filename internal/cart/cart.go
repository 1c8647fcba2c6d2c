// Package cart defines console cartridges: the script source and the sprite
// bank it draws from, plus their on-disk YAML form.
package cart

import (
	"github.com/vovakirdan/term8/internal/core"
)

// Sprite dimensions and bank size.
const (
	SpriteSize   = 8
	SpritePixels = SpriteSize * SpriteSize
	BankSize     = 16
)

// Sprite is an 8x8 grid of palette indices stored row-major.
// Pixel value 0 is transparent when blitted with spr.
type Sprite [SpritePixels]uint8

// Pixel returns the colour index at (x, y), or 0 outside the sprite.
func (s *Sprite) Pixel(x, y int) uint8 {
	if x < 0 || x >= SpriteSize || y < 0 || y >= SpriteSize {
		return 0
	}
	return s[y*SpriteSize+x]
}

// SetPixel stores a colour at (x, y). The colour is reduced into the
// palette range; coordinates outside the sprite are ignored.
func (s *Sprite) SetPixel(x, y, c int) {
	if x < 0 || x >= SpriteSize || y < 0 || y >= SpriteSize {
		return
	}
	s[y*SpriteSize+x] = uint8(core.ColorIndex(c))
}

// Empty reports whether every pixel is transparent.
func (s *Sprite) Empty() bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// SpriteFromInts builds a sprite from exactly 64 integers in [0,15].
// ok is false when the length or any value is out of range.
func SpriteFromInts(px []int) (s Sprite, ok bool) {
	if len(px) != SpritePixels {
		return Sprite{}, false
	}
	for i, v := range px {
		if v < 0 || v >= core.PaletteSize {
			return Sprite{}, false
		}
		s[i] = uint8(v)
	}
	return s, true
}

// SpriteBank is the fixed set of 16 sprites a cart ships with. The length is
// part of the type, so a bank can never hold more or fewer sprites.
type SpriteBank [BankSize]Sprite

// Sprite returns the sprite with the given id, resolved with a non-negative
// modulo so any integer selects a bank entry.
func (b *SpriteBank) Sprite(id int) *Sprite {
	return &b[core.Mod(id, BankSize)]
}

// Clone returns an independent copy of the bank.
func (b *SpriteBank) Clone() *SpriteBank {
	c := *b
	return &c
}

// Cart is a loadable program: source text plus sprite data.
type Cart struct {
	Name    string
	Author  string
	Code    string
	Sprites *SpriteBank
}

// New creates a cart with an empty sprite bank.
func New(name, code string) *Cart {
	return &Cart{
		Name:    name,
		Code:    code,
		Sprites: &SpriteBank{},
	}
}
