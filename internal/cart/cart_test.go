package cart

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/term8/internal/core"
)

const alienYAML = `
name: Alien
author: test
code: |
  function _draw() spr(0, 60, 60) end
sprites:
  0:
    - "00000000"
    - "00b00b00"
    - "0bbbbbb0"
    - "0b0bb0b0"
    - "0bbbbbb0"
    - "0bb77bb0"
    - "0bbbbbb0"
    - "08000080"
`

func TestParseCart(t *testing.T) {
	c, err := Parse([]byte(alienYAML))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if c.Name != "Alien" || c.Author != "test" {
		t.Errorf("unexpected metadata: %q by %q", c.Name, c.Author)
	}
	if !strings.Contains(c.Code, "spr(0, 60, 60)") {
		t.Errorf("code not preserved: %q", c.Code)
	}

	s := &c.Sprites[0]
	if s.Pixel(2, 1) != 11 {
		t.Errorf("antenna pixel = %d, expected 11", s.Pixel(2, 1))
	}
	if s.Pixel(3, 5) != 7 {
		t.Errorf("mouth pixel = %d, expected 7", s.Pixel(3, 5))
	}
	if s.Pixel(1, 7) != 8 {
		t.Errorf("foot pixel = %d, expected 8", s.Pixel(1, 7))
	}
	if s.Pixel(0, 0) != 0 {
		t.Error("corner should be transparent")
	}

	for id := 1; id < BankSize; id++ {
		if !c.Sprites[id].Empty() {
			t.Errorf("sprite %d should be blank", id)
		}
	}
}

func TestParseCartErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "name: [", "yaml unmarshal"},
		{"id out of range", "sprites:\n  16: []\n", "out of range"},
		{"negative id", "sprites:\n  -1: []\n", "out of range"},
		{"short sprite", "sprites:\n  0: [\"00000000\"]\n", "expected 8 rows"},
		{"bad digit", "sprites:\n  0: [\"0000000g\",\"00000000\",\"00000000\",\"00000000\",\"00000000\",\"00000000\",\"00000000\",\"00000000\"]\n", "invalid hex"},
		{"short row", "sprites:\n  0: [\"000\",\"00000000\",\"00000000\",\"00000000\",\"00000000\",\"00000000\",\"00000000\",\"00000000\"]\n", "expected 8 hex"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSaveLoadCart(t *testing.T) {
	c := New("Round Trip", "function _draw() cls(3) end\n")
	c.Sprites[4].SetPixel(1, 2, 9)
	c.Sprites[15].SetPixel(7, 7, -1)

	path := filepath.Join(t.TempDir(), "trip"+FileExtension)
	if err := Save(path, c); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if got.Name != c.Name || got.Code != c.Code {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if *got.Sprites != *c.Sprites {
		t.Error("sprite bank did not survive save/load")
	}
	if got.Sprites[15].Pixel(7, 7) != 15 {
		t.Errorf("SetPixel(-1) should store 15, got %d", got.Sprites[15].Pixel(7, 7))
	}
	if ids := SpriteIDs(got.Sprites); len(ids) != 2 || ids[0] != 4 || ids[1] != 15 {
		t.Errorf("SpriteIDs() = %v, expected [4 15]", ids)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestSpriteBankModulo(t *testing.T) {
	var b SpriteBank
	b[15].SetPixel(0, 0, 3)
	b[1].SetPixel(0, 0, 5)

	if b.Sprite(-1).Pixel(0, 0) != 3 {
		t.Error("Sprite(-1) should resolve to sprite 15")
	}
	if b.Sprite(17).Pixel(0, 0) != 5 {
		t.Error("Sprite(17) should resolve to sprite 1")
	}
}

func TestSpriteFromInts(t *testing.T) {
	px := make([]int, SpritePixels)
	px[9] = 15
	s, ok := SpriteFromInts(px)
	if !ok || s.Pixel(1, 1) != 15 {
		t.Fatalf("SpriteFromInts valid input: ok=%v pixel=%d", ok, s.Pixel(1, 1))
	}

	if _, ok := SpriteFromInts(px[:63]); ok {
		t.Error("63 values should be rejected")
	}
	px[0] = 16
	if _, ok := SpriteFromInts(px); ok {
		t.Error("value 16 should be rejected")
	}
}

func TestCloneBank(t *testing.T) {
	b := &SpriteBank{}
	c := b.Clone()
	c[0].SetPixel(0, 0, 7)
	if b[0].Pixel(0, 0) != 0 {
		t.Error("Clone should not share storage")
	}
	if b == c {
		t.Error("Clone should return a new pointer")
	}
}

func TestImportSprite(t *testing.T) {
	// 16x16 image: left half red, right half transparent, one white quadrant.
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	red := core.ColorRed.RGBA()
	white := core.ColorWhite.RGBA()
	for y := 0; y < 16; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, red)
		}
	}
	for y := 8; y < 16; y++ {
		for x := 8; x < 16; x++ {
			img.Set(x, y, white)
		}
	}
	img.Set(15, 0, color.RGBA{})

	s := ImportSprite(img)

	if s.Pixel(0, 0) != uint8(core.ColorRed) {
		t.Errorf("left half should be red, got %d", s.Pixel(0, 0))
	}
	if s.Pixel(6, 1) != 0 {
		t.Errorf("transparent area should be 0, got %d", s.Pixel(6, 1))
	}
	if s.Pixel(6, 6) != uint8(core.ColorWhite) {
		t.Errorf("white quadrant should be white, got %d", s.Pixel(6, 6))
	}
}
