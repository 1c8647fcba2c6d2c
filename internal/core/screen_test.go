package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen()

	if s.Width() != 128 {
		t.Errorf("Width() = %d, expected 128", s.Width())
	}
	if s.Height() != 128 {
		t.Errorf("Height() = %d, expected 128", s.Height())
	}

	// Check that it's initialized with colour 0
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ColorBlack {
				t.Fatalf("New screen should be black, got %d at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen()

	s.Set(5, 5, ColorRed)
	if s.Get(5, 5) != ColorRed {
		t.Errorf("Get(5, 5) = %d, expected %d", s.Get(5, 5), ColorRed)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, ColorRed)  // Should not panic
	s.Set(128, 0, ColorRed) // Should not panic
	s.Set(0, -1, ColorRed)  // Should not panic
	s.Set(0, 128, ColorRed) // Should not panic

	if s.Get(-1, 0) != ColorBlack {
		t.Error("Out of bounds Get should return colour 0")
	}
	if s.Get(128, 0) != ColorBlack {
		t.Error("Out of bounds Get should return colour 0")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen()
	s.Set(3, 3, ColorWhite)

	s.Clear(ColorDarkBlue)

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ColorDarkBlue {
				t.Fatalf("After Clear, expected %d at (%d, %d), got %d", ColorDarkBlue, x, y, s.Get(x, y))
			}
		}
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen()
	s.DrawRect(NewRect(2, 2, 3, 3), ColorGreen)

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if s.Get(x, y) != ColorGreen {
				t.Errorf("DrawRect: expected green at (%d, %d), got %d", x, y, s.Get(x, y))
			}
		}
	}

	if s.Get(1, 1) != ColorBlack {
		t.Error("DrawRect should not affect outside area")
	}
	if s.Get(5, 5) != ColorBlack {
		t.Error("DrawRect should not affect outside area")
	}
}

func TestScreenDrawRectClipped(t *testing.T) {
	s := NewScreen()
	s.DrawRect(NewRect(-5, 120, 10, 20), ColorPink) // Should not panic

	if s.Get(0, 127) != ColorPink || s.Get(4, 120) != ColorPink {
		t.Error("Visible part of a clipped rect should be drawn")
	}
	if s.Get(5, 120) != ColorBlack {
		t.Error("Pixels right of the clipped rect should be untouched")
	}
}

func TestScreenDrawHLine(t *testing.T) {
	s := NewScreen()
	s.DrawHLine(2, 3, 5, ColorYellow)

	for x := 2; x < 7; x++ {
		if s.Get(x, 3) != ColorYellow {
			t.Errorf("DrawHLine: expected yellow at (%d, 3)", x)
		}
	}
	if s.Get(7, 3) != ColorBlack {
		t.Error("DrawHLine drew past its length")
	}
}

func TestScreenDrawVLine(t *testing.T) {
	s := NewScreen()
	s.DrawVLine(3, 2, 5, ColorBlue)

	for y := 2; y < 7; y++ {
		if s.Get(3, y) != ColorBlue {
			t.Errorf("DrawVLine: expected blue at (3, %d)", y)
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen()
	s.Set(0, 0, ColorPeach)
	s.Set(1, 1, ColorRed)

	lines := strings.Split(s.String(), "\n")
	if len(lines) != 128 {
		t.Fatalf("String() should have 128 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "f0") {
		t.Errorf("Line 0 = %q..., expected prefix f0", lines[0][:4])
	}
	if !strings.HasPrefix(lines[1], "08") {
		t.Errorf("Line 1 = %q..., expected prefix 08", lines[1][:4])
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen()
	s.DrawHLine(0, 2, 4, ColorOrange)

	if got := s.Row(2); !strings.HasPrefix(got, "99990") {
		t.Errorf("Row(2) = %q, expected prefix 99990", got[:5])
	}
	if got := s.Row(-1); got != strings.Repeat("0", 128) {
		t.Error("Out of range Row should be all zeros")
	}
}

func TestScreenCopyFrom(t *testing.T) {
	a := NewScreen()
	b := NewScreen()
	a.Set(10, 10, ColorIndigo)

	b.CopyFrom(a)
	if b.Get(10, 10) != ColorIndigo {
		t.Error("CopyFrom should copy pixels")
	}

	a.Set(10, 10, ColorBlack)
	if b.Get(10, 10) != ColorIndigo {
		t.Error("CopyFrom should not alias the source")
	}
}

func TestScreenImageShared(t *testing.T) {
	s := NewScreen()
	s.Set(4, 7, ColorWhite)

	img := s.Image()
	if img.ColorIndexAt(4, 7) != uint8(ColorWhite) {
		t.Errorf("Image() should share pixels, got index %d", img.ColorIndexAt(4, 7))
	}
}
