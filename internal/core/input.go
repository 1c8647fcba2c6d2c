package core

import "sync/atomic"

// Button identifies one of the six console buttons.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
)

// NumButtons is the number of latched input flags.
const NumButtons = 6

// String returns a human-readable name for the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	default:
		return "Unknown"
	}
}

// Valid reports whether the button index is one of the six buttons.
func (b Button) Valid() bool {
	return b >= 0 && b < NumButtons
}

// Buttons holds the latched state of the six buttons. Hosts flip flags on
// key press and release; scripts only read them. Each flag is an atomic so a
// key event applied from another goroutine is never observed half-written.
// The zero value has every button released.
type Buttons struct {
	flags [NumButtons]atomic.Bool
}

// NewButtons creates a button set with every button released.
func NewButtons() *Buttons {
	return &Buttons{}
}

// Press latches a button down. Invalid buttons are ignored.
func (b *Buttons) Press(btn Button) {
	if btn.Valid() {
		b.flags[btn].Store(true)
	}
}

// Release latches a button up. Invalid buttons are ignored.
func (b *Buttons) Release(btn Button) {
	if btn.Valid() {
		b.flags[btn].Store(false)
	}
}

// Pressed reports whether the button at index i is held.
// Any index outside [0,5] returns false.
func (b *Buttons) Pressed(i int) bool {
	if i < 0 || i >= NumButtons {
		return false
	}
	return b.flags[i].Load()
}

// Reset releases every button.
func (b *Buttons) Reset() {
	for i := range b.flags {
		b.flags[i].Store(false)
	}
}

// Snapshot returns the current state of all buttons in index order.
func (b *Buttons) Snapshot() [NumButtons]bool {
	var out [NumButtons]bool
	for i := range b.flags {
		out[i] = b.flags[i].Load()
	}
	return out
}
