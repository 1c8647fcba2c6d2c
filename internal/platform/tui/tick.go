// Package tui provides the Bubble Tea integration for term8.
// It handles the terminal UI loop, input mapping and cart orchestration.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/term8/internal/console"
)

// TickMsg is sent when a requested frame is due. Gen identifies the
// request; a TickMsg for a withdrawn request is ignored.
type TickMsg struct {
	Gen  uint64
	Time time.Time
}

// frameClock adapts tea.Tick to console.Vsync. Bubble Tea has no refresh
// callback, so a frame is a timer at the configured tick rate.
type frameClock struct {
	interval time.Duration
	gen      uint64
	pending  func()
	armed    bool // a tea.Tick for gen is in flight
}

// clockEpoch spreads the generations of successive clocks apart so a tick
// left over from a closed console never matches a new one.
var clockEpoch atomic.Uint64

func newFrameClock(tickRate int) *frameClock {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &frameClock{
		interval: time.Second / time.Duration(tickRate),
		gen:      clockEpoch.Add(1) << 32,
	}
}

// Request implements console.Vsync.
func (c *frameClock) Request(fn func()) console.Cancel {
	c.gen++
	c.pending = fn
	c.armed = false
	gen := c.gen
	return func() {
		if c.gen == gen && c.pending != nil {
			c.pending = nil
			c.gen++
		}
	}
}

// cmd returns the tick command for the pending request, once per request.
func (c *frameClock) cmd() tea.Cmd {
	if c.pending == nil || c.armed {
		return nil
	}
	c.armed = true
	return tickCmd(c.interval, c.gen)
}

// fire runs the pending request if msg belongs to it.
func (c *frameClock) fire(msg TickMsg) bool {
	if msg.Gen != c.gen || c.pending == nil {
		return false
	}
	fn := c.pending
	c.pending = nil
	fn()
	return true
}

// tickCmd returns a Bubble Tea command that sends one tick message after interval.
func tickCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}
