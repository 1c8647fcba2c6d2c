package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFrameClockFiresOnce(t *testing.T) {
	c := newFrameClock(60)
	require.Equal(t, time.Second/60, c.interval)
	require.Nil(t, c.cmd(), "no request, no tick")

	calls := 0
	c.Request(func() { calls++ })
	require.NotNil(t, c.cmd())
	require.Nil(t, c.cmd(), "a request is armed only once")

	require.True(t, c.fire(TickMsg{Gen: c.gen}))
	require.False(t, c.fire(TickMsg{Gen: c.gen}))
	require.Equal(t, 1, calls)
}

func TestFrameClockCancel(t *testing.T) {
	c := newFrameClock(30)
	calls := 0
	cancel := c.Request(func() { calls++ })
	gen := c.gen
	cancel()

	require.False(t, c.fire(TickMsg{Gen: gen}))
	require.Nil(t, c.cmd())
	require.Zero(t, calls)
}

func TestFrameClockStaleCancel(t *testing.T) {
	c := newFrameClock(60)
	calls := 0
	first := c.Request(func() {})
	c.Request(func() { calls++ })

	// Withdrawing an already replaced request leaves the new one alone.
	first()
	require.True(t, c.fire(TickMsg{Gen: c.gen}))
	require.Equal(t, 1, calls)
}

func TestFrameClocksDoNotShareGenerations(t *testing.T) {
	a, b := newFrameClock(60), newFrameClock(60)
	a.Request(func() {})
	b.Request(func() {})
	require.NotEqual(t, a.gen, b.gen)
}

func TestFrameClockDefaultRate(t *testing.T) {
	require.Equal(t, time.Second/60, newFrameClock(0).interval)
}
