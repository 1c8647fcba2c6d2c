package console_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/console"
	"github.com/vovakirdan/term8/internal/core"
)

func number(t *testing.T, h *harness, name string) float64 {
	t.Helper()
	v, ok := h.sched.Global(name).(lua.LNumber)
	require.True(t, ok, "%s is %v", name, h.sched.Global(name))
	return float64(v)
}

func TestMathBindings(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sched.Load(`
s = sin(0.25)
c = cos(0.5)
f = flr(-1.5)
a = abs(-3)
lo, hi = 1, 0
for i = 1, 200 do
  local r = rnd()
  if r < lo then lo = r end
  if r > hi then hi = r end
end
big = rnd(1000)`, &cart.SpriteBank{}))

	require.InDelta(t, 1.0, number(t, h, "s"), 1e-9)
	require.InDelta(t, -1.0, number(t, h, "c"), 1e-9)
	require.Equal(t, -2.0, number(t, h, "f"))
	require.Equal(t, 3.0, number(t, h, "a"))
	require.GreaterOrEqual(t, number(t, h, "lo"), 0.0)
	require.Less(t, number(t, h, "hi"), 1.0)
	big := number(t, h, "big")
	require.True(t, big >= 0 && big < 1000 && !math.IsNaN(big))
}

func TestBtnOutOfRange(t *testing.T) {
	h := newHarness(t)
	h.sched.Buttons().Press(core.ButtonLeft)
	h.sched.Buttons().Press(core.ButtonB)
	require.NoError(t, h.sched.Load(`
left = btn(0)
b = btn(5)
neg = btn(-1)
six = btn(6)
none = btn()
str = btn("x")
frac = btn(0.5)`, &cart.SpriteBank{}))

	require.Equal(t, lua.LTrue, h.sched.Global("left"))
	require.Equal(t, lua.LTrue, h.sched.Global("b"))
	for _, name := range []string{"neg", "six", "none", "str"} {
		require.Equal(t, lua.LFalse, h.sched.Global(name), name)
	}
	require.Equal(t, lua.LTrue, h.sched.Global("frac"))
}

func TestInputSurvivesRestart(t *testing.T) {
	h := newHarness(t)
	h.sched.Buttons().Press(core.ButtonUp)
	require.NoError(t, h.sched.Load(`a = btn(2)`, &cart.SpriteBank{}))
	require.NoError(t, h.sched.Load(`b = btn(2)`, &cart.SpriteBank{}))
	require.Equal(t, lua.LTrue, h.sched.Global("b"))
}

func TestDrawBindingDefaults(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sched.Load(`
function _draw()
  cls(12)
  cls()
  pset(1, 1)
  rect(10, 10, 2, 2, -8)
  print(42, 50, 50)
end`, &cart.SpriteBank{}))
	h.frames(1)

	screen := h.sched.Screen()
	require.Equal(t, core.ColorBlack, screen.Get(0, 0))
	require.Equal(t, core.ColorBlack, screen.Get(1, 1))
	require.Equal(t, core.ColorRed, screen.Get(11, 11))

	var white int
	for y := 50; y < 63; y++ {
		for x := 50; x < 64; x++ {
			if screen.Get(x, y) == core.ColorWhite {
				white++
			}
		}
	}
	require.Greater(t, white, 0)
}

func TestCameraBindingOffsetsDrawing(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sched.Load(`
function _draw()
  cls(0)
  camera(10, 20)
  rect(20, 30, 5, 5, 8)
  camera()
  pset(0, 0, 9)
end`, &cart.SpriteBank{}))
	h.frames(1)

	screen := h.sched.Screen()
	require.Equal(t, core.ColorRed, screen.Get(10, 10))
	require.Equal(t, core.ColorBlack, screen.Get(20, 30))
	require.Equal(t, core.ColorOrange, screen.Get(0, 0))
}

func TestSpriteEditsVisibleNextFrame(t *testing.T) {
	h := newHarness(t)
	bank := &cart.SpriteBank{}
	require.NoError(t, h.sched.Load(`function _draw() cls() spr(3, 0, 0) end`, bank))
	h.frames(1)
	require.Equal(t, core.ColorBlack, h.sched.Screen().Get(0, 0))

	bank[3].SetPixel(0, 0, int(core.ColorPink))
	h.frames(1)
	require.Equal(t, core.ColorPink, h.sched.Screen().Get(0, 0))
	require.Equal(t, 2, h.sched.Ticks())
}

func TestBindingNamesMatchInjection(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sched.Load(`
missing = {}
for _, name in ipairs({"cls", "camera", "rect", "line", "circ", "circfill", "pset", "print", "spr", "btn", "rnd", "flr", "abs", "sin", "cos"}) do
  if type(_G[name]) ~= "function" then missing[#missing + 1] = name end
end
count = #missing
tt = type(t)`, &cart.SpriteBank{}))

	require.Equal(t, lua.LNumber(0), h.sched.Global("count"))
	require.Equal(t, lua.LString("number"), h.sched.Global("tt"))
	require.Len(t, console.BindingNames, 16)
}

func TestDescribe(t *testing.T) {
	require.Equal(t, "", console.Describe(nil))
	require.Equal(t, "bad", console.Describe(&console.CompileError{Message: "bad"}))
	require.Equal(t, "oops", console.Describe(&console.InitError{Message: "oops"}))
	require.Equal(t, "Runtime Error: boom", console.Describe(&console.RuntimeError{Message: "boom"}))
}
