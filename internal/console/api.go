package console

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/term8/internal/core"
	"github.com/vovakirdan/term8/internal/gfx"
	"github.com/vovakirdan/term8/internal/script"
)

// TimeBinding is the global holding seconds since the program started.
const TimeBinding = "t"

// BindingNames lists the globals a script sees, in injection order.
var BindingNames = []string{
	"cls", "camera", "rect", "line", "circ", "circfill", "pset", "print", "spr",
	"btn",
	"rnd", "flr", "abs", "sin", "cos",
	TimeBinding,
}

// env is the capability set one program instance is built with.
type env struct {
	g       *gfx.API
	buttons *core.Buttons
	rng     *rand.Rand
}

func (e *env) bindings() []script.Binding {
	return []script.Binding{
		{Name: "cls", Fn: e.cls},
		{Name: "camera", Fn: e.camera},
		{Name: "rect", Fn: e.rect},
		{Name: "line", Fn: e.line},
		{Name: "circ", Fn: e.circ},
		{Name: "circfill", Fn: e.circfill},
		{Name: "pset", Fn: e.pset},
		{Name: "print", Fn: e.print},
		{Name: "spr", Fn: e.spr},
		{Name: "btn", Fn: e.btn},
		{Name: "rnd", Fn: e.rnd},
		{Name: "flr", Fn: flr},
		{Name: "abs", Fn: abs},
		{Name: "sin", Fn: sin},
		{Name: "cos", Fn: cos},
		{Name: TimeBinding, Value: lua.LNumber(0)},
	}
}

// num reads argument n as a number. Numeric strings convert the way Lua
// arithmetic would; missing, nil or any other argument yields def.
func num(L *lua.LState, n int, def float64) float64 {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64); err == nil {
			return f
		}
	}
	return def
}

// colorArg reads a colour index. Non-finite values fall back to def.
func colorArg(L *lua.LState, n int, def int) int {
	c, ok := core.FloorInt(num(L, n, float64(def)))
	if !ok {
		return def
	}
	return c
}

func (e *env) cls(L *lua.LState) int {
	e.g.Cls(colorArg(L, 1, 0))
	return 0
}

func (e *env) camera(L *lua.LState) int {
	e.g.SetCamera(num(L, 1, 0), num(L, 2, 0))
	return 0
}

func (e *env) rect(L *lua.LState) int {
	e.g.Rect(num(L, 1, 0), num(L, 2, 0), num(L, 3, 0), num(L, 4, 0), colorArg(L, 5, 0))
	return 0
}

func (e *env) line(L *lua.LState) int {
	e.g.Line(num(L, 1, 0), num(L, 2, 0), num(L, 3, 0), num(L, 4, 0), colorArg(L, 5, 0))
	return 0
}

func (e *env) circ(L *lua.LState) int {
	e.g.Circ(num(L, 1, 0), num(L, 2, 0), num(L, 3, 0), colorArg(L, 4, 0))
	return 0
}

func (e *env) circfill(L *lua.LState) int {
	e.g.Circfill(num(L, 1, 0), num(L, 2, 0), num(L, 3, 0), colorArg(L, 4, 0))
	return 0
}

func (e *env) pset(L *lua.LState) int {
	e.g.Pset(num(L, 1, 0), num(L, 2, 0), colorArg(L, 3, 0))
	return 0
}

func (e *env) print(L *lua.LState) int {
	text := L.Get(1).String()
	e.g.Print(text, num(L, 2, 0), num(L, 3, 0), colorArg(L, 4, int(gfx.DefaultTextColor)))
	return 0
}

func (e *env) spr(L *lua.LState) int {
	e.g.Spr(num(L, 1, 0), num(L, 2, 0), num(L, 3, 0))
	return 0
}

func (e *env) btn(L *lua.LState) int {
	i, ok := core.FloorInt(num(L, 1, -1))
	L.Push(lua.LBool(ok && e.buttons.Pressed(i)))
	return 1
}

func (e *env) rnd(L *lua.LState) int {
	L.Push(lua.LNumber(e.rng.Float64() * num(L, 1, 1)))
	return 1
}

func flr(L *lua.LState) int {
	L.Push(lua.LNumber(math.Floor(num(L, 1, 0))))
	return 1
}

func abs(L *lua.LState) int {
	L.Push(lua.LNumber(math.Abs(num(L, 1, 0))))
	return 1
}

// sin and cos take a fraction of a full turn rather than radians.
func sin(L *lua.LState) int {
	L.Push(lua.LNumber(math.Sin(num(L, 1, 0) * 2 * math.Pi)))
	return 1
}

func cos(L *lua.LState) int {
	L.Push(lua.LNumber(math.Cos(num(L, 1, 0) * 2 * math.Pi)))
	return 1
}
