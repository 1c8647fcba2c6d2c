package script

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func instantiate(t *testing.T, src string, bindings ...Binding) *Program {
	t.Helper()
	chunk, err := Compile("test", src)
	require.NoError(t, err)
	prog, err := chunk.Instantiate(bindings)
	require.NoError(t, err)
	t.Cleanup(prog.Close)
	return prog
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("bad", "function _update(")
	require.Error(t, err)

	var scriptErr *Error
	require.True(t, errors.As(err, &scriptErr))
	require.NotEmpty(t, scriptErr.Message)
}

func TestCompileDoesNotRunSource(t *testing.T) {
	calls := 0
	chunk, err := Compile("side", "hit()")
	require.NoError(t, err)
	require.Equal(t, 0, calls)

	_, err = chunk.Instantiate([]Binding{{Name: "hit", Fn: func(L *lua.LState) int {
		calls++
		return 0
	}}})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestCallbacksAreOptional(t *testing.T) {
	prog := instantiate(t, "x = 1")
	require.False(t, prog.HasInit())
	require.False(t, prog.HasUpdate())
	require.False(t, prog.HasDraw())

	ctx := context.Background()
	require.NoError(t, prog.Init(ctx))
	require.NoError(t, prog.Update(ctx))
	require.NoError(t, prog.Draw(ctx))
}

func TestCallbacksRun(t *testing.T) {
	prog := instantiate(t, `
n = 0
function _init() n = 10 end
function _update() n = n + 1 end
function _draw() drawn = n end
`)
	ctx := context.Background()
	require.NoError(t, prog.Init(ctx))
	require.NoError(t, prog.Update(ctx))
	require.NoError(t, prog.Update(ctx))
	require.NoError(t, prog.Draw(ctx))

	require.Equal(t, lua.LNumber(12), prog.Global("n"))
	require.Equal(t, lua.LNumber(12), prog.Global("drawn"))
}

func TestNonFunctionCallback(t *testing.T) {
	chunk, err := Compile("cb", "_update = 5")
	require.NoError(t, err)

	_, err = chunk.Instantiate(nil)
	var scriptErr *Error
	require.True(t, errors.As(err, &scriptErr))
	require.Contains(t, scriptErr.Message, "_update")
}

func TestTopLevelError(t *testing.T) {
	chunk, err := Compile("top", `error("boom")`)
	require.NoError(t, err)

	_, err = chunk.Instantiate(nil)
	var scriptErr *Error
	require.True(t, errors.As(err, &scriptErr))
	require.Contains(t, scriptErr.Message, "boom")
}

func TestRuntimeErrorMessage(t *testing.T) {
	prog := instantiate(t, `function _update() error("kaput") end`)
	err := prog.Update(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "kaput")
	require.NotContains(t, err.Error(), "stack traceback")
}

func TestBindingsInOrder(t *testing.T) {
	prog := instantiate(t, `a = first() b = second`,
		Binding{Name: "first", Fn: func(L *lua.LState) int {
			L.Push(lua.LNumber(7))
			return 1
		}},
		Binding{Name: "second", Value: lua.LString("two")},
	)
	require.Equal(t, lua.LNumber(7), prog.Global("a"))
	require.Equal(t, lua.LString("two"), prog.Global("b"))
}

func TestBindingValidation(t *testing.T) {
	chunk, err := Compile("v", "")
	require.NoError(t, err)

	_, err = chunk.Instantiate([]Binding{{Name: ""}})
	require.Error(t, err)

	_, err = chunk.Instantiate([]Binding{{Name: "x"}, {Name: "x"}})
	require.Error(t, err)
}

func TestSandboxHidesHostLibraries(t *testing.T) {
	prog := instantiate(t, `
kinds = {}
for _, name in ipairs({"io", "os", "debug", "package", "require", "dofile", "loadfile", "load", "loadstring"}) do
  kinds[#kinds + 1] = type(_G[name])
end
result = table.concat(kinds, ",")
`)
	require.Equal(t, lua.LString("nil,nil,nil,nil,nil,nil,nil,nil,nil"), prog.Global("result"))
}

func TestSandboxKeepsPureLibraries(t *testing.T) {
	prog := instantiate(t, `
s = string.upper("ok") .. math.floor(2.5)
t = {}
table.insert(t, 1)
n = #t
`)
	require.Equal(t, lua.LString("OK2"), prog.Global("s"))
	require.Equal(t, lua.LNumber(1), prog.Global("n"))
}

func TestBindingPanicBecomesError(t *testing.T) {
	prog := instantiate(t, `function _draw() explode() end`,
		Binding{Name: "explode", Fn: func(L *lua.LState) int {
			panic("host failure")
		}},
	)
	err := prog.Draw(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "host failure")
}

func TestInstancesAreIndependent(t *testing.T) {
	chunk, err := Compile("shared", `count = 0 function _update() count = count + 1 end`)
	require.NoError(t, err)

	a, err := chunk.Instantiate(nil)
	require.NoError(t, err)
	defer a.Close()
	b, err := chunk.Instantiate(nil)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Update(context.Background()))
	require.Equal(t, lua.LNumber(1), a.Global("count"))
	require.Equal(t, lua.LNumber(0), b.Global("count"))
}

func TestDeadlineStopsRunawayLoop(t *testing.T) {
	prog := instantiate(t, `function _update() while true do end end`)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := prog.Update(ctx)
	require.Error(t, err)
}

func TestSetNumber(t *testing.T) {
	prog := instantiate(t, `function _update() seen = t end`)
	prog.SetNumber("t", 1.5)
	require.NoError(t, prog.Update(context.Background()))
	require.Equal(t, lua.LNumber(1.5), prog.Global("seen"))
}
