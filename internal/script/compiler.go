// Package script turns cart source text into the three lifecycle callbacks
// the console drives, running it inside a Lua sandbox whose only reachable
// host capabilities are the bindings passed in.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Names of the callbacks a script may define.
const (
	InitFunc   = "_init"
	UpdateFunc = "_update"
	DrawFunc   = "_draw"
)

// Error is returned when source cannot be turned into a program, either
// because it does not parse or because its top level raised an error.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Binding is one named capability injected as a global. Exactly one of Fn
// or Value is used: Fn when non-nil, otherwise Value.
type Binding struct {
	Name  string
	Fn    lua.LGFunction
	Value lua.LValue
}

// Chunk is parsed and compiled source, not yet bound to any host state.
// A chunk can be instantiated any number of times.
type Chunk struct {
	name  string
	proto *lua.FunctionProto
}

// Compile parses source. Syntax errors are reported as *Error carrying the
// parser's diagnostic; nothing in the source runs.
func Compile(name, source string) (*Chunk, error) {
	stmts, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	proto, err := lua.Compile(stmts, name)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return &Chunk{name: name, proto: proto}, nil
}

// Instantiate runs the chunk's top level in a fresh sandbox where the given
// bindings, in order, are set as globals, then collects the callbacks it
// defined. Binding names must be unique and non-empty.
func (c *Chunk) Instantiate(bindings []Binding) (*Program, error) {
	seen := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		if b.Name == "" {
			return nil, errors.New("script: binding with empty name")
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("script: duplicate binding %q", b.Name)
		}
		seen[b.Name] = true
	}

	L := newSandbox()
	for _, b := range bindings {
		if b.Fn != nil {
			L.SetGlobal(b.Name, L.NewFunction(b.Fn))
			continue
		}
		v := b.Value
		if v == nil {
			v = lua.LNil
		}
		L.SetGlobal(b.Name, v)
	}

	p := &Program{l: L}
	if err := p.protect(context.Background(), L.NewFunctionFromProto(c.proto)); err != nil {
		L.Close()
		return nil, &Error{Message: err.Error()}
	}

	var err error
	if p.init, err = lookup(L, InitFunc); err == nil {
		if p.update, err = lookup(L, UpdateFunc); err == nil {
			p.draw, err = lookup(L, DrawFunc)
		}
	}
	if err != nil {
		L.Close()
		return nil, err
	}
	return p, nil
}

// lookup returns the named global function, nil when it is undefined, or
// an *Error when the name holds something that cannot be called.
func lookup(L *lua.LState, name string) (*lua.LFunction, error) {
	switch v := L.GetGlobal(name).(type) {
	case *lua.LFunction:
		return v, nil
	case *lua.LNilType:
		return nil, nil
	default:
		return nil, &Error{Message: fmt.Sprintf("%s is not a function (got %s)", name, v.Type())}
	}
}

// Program is an instantiated script: its own Lua state plus the optional
// callbacks it defined. It is not safe for concurrent use.
type Program struct {
	l      *lua.LState
	init   *lua.LFunction
	update *lua.LFunction
	draw   *lua.LFunction
}

// HasInit, HasUpdate and HasDraw report which callbacks were defined.
func (p *Program) HasInit() bool   { return p.init != nil }
func (p *Program) HasUpdate() bool { return p.update != nil }
func (p *Program) HasDraw() bool   { return p.draw != nil }

// Init calls _init if the script defined it.
func (p *Program) Init(ctx context.Context) error {
	return p.call(ctx, p.init)
}

// Update calls _update if the script defined it.
func (p *Program) Update(ctx context.Context) error {
	return p.call(ctx, p.update)
}

// Draw calls _draw if the script defined it.
func (p *Program) Draw(ctx context.Context) error {
	return p.call(ctx, p.draw)
}

// SetNumber assigns a numeric global, used for the time binding.
func (p *Program) SetNumber(name string, v float64) {
	p.l.SetGlobal(name, lua.LNumber(v))
}

// Global returns the current value of a script global, for inspection only.
func (p *Program) Global(name string) lua.LValue {
	return p.l.GetGlobal(name)
}

// Close releases the Lua state. The program must not be used afterwards.
func (p *Program) Close() {
	if p.l != nil {
		p.l.Close()
		p.l = nil
	}
}

func (p *Program) call(ctx context.Context, fn *lua.LFunction) error {
	if fn == nil {
		return nil
	}
	return p.protect(ctx, fn)
}

// protect calls fn with no arguments, converting Lua errors and any Go panic
// raised by a binding into an error. A cancellable ctx bounds the call.
func (p *Program) protect(ctx context.Context, fn *lua.LFunction) (err error) {
	if ctx.Done() != nil {
		p.l.SetContext(ctx)
		defer p.l.RemoveContext()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	err = p.l.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	if err != nil {
		return errors.New(message(err))
	}
	return nil
}

// message extracts the script-facing diagnostic from a Lua error, dropping
// the Go-side stack trace.
func message(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		if apiErr.Cause != nil {
			return apiErr.Cause.Error()
		}
		if apiErr.Object != nil {
			return apiErr.Object.String()
		}
	}
	return err.Error()
}
