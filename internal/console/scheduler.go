// Package console runs cart programs: it compiles source into a sandboxed
// program, calls _init once, then calls _update and _draw once per display
// refresh until the program fails, is superseded or the host stops it.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/core"
	"github.com/vovakirdan/term8/internal/gfx"
	"github.com/vovakirdan/term8/internal/script"
)

// Options configures a Scheduler. Only Vsync is required.
type Options struct {
	Vsync   Vsync
	Screen  *core.Screen  // last completed frame; a new one when nil
	Buttons *core.Buttons // input shared with the host; a new set when nil
	Name    string        // chunk name used in diagnostics

	Seed        int64         // rnd seed; 0 seeds from the clock on every restart
	FrameBudget time.Duration // per-callback limit; 0 disables it

	Clock  func() time.Time // time source for t; time.Now when nil
	Logger *log.Logger
	OnHalt func(state core.RunState, err error) // called when a program fails
}

// Scheduler owns the lifecycle of one program at a time. It is driven from
// a single goroutine: Load, Restart, Stop and the Vsync callbacks must not
// run concurrently.
type Scheduler struct {
	opts    Options
	screen  *core.Screen // front: last completed frame
	back    *core.Screen // what the program draws to
	buttons *core.Buttons
	clock   func() time.Time
	log     *log.Logger

	code   string
	bank   *cart.SpriteBank
	loaded bool

	prog    *script.Program
	gfx     *gfx.API
	state   core.RunState
	err     error
	cancel  Cancel
	start   time.Time
	elapsed float64
	ticks   int
}

// New creates an idle scheduler.
func New(opts Options) *Scheduler {
	if opts.Vsync == nil {
		panic("console: Options.Vsync is required")
	}
	s := &Scheduler{
		opts:    opts,
		screen:  opts.Screen,
		buttons: opts.Buttons,
		clock:   opts.Clock,
		log:     opts.Logger,
		back:    core.NewScreen(),
		state:   core.StateIdle,
	}
	if s.screen == nil {
		s.screen = core.NewScreen()
	}
	if s.buttons == nil {
		s.buttons = core.NewButtons()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}
	if s.opts.Name == "" {
		s.opts.Name = "cart"
	}
	return s
}

// Screen returns the last completed frame. A frame whose update or draw
// failed is never shown.
func (s *Scheduler) Screen() *core.Screen { return s.screen }

// Buttons returns the input flags programs read.
func (s *Scheduler) Buttons() *core.Buttons { return s.buttons }

// State returns the current lifecycle state.
func (s *Scheduler) State() core.RunState { return s.state }

// Err returns the error that ended the current program, if any.
func (s *Scheduler) Err() error { return s.err }

// Ticks returns the number of completed update and draw pairs.
func (s *Scheduler) Ticks() int { return s.ticks }

// Elapsed returns the value of t seen by the most recent tick.
func (s *Scheduler) Elapsed() float64 { return s.elapsed }

// Camera returns the running program's camera offset.
func (s *Scheduler) Camera() (x, y int) {
	if s.gfx == nil {
		return 0, 0
	}
	return s.gfx.Camera()
}

// Global returns a global of the running program, or nil when none is loaded.
func (s *Scheduler) Global(name string) lua.LValue {
	if s.prog == nil {
		return lua.LNil
	}
	return s.prog.Global(name)
}

// Load makes code and bank the current program. When both are identical to
// the ones already loaded (same text, same bank pointer) nothing happens;
// otherwise the running program is torn down and a new one started. The
// returned error is the program's CompileError or InitError, if any.
func (s *Scheduler) Load(code string, bank *cart.SpriteBank) error {
	if s.loaded && code == s.code && bank == s.bank {
		return s.err
	}
	s.restart(code, bank)
	return s.err
}

// Restart starts the current program again from scratch.
func (s *Scheduler) Restart() error {
	if !s.loaded {
		return nil
	}
	s.restart(s.code, s.bank)
	return s.err
}

// Stop cancels any pending frame and releases the program. The scheduler
// returns to idle; a later Load starts afresh.
func (s *Scheduler) Stop() {
	s.teardown()
	s.loaded = false
	s.code, s.bank = "", nil
	s.err = nil
	s.setState(core.StateIdle)
}

func (s *Scheduler) teardown() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.prog != nil {
		s.prog.Close()
		s.prog = nil
	}
	s.gfx = nil
}

func (s *Scheduler) restart(code string, bank *cart.SpriteBank) {
	s.teardown()
	s.code, s.bank, s.loaded = code, bank, true
	s.err = nil
	s.ticks = 0
	s.elapsed = 0

	s.setState(core.StateCompiling)
	chunk, err := script.Compile(s.opts.Name, code)
	if err != nil {
		s.fail(core.StateCompileFailed, &CompileError{Message: err.Error()})
		return
	}

	s.screen.Clear(core.ColorBlack)
	s.back.Clear(core.ColorBlack)
	s.gfx = gfx.New(s.back, bank)
	e := &env{g: s.gfx, buttons: s.buttons, rng: s.newRand()}
	prog, err := chunk.Instantiate(e.bindings())
	if err != nil {
		s.fail(core.StateCompileFailed, &CompileError{Message: err.Error()})
		return
	}
	s.prog = prog
	s.setState(core.StateReady)

	s.start = s.clock()
	s.setState(core.StateInitializing)
	if err := s.call(prog.Init); err != nil {
		s.fail(core.StateInitFailed, &InitError{Message: err.Error()})
		return
	}

	s.screen.CopyFrom(s.back)
	s.setState(core.StateLooping)
	s.request()
}

func (s *Scheduler) newRand() *rand.Rand {
	seed := s.opts.Seed
	if seed == 0 {
		seed = s.clock().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// request asks the host for the next frame. The callback is bound to the
// program that asked for it and is ignored if that program is gone.
func (s *Scheduler) request() {
	prog := s.prog
	s.cancel = s.opts.Vsync.Request(func() {
		if s.prog != prog {
			return
		}
		s.cancel = nil
		s.tick()
	})
}

// tick runs one update and draw pair.
func (s *Scheduler) tick() {
	if s.state != core.StateLooping {
		return
	}
	s.elapsed = s.clock().Sub(s.start).Seconds()
	s.prog.SetNumber(TimeBinding, s.elapsed)

	if err := s.call(s.prog.Update); err != nil {
		s.fail(core.StateHalted, &RuntimeError{Message: err.Error()})
		return
	}
	if err := s.call(s.prog.Draw); err != nil {
		s.fail(core.StateHalted, &RuntimeError{Message: err.Error()})
		return
	}
	s.screen.CopyFrom(s.back)
	s.ticks++
	s.request()
}

// call runs one callback under the frame budget, if one is set.
func (s *Scheduler) call(fn func(context.Context) error) error {
	if s.opts.FrameBudget <= 0 {
		return fn(context.Background())
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.FrameBudget)
	defer cancel()
	err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("frame budget of %s exceeded", s.opts.FrameBudget)
	}
	return err
}

func (s *Scheduler) fail(state core.RunState, err error) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.err = err
	s.setState(state)
	s.log.Warn("program stopped", "cart", s.opts.Name, "state", state, "err", err)
	if s.opts.OnHalt != nil {
		s.opts.OnHalt(state, err)
	}
}

func (s *Scheduler) setState(state core.RunState) {
	if state == s.state {
		return
	}
	s.log.Debug("state", "cart", s.opts.Name, "from", s.state, "to", state)
	s.state = state
}
