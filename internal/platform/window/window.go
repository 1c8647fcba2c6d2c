// Package window hosts the console in a desktop window via Ebitengine.
// Unlike a terminal it sees real key releases, so buttons follow the
// keyboard exactly.
package window

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/config"
	"github.com/vovakirdan/term8/internal/console"
	"github.com/vovakirdan/term8/internal/core"
	"github.com/vovakirdan/term8/internal/gfx"
	"github.com/vovakirdan/term8/internal/storage"
	"github.com/vovakirdan/term8/internal/watch"
)

// Options configures a window host.
type Options struct {
	CartID  string
	Cart    *cart.Cart
	Store   *storage.Store
	Config  config.Config
	Updates <-chan watch.Update // Optional hot reload source
	Logger  *log.Logger
}

// input reports keyboard state. The window reads it from Ebitengine.
type input interface {
	Pressed(k ebiten.Key) bool
	JustPressed(k ebiten.Key) bool
}

type ebitenInput struct{}

func (ebitenInput) Pressed(k ebiten.Key) bool     { return ebiten.IsKeyPressed(k) }
func (ebitenInput) JustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }

// Game implements ebiten.Game around a console scheduler. Each Update is
// one display refresh and fires the frame the program requested.
type Game struct {
	opts    Options
	cart    *cart.Cart
	sched   *console.Scheduler
	vsync   *console.ManualVsync
	keys    [core.NumButtons][]ebiten.Key
	input   input
	log     *log.Logger
	frame   *ebiten.Image
	pix     []byte
	started time.Time
	done    bool
}

// NewGame creates the window game and loads the cart.
func NewGame(opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rt := opts.Config.Runtime()
	vsync := &console.ManualVsync{}

	name := opts.CartID
	if name == "" {
		name = opts.Cart.Name
	}
	g := &Game{
		opts: opts,
		cart: opts.Cart,
		sched: console.New(console.Options{
			Vsync:       vsync,
			Name:        name,
			Seed:        rt.Seed,
			FrameBudget: rt.FrameBudget,
			Logger:      logger,
		}),
		vsync: vsync,
		input: ebitenInput{},
		log:   logger,
		pix:   make([]byte, core.ScreenWidth*core.ScreenHeight*4),
	}
	for b := core.Button(0); b < core.NumButtons; b++ {
		g.keys[b] = Keys(opts.Config.Input.Keys.ForButton(b))
	}
	// Failures surface through the scheduler state and the overlay.
	_ = g.sched.Load(g.cart.Code, g.cart.Sprites)
	return g
}

// Scheduler exposes the running scheduler.
func (g *Game) Scheduler() *console.Scheduler {
	return g.sched
}

// Update polls input and runs the pending frame.
func (g *Game) Update() error {
	if g.started.IsZero() {
		g.started = time.Now()
	}
	if g.input.JustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	ctrl := g.input.Pressed(ebiten.KeyControlLeft) || g.input.Pressed(ebiten.KeyControlRight)
	if ctrl && g.input.JustPressed(ebiten.KeyR) {
		_ = g.sched.Restart()
	}

	g.pollReload()

	buttons := g.sched.Buttons()
	for b, keys := range g.keys {
		down := false
		for _, k := range keys {
			if g.input.Pressed(k) {
				down = true
				break
			}
		}
		if down {
			buttons.Press(core.Button(b))
		} else {
			buttons.Release(core.Button(b))
		}
	}

	g.vsync.Fire()
	return nil
}

// pollReload applies the newest cart from the watcher, if any.
func (g *Game) pollReload() {
	if g.opts.Updates == nil {
		return
	}
	select {
	case u, ok := <-g.opts.Updates:
		if !ok {
			g.opts.Updates = nil
			return
		}
		if u.Err != nil {
			g.log.Warn("reload failed", "error", u.Err)
			return
		}
		g.cart = u.Cart
		_ = g.sched.Load(u.Cart.Code, u.Cart.Sprites)
	default:
	}
}

// Draw copies the console screen into the window.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		g.frame = ebiten.NewImage(core.ScreenWidth, core.ScreenHeight)
	}
	src := g.sched.Screen()
	if g.sched.State().Terminal() {
		src = errorScreen(src, g.sched.State(), g.sched.Err())
	}
	fillPixels(g.pix, src)
	g.frame.WritePixels(g.pix)
	screen.DrawImage(g.frame, nil)
}

// Layout keeps the console resolution; Ebitengine scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return core.ScreenWidth, core.ScreenHeight
}

// Close records the run and stops the program. Safe to call twice.
func (g *Game) Close() {
	if g.done {
		return
	}
	g.done = true

	if g.opts.Store != nil {
		run := storage.Run{
			Cart:    g.opts.CartID,
			Outcome: g.sched.State().String(),
			Message: console.Describe(g.sched.Err()),
			Ticks:   g.sched.Ticks(),
		}
		if run.Cart == "" {
			run.Cart = g.cart.Name
		}
		if !g.started.IsZero() {
			run.Duration = time.Since(g.started)
		}
		if _, err := g.opts.Store.RecordRun(run); err != nil {
			g.log.Warn("could not record run", "cart", run.Cart, "error", err)
		}
	}
	g.sched.Stop()
}

// Run opens a window and blocks until it is closed.
func Run(opts Options) error {
	g := NewGame(opts)
	defer g.Close()

	scale := opts.Config.Display.Scale
	if scale <= 0 {
		scale = 4
	}
	ebiten.SetWindowSize(core.ScreenWidth*scale, core.ScreenHeight*scale)
	ebiten.SetWindowTitle("term8 - " + g.cart.Name)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// fillPixels writes the screen as RGBA bytes.
func fillPixels(pix []byte, s *core.Screen) {
	img := s.Image()
	for i, idx := range img.Pix {
		c := core.Color(idx).RGBA()
		pix[i*4] = c.R
		pix[i*4+1] = c.G
		pix[i*4+2] = c.B
		pix[i*4+3] = 0xff
	}
}

// overlayColumns is how many print characters fit across the screen.
const overlayColumns = core.ScreenWidth / 7

// errorScreen returns a copy of s with the program error drawn over it.
func errorScreen(s *core.Screen, state core.RunState, err error) *core.Screen {
	out := core.NewScreen()
	out.CopyFrom(s)
	api := gfx.New(out, &cart.SpriteBank{})

	title := "HALTED"
	switch state {
	case core.StateCompileFailed:
		title = "COMPILE ERROR"
	case core.StateInitFailed:
		title = "INIT ERROR"
	}
	lines := append([]string{title}, wrap(console.Describe(err), overlayColumns)...)
	if len(lines) > 8 {
		lines = lines[:8]
	}

	h := float64(len(lines)*13 + 6)
	api.Rect(0, 2, core.ScreenWidth, h, 1)
	for i, line := range lines {
		c := 7
		if i == 0 {
			c = 8
		}
		api.Print(line, 2, float64(4+i*13), c)
	}
	return out
}

// wrap breaks text into lines of at most width characters, splitting words
// longer than a line.
func wrap(text string, width int) []string {
	var lines []string
	for _, line := range strings.Split(ansi.Wrap(text, width, ""), "\n") {
		if line = strings.TrimRight(line, " "); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
