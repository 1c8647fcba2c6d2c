package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/config"
	"github.com/vovakirdan/term8/internal/console"
	"github.com/vovakirdan/term8/internal/core"
	"github.com/vovakirdan/term8/internal/storage"
	"github.com/vovakirdan/term8/internal/watch"
)

// Options configures a console Model.
type Options struct {
	CartID     string     // Name recorded in run history
	Cart       *cart.Cart // Cart to run
	Store      *storage.Store
	Config     config.Config
	Updates    <-chan watch.Update // Optional hot reload source
	Logger     *log.Logger
	ExitOnBack bool // Quit the program on Back instead of returning to a menu
}

// releaseMsg lifts a button whose synthetic hold expired.
type releaseMsg struct {
	button core.Button
	gen    uint64
}

// reloadMsg carries a cart reread from disk.
type reloadMsg watch.Update

// Model is the Bubble Tea model that runs one cart.
type Model struct {
	opts    Options
	cart    *cart.Cart
	sched   *console.Scheduler
	clock   *frameClock
	keys    ConsoleKeyMap
	help    help.Model
	theme   Theme
	log     *log.Logger
	hold    time.Duration
	holdGen [core.NumButtons]uint64
	started time.Time

	reloadErr  error
	width      int
	height     int
	quitting   bool
	backToMenu bool
	recorded   bool
}

// NewModel creates a console model for the given cart. The cart starts
// when the program calls Init.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rt := opts.Config.Runtime()
	clock := newFrameClock(rt.TickRate)

	name := opts.CartID
	if name == "" {
		name = opts.Cart.Name
	}
	sched := console.New(console.Options{
		Vsync:       clock,
		Name:        name,
		Seed:        rt.Seed,
		FrameBudget: rt.FrameBudget,
		Logger:      logger,
	})

	return Model{
		opts:  opts,
		cart:  opts.Cart,
		sched: sched,
		clock: clock,
		keys:  NewConsoleKeyMap(opts.Config.Input.Keys),
		help:  help.New(),
		theme: DefaultTheme(),
		log:   logger,
		hold:  opts.Config.HoldDuration(),
	}
}

// Init loads the cart and starts the frame loop.
func (m Model) Init() tea.Cmd {
	// Failures surface through the scheduler state and the overlay.
	_ = m.sched.Load(m.cart.Code, m.cart.Sprites)
	return tea.Batch(m.clock.cmd(), m.waitReload())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.started.IsZero() {
			m.started = msg.Time
		}
		m.clock.fire(msg)
		return m, m.clock.cmd()

	case releaseMsg:
		if m.holdGen[msg.button] == msg.gen {
			m.sched.Buttons().Release(msg.button)
		}
		return m, nil

	case reloadMsg:
		return m.handleReload(watch.Update(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.finish()
		m.backToMenu = true
		if m.opts.ExitOnBack {
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.reloadErr = nil
		_ = m.sched.Restart()
		return m, m.clock.cmd()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Terminals report presses (and repeats) but no releases, so every
	// press extends a hold that ends when no repeat arrives in time.
	if b, ok := m.keys.Button(msg); ok {
		m.sched.Buttons().Press(b)
		m.holdGen[b]++
		gen := m.holdGen[b]
		return m, tea.Tick(m.hold, func(time.Time) tea.Msg {
			return releaseMsg{button: b, gen: gen}
		})
	}

	return m, nil
}

// handleReload swaps in a cart reread from disk. A cart that fails to
// parse leaves the running program alone.
func (m Model) handleReload(u watch.Update) (tea.Model, tea.Cmd) {
	if u.Err != nil {
		m.reloadErr = u.Err
		return m, m.waitReload()
	}
	m.reloadErr = nil
	m.cart = u.Cart
	_ = m.sched.Load(u.Cart.Code, u.Cart.Sprites)
	return m, tea.Batch(m.clock.cmd(), m.waitReload())
}

func (m Model) waitReload() tea.Cmd {
	if m.opts.Updates == nil {
		return nil
	}
	ch := m.opts.Updates
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg(u)
	}
}

// finish records the run and stops the program. Safe to call twice.
func (m *Model) finish() {
	if m.recorded {
		return
	}
	m.recorded = true

	if m.opts.Store != nil {
		run := storage.Run{
			Cart:    m.opts.CartID,
			Outcome: m.sched.State().String(),
			Message: console.Describe(m.sched.Err()),
			Ticks:   m.sched.Ticks(),
		}
		if !m.started.IsZero() {
			run.Duration = time.Since(m.started)
		}
		if run.Cart == "" {
			run.Cart = m.cart.Name
		}
		if _, err := m.opts.Store.RecordRun(run); err != nil {
			m.log.Warn("could not record run", "cart", run.Cart, "error", err)
		}
	}
	m.sched.Stop()
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHUD())
	b.WriteString("\n")

	if m.sched.State().Terminal() {
		b.WriteString(m.renderOverlay())
	} else {
		b.WriteString(RenderScreen(m.sched.Screen()))
	}

	b.WriteString("\n")
	if m.reloadErr != nil {
		b.WriteString(m.theme.OverlayTitle.Render("reload failed: "))
		b.WriteString(m.theme.OverlayText.Render(m.reloadErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.HUDControls.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderHUD() string {
	sep := m.theme.HUDSeparator.Render(" | ")
	parts := []string{
		m.theme.HUDTitle.Render("TERM8"),
		m.theme.HUDValue.Render(m.cart.Name),
		m.theme.HUDValue.Render(m.sched.State().String()),
		m.theme.HUDValue.Render(fmt.Sprintf("t=%.1f", m.sched.Elapsed())),
	}
	return strings.Join(parts, sep)
}

// renderOverlay replaces the screen with the error that stopped the program.
func (m Model) renderOverlay() string {
	title := "Halted"
	switch m.sched.State() {
	case core.StateCompileFailed:
		title = "Compile Error"
	case core.StateInitFailed:
		title = "Init Error"
	}

	msg := lipgloss.NewStyle().Width(core.ScreenWidth - 12).Render(console.Describe(m.sched.Err()))
	box := m.theme.OverlayBorder.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.OverlayTitle.Render(title),
		"",
		m.theme.OverlayText.Render(msg),
		"",
		m.theme.OverlayHint.Render("ctrl+r restart · esc back"),
	))
	return lipgloss.Place(core.ScreenWidth, CellRows, lipgloss.Center, lipgloss.Center, box)
}

// Scheduler exposes the running scheduler, for hosts and tests.
func (m Model) Scheduler() *console.Scheduler {
	return m.sched
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a single cart. It reports whether
// the user left with Back rather than Quit.
func Run(opts Options) (bool, error) {
	opts.ExitOnBack = true
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	m, ok := final.(Model)
	if !ok {
		model.finish()
		return false, err
	}
	// Covers exits that bypass the key handler, such as a signal.
	m.finish()
	return m.BackToMenu(), err
}
