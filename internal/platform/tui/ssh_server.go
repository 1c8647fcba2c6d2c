package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/term8/internal/config"
	"github.com/vovakirdan/term8/internal/storage"
)

// SSHServer serves the cart menu and console to SSH clients via Wish.
type SSHServer struct {
	config config.Config
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server from the server section of cfg.
// Each session shares store, which may be nil.
func NewSSHServer(cfg config.Config, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "term8-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.Server.HostKey
	if hostKeyPath == "" {
		hostKeyPath = filepath.Join(config.Dir(), "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Server.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout()),
		wish.WithMiddleware(
			srv.teaMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaMiddleware runs a session program for each SSH session and closes its
// final model, so a client that drops the connection still has its run
// recorded.
func (s *SSHServer) teaMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		pty, windowChanges, ok := sshSession.Pty()
		if !ok {
			s.logger.Warn("no PTY requested", "user", sshSession.User())
			wish.Fatalln(sshSession, "term8 needs an interactive terminal, try ssh -t")
			return
		}

		model := NewSessionModel(s.store, s.config, s.logger.With("user", sshSession.User()))
		model.width, model.height = pty.Window.Width, pty.Window.Height

		opts := append(bubbletea.MakeOptions(sshSession), tea.WithAltScreen())
		p := tea.NewProgram(model, opts...)

		ctx, cancel := context.WithCancel(sshSession.Context())
		go func() {
			for {
				select {
				case <-ctx.Done():
					p.Quit()
					return
				case w, ok := <-windowChanges:
					if !ok {
						return
					}
					p.Send(tea.WindowSizeMsg{Width: w.Width, Height: w.Height})
				}
			}
		}()

		final, err := p.Run()
		cancel()
		if err != nil {
			s.logger.Warn("session program ended with error", "user", sshSession.User(), "error", err)
		}
		if m, ok := final.(SessionModel); ok {
			m.Close()
		}
		next(sshSession)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is done or the
// process receives an interrupt.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Server.Address)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Server.Address
}

// screen identifies the view a session shows.
type screen int

const (
	screenMenu screen = iota
	screenRuns
	screenConsole
)

// SessionModel manages the full session flow: menu -> console -> menu,
// with the run history one Tab away. This is the top-level model used for
// SSH sessions and the local menu command.
type SessionModel struct {
	store    *storage.Store
	config   config.Config
	logger   *log.Logger
	screen   screen
	menu     MenuModel
	runs     RunsModel
	console  *Model
	width    int
	height   int
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg config.Config, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return SessionModel{
		store:  store,
		config: cfg,
		logger: logger,
		menu:   NewMenuModel(store),
		width:  80,
		height: 24,
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenConsole:
		return m.updateConsole(msg)
	case screenRuns:
		return m.updateRuns(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsRuns() {
		m.runs = NewRunsModel(m.store, m.width, m.height)
		m.screen = screenRuns
		return m, m.runs.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		c, err := Resolve(m.store, *selected)
		if err != nil {
			m.logger.Warn("cannot load cart", "cart", selected.ID, "error", err)
			m.menu = m.freshMenu()
			return m, nil
		}

		cm := NewModel(Options{
			CartID: selected.ID,
			Cart:   c,
			Store:  m.store,
			Config: m.config,
			Logger: m.logger,
		})
		m.console = &cm
		m.screen = screenConsole
		return m, m.console.Init()
	}

	return m, cmd
}

// updateRuns handles updates when showing the run history.
func (m SessionModel) updateRuns(msg tea.Msg) (tea.Model, tea.Cmd) {
	newRuns, cmd := m.runs.Update(msg)
	if runsModel, ok := newRuns.(RunsModel); ok {
		m.runs = runsModel
	}

	if m.runs.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.runs.IsGoingBack() {
		m.menu = m.freshMenu()
		m.screen = screenMenu
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateConsole handles updates when a cart is running.
func (m SessionModel) updateConsole(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.console.Update(msg)
	if consoleModel, ok := newModel.(Model); ok {
		m.console = &consoleModel
	}

	if m.console.BackToMenu() {
		m.console = nil
		m.menu = m.freshMenu()
		m.screen = screenMenu
		return m, m.menu.Init()
	}

	if m.console.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// Close records the run of the cart being played, if any, and stops its
// program. Hosts call it when the session ends without going back to the
// menu first. Safe to call more than once.
func (m SessionModel) Close() {
	if m.console != nil {
		m.console.finish()
	}
}

// freshMenu rebuilds the menu so newly saved carts show up.
func (m SessionModel) freshMenu() MenuModel {
	menu := NewMenuModel(m.store)
	menu.width, menu.height = m.width, m.height
	menu.help.Width = m.width
	return menu
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenConsole:
		return m.console.View()
	case screenRuns:
		return m.runs.View()
	default:
		return m.menu.View()
	}
}
