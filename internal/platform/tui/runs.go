package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/term8/internal/core"
	"github.com/vovakirdan/term8/internal/storage"
)

const maxRuns = 100 // Max runs to load per view

// failedOutcomes are the run outcomes counted as failures in the stats line.
var failedOutcomes = []string{
	core.StateCompileFailed.String(),
	core.StateInitFailed.String(),
	core.StateHalted.String(),
}

// RunsKeyMap defines the key bindings for the run history.
type RunsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextCart key.Binding
	PrevCart key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextCart, k.PrevCart, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextCart, k.PrevCart},
		{k.Back, k.Quit},
	}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextCart: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next cart"),
		),
		PrevCart: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev cart"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunsModel is the Bubble Tea model for the run history screen.
type RunsModel struct {
	carts     []string // "" (every cart) followed by each cart with runs
	cursor    int
	stats     map[string]*storage.CartStats
	store     *storage.Store
	runs      []storage.Run
	loadErr   error
	table     table.Model
	help      help.Model
	keys      RunsKeyMap
	theme     Theme
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewRunsModel creates a run history view. store may be nil.
func NewRunsModel(store *storage.Store, width, height int) RunsModel {
	m := RunsModel{
		carts:  []string{""},
		store:  store,
		help:   help.New(),
		keys:   DefaultRunsKeyMap(),
		theme:  DefaultTheme(),
		width:  width,
		height: height,
	}

	if store != nil {
		stats, err := store.GetCartStats(failedOutcomes...)
		if err != nil {
			m.loadErr = err
		}
		m.stats = stats
		names := make([]string, 0, len(stats))
		for name := range stats {
			names = append(names, name)
		}
		sort.Strings(names)
		m.carts = append(m.carts, names...)
	}

	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates a new table sized to the window.
func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 12},
		{Title: "Cart", Width: 14},
		{Title: "Outcome", Width: 14},
		{Title: "Ticks", Width: 7},
		{Title: "Time", Width: 8},
		{Title: "Message", Width: 30},
	}
	if rest := m.width - 4 - 12 - 14 - 14 - 7 - 8 - 12; rest > 30 {
		columns[5].Width = rest
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#5F574F")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFF1E8")).
		Background(lipgloss.Color("#1D2B53")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads the runs of the selected cart.
func (m *RunsModel) loadRuns() {
	m.runs = nil
	if m.store != nil {
		runs, err := m.store.RecentRuns(m.carts[m.cursor], maxRuns)
		if err != nil {
			m.loadErr = err
		}
		m.runs = runs
	}
	m.updateTableRows()
}

// updateTableRows fills the table from the loaded runs.
func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.Cart,
			r.Outcome,
			fmt.Sprintf("%d", r.Ticks),
			r.Duration.Round(100 * time.Millisecond).String(),
			firstLine(r.Message),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the run history model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the run history.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextCart):
			m.cursor = (m.cursor + 1) % len(m.carts)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevCart):
			m.cursor = (m.cursor + len(m.carts) - 1) % len(m.carts)
			m.loadRuns()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the run history.
func (m RunsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "RUNS - all carts"
	if name := m.carts[m.cursor]; name != "" {
		title = "RUNS - " + name
	}
	b.WriteString(m.theme.MenuTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.theme.MenuDescription.Render(m.summary()))
	b.WriteString("\n\n")

	if m.loadErr != nil {
		b.WriteString(m.theme.OverlayTitle.Render(fmt.Sprintf("history unavailable: %v", m.loadErr)))
		b.WriteString("\n")
	} else if len(m.runs) == 0 {
		b.WriteString(m.theme.MenuDescription.Render("No runs yet. Play a cart!"))
		b.WriteString("\n")
	} else {
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F574F")).
			Render(m.table.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.HUDControls.Render(m.help.View(m.keys)))
	return b.String()
}

// summary describes the selected cart's totals.
func (m RunsModel) summary() string {
	var runs, failures int
	var ticks int64
	name := m.carts[m.cursor]
	for cart, st := range m.stats {
		if name != "" && cart != name {
			continue
		}
		runs += st.Runs
		failures += st.Failures
		ticks += st.TotalTicks
	}
	return fmt.Sprintf("%d runs, %d failed, %d ticks", runs, failures, ticks)
}

// IsQuitting returns true if user requested to quit.
func (m RunsModel) IsQuitting() bool {
	return m.quitting
}

// IsGoingBack returns true if user requested to go back.
func (m RunsModel) IsGoingBack() bool {
	return m.goingBack
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// RunRuns shows the run history and returns true if the user wants to go
// back to the menu.
func RunRuns(store *storage.Store) (bool, error) {
	model := NewRunsModel(store, 100, 30)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	if m, ok := finalModel.(RunsModel); ok {
		return m.IsGoingBack(), nil
	}
	return false, nil
}
