package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/registry"
	"github.com/vovakirdan/term8/internal/storage"
)

// Source tells where a menu entry's cart lives.
type Source int

const (
	SourceBuiltin Source = iota // Compiled into the binary
	SourceLibrary               // Saved in the cart library
)

// MenuItem represents a selectable cart in the menu.
type MenuItem struct {
	ID     string
	Title  string
	Author string
	Source Source
}

// MenuModel is the Bubble Tea model for the cart picker.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	store    *storage.Store
	keys     MenuKeyMap
	help     help.Model
	theme    Theme
	loadErr  error
	quitting bool
	selected *MenuItem // Set when user selects a cart
	openRuns bool      // True if user pressed Tab for run history
}

// NewMenuModel creates a menu listing the built-in carts followed by the
// carts saved in the library. store may be nil.
func NewMenuModel(store *storage.Store) MenuModel {
	var items []MenuItem
	for _, c := range registry.List() {
		items = append(items, MenuItem{ID: c.ID, Title: c.Title, Author: c.Author, Source: SourceBuiltin})
	}

	var loadErr error
	if store != nil {
		entries, err := store.ListCarts()
		loadErr = err
		for _, e := range entries {
			items = append(items, MenuItem{ID: e.Name, Title: e.Name, Author: e.Author, Source: SourceLibrary})
		}
	}

	return MenuModel{
		items:   items,
		store:   store,
		keys:    DefaultMenuKeyMap(),
		help:    help.New(),
		theme:   DefaultTheme(),
		loadErr: loadErr,
		width:   80,
		height:  24,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start the cart
		}

	case key.Matches(msg, m.keys.Runs):
		m.openRuns = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.MenuTitle.Render("T E R M 8"))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString(m.theme.MenuDescription.Render("No carts installed."))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		style := m.theme.MenuItemNormal
		cursor := "  "
		if i == m.cursor {
			style = m.theme.MenuItemActive
			cursor = "> "
		}

		line := style.Render(cursor + item.Title)
		desc := item.Author
		if item.Source == SourceLibrary {
			desc = strings.TrimSpace(desc + " (library)")
		}
		if desc != "" {
			line += "  " + m.theme.MenuDescription.Render(desc)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.loadErr != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.OverlayTitle.Render(fmt.Sprintf("library unavailable: %v", m.loadErr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.HUDControls.Render(m.help.View(m.keys)))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRuns returns true if user requested the run history.
func (m MenuModel) WantsRuns() bool {
	return m.openRuns
}

// Resolve loads the cart behind a menu item.
func Resolve(store *storage.Store, item MenuItem) (*cart.Cart, error) {
	if item.Source == SourceLibrary {
		if store == nil {
			return nil, fmt.Errorf("cart %q: no library open", item.ID)
		}
		return store.LoadCart(item.ID)
	}
	return registry.Create(item.ID)
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Item      *MenuItem
	WantsRuns bool
	Quit      bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store) (MenuResult, error) {
	model := NewMenuModel(store)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	switch {
	case m.WantsRuns():
		return MenuResult{WantsRuns: true}, nil
	case m.Selected() != nil:
		return MenuResult{Item: m.Selected()}, nil
	default:
		return MenuResult{Quit: true}, nil
	}
}
