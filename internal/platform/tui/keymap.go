package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/term8/internal/config"
	"github.com/vovakirdan/term8/internal/core"
)

// ConsoleKeyMap defines the key bindings while a cart runs.
type ConsoleKeyMap struct {
	Buttons [core.NumButtons]key.Binding
	Restart key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ConsoleKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Buttons[core.ButtonA], k.Buttons[core.ButtonB], k.Restart, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ConsoleKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Buttons[:4],
		{k.Buttons[core.ButtonA], k.Buttons[core.ButtonB]},
		{k.Restart, k.Back, k.Help, k.Quit},
	}
}

// NewConsoleKeyMap builds the console bindings from the input config.
func NewConsoleKeyMap(keys config.KeyBinding) ConsoleKeyMap {
	var km ConsoleKeyMap
	for b := core.Button(0); b < core.NumButtons; b++ {
		names := keys.ForButton(b)
		km.Buttons[b] = key.NewBinding(
			key.WithKeys(names...),
			key.WithHelp(strings.Join(names, "/"), strings.ToLower(b.String())),
		)
	}
	km.Restart = key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "restart"),
	)
	km.Back = key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	)
	km.Help = key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	)
	km.Quit = key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	)
	return km
}

// Button returns the console button a key message maps to.
func (k ConsoleKeyMap) Button(msg tea.KeyMsg) (core.Button, bool) {
	for b := core.Button(0); b < core.NumButtons; b++ {
		if key.Matches(msg, k.Buttons[b]) {
			return b, true
		}
	}
	return 0, false
}

// MenuKeyMap defines the key bindings for the cart picker and run history.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Runs   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Runs, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Runs, k.Back, k.Quit},
	}
}

// DefaultMenuKeyMap returns default menu key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Runs: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "runs"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}
