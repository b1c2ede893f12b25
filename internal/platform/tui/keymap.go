package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/leakscan/internal/core"
)

// ViewerKeyMap defines the key bindings for the ship viewer.
type ViewerKeyMap struct {
	North      key.Binding
	South      key.Binding
	West       key.Binding
	East       key.Binding
	LayerUp    key.Binding
	LayerDown  key.Binding
	Scan       key.Binding
	Cancel     key.Binding
	Clear      key.Binding
	ToggleDoor key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ViewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scan, k.Cancel, k.ToggleDoor, k.LayerUp, k.LayerDown, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ViewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.North, k.South, k.West, k.East},
		{k.LayerUp, k.LayerDown},
		{k.Scan, k.Cancel, k.Clear, k.ToggleDoor},
		{k.Back, k.Quit},
	}
}

// DefaultViewerKeyMap returns default key bindings.
func DefaultViewerKeyMap() ViewerKeyMap {
	return ViewerKeyMap{
		North: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "north"),
		),
		South: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "south"),
		),
		West: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "west"),
		),
		East: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "east"),
		),
		LayerUp: key.NewBinding(
			key.WithKeys("pgup", "]"),
			key.WithHelp("]", "layer up"),
		),
		LayerDown: key.NewBinding(
			key.WithKeys("pgdown", "["),
			key.WithHelp("[", "layer down"),
		),
		Scan: key.NewBinding(
			key.WithKeys("l", "enter"),
			key.WithHelp("l", "scan"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear"),
		),
		ToggleDoor: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "door"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "ships"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to viewer actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys ViewerKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultViewerKeyMap()}
}

// Keys returns the bindings used for the help bar.
func (km *KeyMapper) Keys() ViewerKeyMap {
	return km.keys
}

// MapKey translates a key message to a viewer action.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.North):
		return core.ActionNorth
	case key.Matches(msg, k.South):
		return core.ActionSouth
	case key.Matches(msg, k.West):
		return core.ActionWest
	case key.Matches(msg, k.East):
		return core.ActionEast
	case key.Matches(msg, k.LayerUp):
		return core.ActionLayerUp
	case key.Matches(msg, k.LayerDown):
		return core.ActionLayerDown
	case key.Matches(msg, k.Scan):
		return core.ActionScan
	case key.Matches(msg, k.Cancel):
		return core.ActionCancel
	case key.Matches(msg, k.Clear):
		return core.ActionClear
	case key.Matches(msg, k.ToggleDoor):
		return core.ActionToggleDoor
	case key.Matches(msg, k.Back):
		return core.ActionBack
	}
	return core.ActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionHistory
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab", "h":
		return MenuActionHistory
	}
	return MenuActionNone
}
