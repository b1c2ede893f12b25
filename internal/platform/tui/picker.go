package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/leakscan/internal/core"
	"github.com/vovakirdan/leakscan/internal/ship"
	"github.com/vovakirdan/leakscan/internal/storage"
)

// PickerItem represents a selectable ship in the picker.
type PickerItem struct {
	ShipID string
	Title  string
	Blocks int
	Last   string // Outcome of the last recorded scan, if any
}

// PickerModel is the Bubble Tea model for the ship picker.
type PickerModel struct {
	items       []PickerItem
	cursor      int
	width       int
	height      int
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	quitting    bool
	selected    *PickerItem // Set when user selects a ship
	openHistory bool        // True if user pressed Tab for history
}

// NewPickerModel creates a picker listing ships. The store may be nil.
func NewPickerModel(ships []*ship.Ship, store *storage.Store, cfg core.RuntimeConfig) PickerModel {
	items := make([]PickerItem, 0, len(ships))
	for _, s := range ships {
		item := PickerItem{
			ShipID: s.ID,
			Title:  s.Name,
			Blocks: s.Len(),
		}
		if store != nil {
			if last, err := store.LastScan(s.ID); err == nil && last != nil {
				item.Last = last.Outcome
			}
		}
		items = append(items, item)
	}

	return PickerModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for picker navigation.
func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

var pickerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(pickerTitleStyle.Render("  L E A K S C A N  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a ship", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(dimStyle.Render("No ships found."), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		last := ""
		if item.Last != "" {
			last = fmt.Sprintf("  [%s]", item.Last)
		}

		line := fmt.Sprintf("%s%-22s %5d blocks%s", cursor, item.Title, item.Blocks, last)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Inspect  |  Tab: History  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected item, or nil if none selected.
func (m PickerModel) Selected() *PickerItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the scan history.
func (m PickerModel) WantsHistory() bool {
	return m.openHistory
}

// Config returns the current runtime config (may have been updated by resize).
func (m PickerModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
