package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/leakscan/internal/storage"
)

const maxScans = 100 // Scans loaded per ship

// HistoryKeyMap defines the key bindings for the history board.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextShip key.Binding
	PrevShip key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextShip, k.PrevShip, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextShip, k.PrevShip},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev ship"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next ship"),
		),
		NextShip: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next ship"),
		),
		PrevShip: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev ship"),
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

// HistoryShip names a ship tab on the history board.
type HistoryShip struct {
	ID    string
	Title string
}

// HistoryModel is the Bubble Tea model for the scan history screen.
type HistoryModel struct {
	ships       []HistoryShip
	shipCursor  int
	store       *storage.Store
	scans       []storage.ScanRecord
	counts      map[string]int
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
}

// NewHistoryModel creates a new history board. Ships that were scanned but
// are not in ships are appended so no history is hidden.
func NewHistoryModel(store *storage.Store, ships []HistoryShip, width, height int) HistoryModel {
	ships = withScannedShips(store, ships)

	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		ships:       ships,
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
	}

	m.table = m.createTable()

	if len(m.ships) > 0 {
		m.loadScans(m.ships[0].ID)
	}

	return m
}

func withScannedShips(store *storage.Store, ships []HistoryShip) []HistoryShip {
	if store == nil {
		return ships
	}
	stats, err := store.AllShipStats()
	if err != nil {
		return ships
	}
	known := make(map[string]bool, len(ships))
	for _, s := range ships {
		known[s.ID] = true
	}
	var extra []HistoryShip
	for id := range stats {
		if !known[id] {
			extra = append(extra, HistoryShip{ID: id, Title: id})
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].ID < extra[j].ID })
	return append(ships, extra...)
}

// createTable creates the scans table sized to the terminal.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Outcome", Width: 9},
		{Title: "Start", Width: 10},
		{Title: "Exit", Width: 10},
		{Title: "Moves", Width: 5},
		{Title: "Expanded", Width: 8},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)), // Title, summary, tabs, detail, help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadScans loads the history of the given ship.
func (m *HistoryModel) loadScans(shipID string) {
	m.scans = nil
	m.counts = nil
	if m.store != nil {
		if scans, err := m.store.RecentScans(shipID, maxScans); err == nil {
			m.scans = scans
		}
		if counts, err := m.store.CountByOutcome(shipID); err == nil {
			m.counts = counts
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current scans.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.scans))
	for i, s := range m.scans {
		exit := s.Exit
		if exit == "" {
			exit = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", s.ID),
			s.Outcome,
			s.Start,
			exit,
			fmt.Sprintf("%d", s.Moves),
			fmt.Sprintf("%d", s.Expansions),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history board.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		case key.Matches(msg, m.keys.NextShip), key.Matches(msg, m.keys.Right):
			if len(m.ships) > 0 {
				m.shipCursor = (m.shipCursor + 1) % len(m.ships)
				m.loadScans(m.ships[m.shipCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevShip), key.Matches(msg, m.keys.Left):
			if len(m.ships) > 0 {
				m.shipCursor--
				if m.shipCursor < 0 {
					m.shipCursor = len(m.ships) - 1
				}
				m.loadScans(m.ships[m.shipCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
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

// View renders the history board.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "SCAN HISTORY"
	if len(m.ships) > 0 {
		title = fmt.Sprintf("SCAN HISTORY - %s", m.ships[m.shipCursor].Title)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.summary()), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.shipTabs(), m.width))
	b.WriteString("\n\n")
	b.WriteString(m.renderTableContent())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.detail()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// summary renders outcome counts in a fixed order.
func (m HistoryModel) summary() string {
	if len(m.counts) == 0 {
		return "no scans"
	}
	var parts []string
	for _, outcome := range []string{"found", "sealed", "cancelled", "failed"} {
		if n := m.counts[outcome]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", outcome, n))
		}
	}
	return strings.Join(parts, "  ·  ")
}

// shipTabs renders the ship names with the selected one highlighted. When
// they do not fit, only the selected ship is shown.
func (m HistoryModel) shipTabs() string {
	if len(m.ships) == 0 {
		return ""
	}
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.ships))
	for i, s := range m.ships {
		if i == m.shipCursor {
			tabs[i] = activeTabStyle.Render(s.Title)
		} else {
			tabs[i] = dimStyle.Render(" " + s.Title + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("< %s >", m.ships[m.shipCursor].Title)
	}
	return line
}

// detail describes the highlighted scan.
func (m HistoryModel) detail() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.scans) {
		return ""
	}
	r := m.scans[i]
	switch r.Outcome {
	case "found":
		return fmt.Sprintf("Scan #%d: air escapes at %s after %d moves, searched in %s.", r.ID, r.Exit, r.Moves, r.Duration())
	case "sealed":
		return fmt.Sprintf("Scan #%d: sealed from %s, %d moves tried in %s.", r.ID, r.Start, r.Expansions, r.Duration())
	default:
		return fmt.Sprintf("Scan #%d: %s after %s.", r.ID, r.Outcome, r.Duration())
	}
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.scans) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No scans recorded yet.\nInspect a ship and press l to scan it.")
	}

	return m.table.View()
}

// Scans returns the history rows of the selected ship.
func (m HistoryModel) Scans() []storage.ScanRecord {
	return m.scans
}

// IsGoingBack returns true if user wants to go back to the picker.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to the picker, false if quitting.
func RunHistory(store *storage.Store, ships []HistoryShip, width, height int) (goBack bool, err error) {
	model := NewHistoryModel(store, ships, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
