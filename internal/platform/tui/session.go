package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/leakscan/internal/config"
	"github.com/vovakirdan/leakscan/internal/core"
	"github.com/vovakirdan/leakscan/internal/ship"
	"github.com/vovakirdan/leakscan/internal/storage"
)

type sessionMode int

const (
	modePicker sessionMode = iota
	modeViewer
	modeHistory
)

// SessionOptions configure a SessionModel.
type SessionOptions struct {
	Loader  *ship.Loader
	Store   *storage.Store // May be nil
	Config  config.Config
	Logger  *log.Logger // May be nil
	Runtime core.RuntimeConfig
}

// SessionModel manages the full flow: picker -> viewer -> picker, with the
// history board one key away. It is the top-level model for SSH sessions and
// for the local viewer when no ship is named.
type SessionModel struct {
	opts     SessionOptions
	mode     sessionMode
	picker   PickerModel
	viewer   *ViewerModel
	history  *HistoryModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Loader == nil {
		opts.Loader = ship.NewLoader("")
	}
	m := SessionModel{opts: opts}
	m.picker = m.newPicker()
	return m
}

func (m *SessionModel) newPicker() PickerModel {
	ships, err := m.opts.Loader.LoadAll()
	if err != nil {
		m.opts.Logger.Warn("could not list ships", "error", err)
	}
	return NewPickerModel(ships, m.opts.Store, m.opts.Runtime)
}

func (m *SessionModel) historyShips() []HistoryShip {
	ships, _ := m.opts.Loader.LoadAll()
	out := make([]HistoryShip, 0, len(ships))
	for _, s := range ships {
		out = append(out, HistoryShip{ID: s.ID, Title: s.Name})
	}
	return out
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.mode {
	case modeViewer:
		return m.updateViewer(msg)
	case modeHistory:
		return m.updateHistory(msg)
	}
	return m.updatePicker(msg)
}

// updatePicker handles updates when in picker mode.
func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, cmd := m.picker.Update(msg)
	if pm, ok := newPicker.(PickerModel); ok {
		m.picker = pm
	}

	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.picker.WantsHistory() {
		h := NewHistoryModel(m.opts.Store, m.historyShips(), m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
		m.history = &h
		m.mode = modeHistory
		return m, m.history.Init()
	}

	if selected := m.picker.Selected(); selected != nil {
		// Each viewer gets a fresh copy so door changes stay in this session
		s, err := m.opts.Loader.LoadByID(selected.ShipID)
		if err != nil {
			m.opts.Logger.Error("could not load ship", "ship", selected.ShipID, "error", err)
			m.picker = m.newPicker()
			return m, nil
		}

		v := NewViewerModel(s, ViewerOptions{
			Config:  m.opts.Config,
			Store:   m.opts.Store,
			Logger:  m.opts.Logger,
			Runtime: m.picker.Config(),
		})
		m.viewer = &v
		m.mode = modeViewer
		return m, m.viewer.Init()
	}

	return m, cmd
}

// updateViewer handles updates when in viewer mode.
func (m SessionModel) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.viewer.Update(msg)
	if vm, ok := newModel.(ViewerModel); ok {
		m.viewer = &vm
	}

	if m.viewer.BackToPicker() {
		m.viewer = nil
		m.mode = modePicker
		m.picker = m.newPicker()
		return m, m.picker.Init()
	}

	if m.viewer.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateHistory handles updates when in history mode.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if hm, ok := newModel.(HistoryModel); ok {
		m.history = &hm
	}

	if m.history.IsGoingBack() {
		m.history = nil
		m.mode = modePicker
		m.picker = m.newPicker()
		return m, m.picker.Init()
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case modeViewer:
		return m.viewer.View()
	case modeHistory:
		return m.history.View()
	}
	return m.picker.View()
}

// Shutdown stops any scan still running in the session.
func (m SessionModel) Shutdown() {
	if m.viewer != nil {
		m.viewer.scanner.ClearStatus()
	}
}

// RunSession starts the picker/viewer flow in the local terminal.
func RunSession(opts SessionOptions) error {
	p := tea.NewProgram(
		NewSessionModel(opts),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if sm, ok := final.(SessionModel); ok {
		sm.Shutdown()
	}
	return err
}
