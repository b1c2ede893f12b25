package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/leakscan/internal/config"
	"github.com/vovakirdan/leakscan/internal/core"
	"github.com/vovakirdan/leakscan/internal/host"
	"github.com/vovakirdan/leakscan/internal/leak"
	"github.com/vovakirdan/leakscan/internal/overlay"
	"github.com/vovakirdan/leakscan/internal/ship"
	"github.com/vovakirdan/leakscan/internal/storage"
)

// Rows below the map: status line and help bar.
const statusRows = 2

// ViewerOptions configure a ViewerModel.
type ViewerOptions struct {
	Config  config.Config
	Store   *storage.Store // May be nil
	Logger  *log.Logger    // May be nil
	Runtime core.RuntimeConfig
}

// ViewerModel is the Bubble Tea model for inspecting one ship and scanning
// it for leaks. The scanner and runner are driven from Update, so every
// scanner call happens on the Bubble Tea goroutine.
type ViewerModel struct {
	ship      *ship.Ship
	runner    *host.Parallel
	scanner   *leak.Scanner
	flow      *overlay.Flow
	cfg       config.Config
	runtime   core.RuntimeConfig
	logger    *log.Logger
	screen    *core.Screen
	keyMapper *KeyMapper
	help      help.Model
	cursor    core.Vec3I
	notice    string
	lastTick  time.Time
	quitting  bool
	back      bool
}

// NewViewerModel creates a viewer for s.
func NewViewerModel(s *ship.Ship, opts ViewerOptions) ViewerModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rt := opts.Runtime
	if rt.TickRate <= 0 {
		rt.TickRate = opts.Config.Viewer.FPS
	}

	store := opts.Store
	history := opts.Config.Scan.History
	runner := host.NewParallel()
	scanner := leak.NewScanner(runner, leak.Options{
		Settings: opts.Config.ScanSettings(),
		Logger:   logger.WithPrefix("scanner"),
		OnReport: func(_ leak.Grid, r leak.Report) {
			if store == nil || !history {
				return
			}
			if err := store.SaveReport(s.ID, r); err != nil {
				logger.Warn("could not save scan", "ship", s.ID, "error", err)
			}
		},
	})

	cursor := s.Start
	if !s.HasStart {
		b := s.Bounds()
		cursor = core.V((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2, (b.Min.Z+b.Max.Z)/2)
	}

	h := help.New()
	h.Width = rt.ScreenW

	return ViewerModel{
		ship:      s,
		runner:    runner,
		scanner:   scanner,
		cfg:       opts.Config,
		runtime:   rt,
		logger:    logger,
		screen:    core.NewScreen(rt.ScreenW, mapHeight(rt.ScreenH)),
		keyMapper: NewKeyMapper(),
		help:      h,
		cursor:    cursor,
	}
}

func mapHeight(screenH int) int {
	return core.Max(0, screenH-statusRows)
}

// Init starts the frame loop.
func (m ViewerModel) Init() tea.Cmd {
	return tickCmd(m.runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, mapHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		now := time.Time(msg)
		var dt time.Duration
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick)
		}
		m.lastTick = now
		m.step(dt)
		return m, tickCmd(m.runtime.TickRate)
	}

	return m, nil
}

// step runs one frame: completion callbacks, result polling, view timer and
// the path animation.
func (m *ViewerModel) step(dt time.Duration) {
	m.runner.Drain()
	m.scanner.PollResult()
	m.scanner.Tick(dt)

	if m.scanner.Status() != leak.StatusDraw {
		m.flow = nil
		return
	}
	if m.flow == nil {
		m.flow = overlay.NewFlow(m.scanner.Lines(), m.cfg.OverlaySettings())
	}
	if m.cfg.Overlay.Particles {
		m.flow.Update(dt)
	}
}

// handleKey processes keyboard input.
func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keyMapper.MapKey(msg); action {
	case core.ActionQuit:
		m.scanner.ClearStatus()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.scanner.ClearStatus()
		m.back = true

	case core.ActionNorth:
		m.moveCursor(core.Forward)
	case core.ActionSouth:
		m.moveCursor(core.Backward)
	case core.ActionWest:
		m.moveCursor(core.Left)
	case core.ActionEast:
		m.moveCursor(core.Right)
	case core.ActionLayerUp:
		m.moveCursor(core.Up)
	case core.ActionLayerDown:
		m.moveCursor(core.Down)

	case core.ActionScan:
		m.startScan()

	case core.ActionCancel:
		m.scanner.CancelScan()
		m.flow = nil

	case core.ActionClear:
		m.scanner.ClearStatus()
		m.flow = nil
		m.notice = ""

	case core.ActionToggleDoor:
		m.toggleDoor()
	}

	return m, nil
}

func (m *ViewerModel) moveCursor(d core.Direction) {
	next := m.cursor.Step(d)
	if m.ship.Bounds().Contains(next) {
		m.cursor = next
	}
}

func (m *ViewerModel) startScan() {
	m.flow = nil
	m.notice = ""
	if !m.scanner.StartScan(m.ship, m.cursor) {
		if !m.scanner.Settings().Pressurization {
			m.notice = "Pressurization is disabled."
		} else {
			m.notice = "Start cell is outside the ship."
		}
	}
}

// toggleDoor opens or closes the block under the cursor. Any scan is
// cleared first so a search never reads a grid that is being changed.
func (m *ViewerModel) toggleDoor() {
	m.scanner.ClearStatus()
	m.flow = nil

	open, err := m.ship.ToggleOpen(m.cursor)
	if err != nil {
		m.notice = "Nothing to open here."
		return
	}
	blk, _ := m.ship.BlockAt(m.cursor)
	if open {
		m.notice = blk.Def.Title + " opened."
	} else {
		m.notice = blk.Def.Title + " closed."
	}
	m.logger.Debug("block toggled", "ship", m.ship.ID, "at", m.cursor, "open", open)
}

// View renders the current state to a string for display.
func (m ViewerModel) View() string {
	if m.quitting || m.back {
		return ""
	}
	if m.runtime.ScreenW < 20 || m.runtime.ScreenH < 8 {
		return "Terminal too small for the ship viewer."
	}

	m.render()

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keyMapper.Keys())))
	return b.String()
}

// statusLine shows the scanner message, or the last notice when idle.
func (m ViewerModel) statusLine() string {
	switch m.scanner.Status() {
	case leak.StatusRunning:
		return runningStyle.Render(" " + m.scanner.Message())
	case leak.StatusDraw:
		secs := int(m.scanner.Remaining().Round(time.Second) / time.Second)
		text := fmt.Sprintf(" %s %d moves, %ds left.", m.scanner.Message(), len(m.scanner.Lines()), secs)
		if !pathOnLayer(m.scanner.Lines(), m.cursor.Y) {
			text += " Path is on another layer."
		}
		return statusStyle.Render(text)
	}
	if m.notice != "" {
		return noticeStyle.Render(" " + m.notice)
	}
	if msg := m.scanner.Message(); msg != "" {
		return statusStyle.Render(" " + msg)
	}
	return dimStyle.Render(" Move to a cell and press l to scan for leaks.")
}

// Cursor returns the cell under the cursor.
func (m ViewerModel) Cursor() core.Vec3I {
	return m.cursor
}

// Scanner returns the viewer's scanner.
func (m ViewerModel) Scanner() *leak.Scanner {
	return m.scanner
}

// Flow returns the active path animation, nil unless a path is shown.
func (m ViewerModel) Flow() *overlay.Flow {
	return m.flow
}

// Notice returns the last transient message.
func (m ViewerModel) Notice() string {
	return m.notice
}

// IsQuitting returns true if user requested to quit entirely.
func (m ViewerModel) IsQuitting() bool {
	return m.quitting
}

// BackToPicker returns true if user requested to go back to the ship list.
func (m ViewerModel) BackToPicker() bool {
	return m.back
}

// RunViewer starts the Bubble Tea program for a single ship.
func RunViewer(s *ship.Ship, opts ViewerOptions) error {
	model := NewViewerModel(s, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if vm, ok := final.(ViewerModel); ok {
		vm.scanner.ClearStatus()
	}
	return err
}
