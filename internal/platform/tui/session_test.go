package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/leakscan/internal/config"
	"github.com/vovakirdan/leakscan/internal/core"
	"github.com/vovakirdan/leakscan/internal/ship"
)

func sessionUpdate(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm
}

func TestSessionFlow(t *testing.T) {
	m := NewSessionModel(SessionOptions{
		Loader:  ship.NewLoader(""),
		Config:  config.Default(),
		Runtime: core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 30},
	})
	if m.mode != modePicker {
		t.Fatal("Expected session to start in the picker")
	}
	if len(m.picker.items) != 4 {
		t.Fatalf("Expected 4 sample ships, got %d", len(m.picker.items))
	}

	// Samples are sorted by ID: corridor, sealed-box, shuttle, small-pod
	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeViewer || m.viewer == nil {
		t.Fatal("Expected viewer after selecting a ship")
	}
	if m.viewer.ship.ID != "shuttle" {
		t.Errorf("Expected shuttle, got %s", m.viewer.ship.ID)
	}

	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modePicker || m.viewer != nil {
		t.Fatal("Expected back to picker")
	}

	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.mode != modeHistory {
		t.Fatal("Expected history board")
	}
	if m.View() == "" {
		t.Error("Expected history view")
	}

	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modePicker {
		t.Fatal("Expected back to picker from history")
	}

	next, cmd := m.Update(runeKey('q'))
	if cmd == nil || !next.(SessionModel).quitting {
		t.Error("Expected quit from picker")
	}
}

func TestSessionViewerIsolation(t *testing.T) {
	m := NewSessionModel(SessionOptions{Config: config.Default(), Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24}})

	// corridor is first; open its door in one viewer
	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	first := m.viewer.ship
	if _, err := first.ToggleOpen(core.V(7, 2, 2)); err != nil {
		t.Fatal(err)
	}

	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	blk, ok := m.viewer.ship.BlockAt(core.V(7, 2, 2))
	if !ok || blk.State.Open {
		t.Error("Expected a fresh ship with the door closed")
	}
}
