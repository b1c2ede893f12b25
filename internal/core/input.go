package core

// Action represents a semantic viewer action, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionNorth             // Up arrow, W - cursor toward -Z
	ActionSouth             // Down arrow, S - cursor toward +Z
	ActionWest              // Left arrow, A - cursor toward -X
	ActionEast              // Right arrow, D - cursor toward +X
	ActionLayerUp           // PgUp, ] - show the layer above
	ActionLayerDown         // PgDn, [ - show the layer below
	ActionScan              // L, Enter - start a leak scan from the cursor
	ActionCancel            // C - cancel a running scan
	ActionClear             // X - clear the rendered path
	ActionToggleDoor        // O - open/close the door under the cursor
	ActionBack              // B, Esc - back to the ship picker
	ActionQuit              // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionNorth:
		return "North"
	case ActionSouth:
		return "South"
	case ActionWest:
		return "West"
	case ActionEast:
		return "East"
	case ActionLayerUp:
		return "LayerUp"
	case ActionLayerDown:
		return "LayerDown"
	case ActionScan:
		return "Scan"
	case ActionCancel:
		return "Cancel"
	case ActionClear:
		return "Clear"
	case ActionToggleDoor:
		return "ToggleDoor"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
