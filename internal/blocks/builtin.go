package blocks

import "github.com/vovakirdan/leakscan/internal/core"

func init() {
	Register(Definition{
		ID:     "armor",
		Title:  "Armor Block",
		Glyph:  '█',
		Color:  core.ColorGray,
		Sealed: sealAll,
	})
	Register(Definition{
		ID:     "window",
		Title:  "Window",
		Glyph:  '▒',
		Color:  core.ColorCyan,
		Sealed: sealAll,
	})
	Register(Definition{
		ID:       "door",
		Title:    "Sliding Door",
		Glyph:    '▯',
		Color:    core.ColorYellow,
		Openable: true,
		Sealed:   sealDoor,
	})
	Register(Definition{
		ID:       "hatch",
		Title:    "Airtight Hangar Hatch",
		Glyph:    '▭',
		Color:    core.ColorOrange,
		Openable: true,
		Sealed:   sealDoor,
	})
	Register(Definition{
		ID:     "panel",
		Title:  "Armor Panel",
		Glyph:  '▌',
		Color:  core.ColorWhite,
		Sealed: sealFront,
	})
	Register(Definition{
		ID:     "frame",
		Title:  "Catwalk Frame",
		Glyph:  '#',
		Color:  core.ColorDarkGray,
		Sealed: sealNone,
	})
	Register(Definition{
		ID:     "conveyor",
		Title:  "Conveyor Junction",
		Glyph:  '+',
		Color:  core.ColorBlue,
		Sealed: sealNone,
	})
}

func sealAll(State) FaceMask {
	return AllFaces
}

func sealNone(State) FaceMask {
	return 0
}

// sealFront seals only the face the panel points at.
func sealFront(s State) FaceMask {
	return Face(s.Facing)
}

// sealDoor closes both faces across the door's axis unless open.
func sealDoor(s State) FaceMask {
	if s.Open {
		return 0
	}
	return Face(s.Facing) | Face(s.Facing.Opposite())
}
