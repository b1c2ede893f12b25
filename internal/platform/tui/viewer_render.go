package tui

import (
	"fmt"

	"github.com/vovakirdan/leakscan/internal/core"
)

// Map glyphs.
const (
	glyphEmpty      = '·'
	glyphPath       = '*'
	glyphPathOther  = ':'
	glyphPathUp     = '^'
	glyphPathDown   = 'v'
	glyphExit       = 'X'
	glyphParticle   = 'o'
	glyphTrail      = '∙'
	glyphCursor     = '@'
	glyphOpenMarker = '_'
)

// viewport is the window of world cells (X across, Z down) shown on screen.
type viewport struct {
	x, z int // World cell at the top-left of the map area
	w, h int
}

// toScreen maps a world cell to screen coordinates inside the map frame.
func (v viewport) toScreen(p core.Vec3I) (int, int, bool) {
	if p.X < v.x || p.X >= v.x+v.w || p.Z < v.z || p.Z >= v.z+v.h {
		return 0, 0, false
	}
	return 1 + p.X - v.x, 2 + p.Z - v.z, true
}

// viewport fits the inflated ship bounds into the map frame, scrolling to
// keep the cursor visible when the ship is larger than the terminal.
func (m ViewerModel) viewport() viewport {
	w := core.Max(0, m.screen.Width()-2)
	h := core.Max(0, m.screen.Height()-3)
	box := m.ship.Bounds().Inflate(1)

	return viewport{
		x: scrollAxis(box.Min.X, box.Max.X, m.cursor.X, w),
		z: scrollAxis(box.Min.Z, box.Max.Z, m.cursor.Z, h),
		w: w,
		h: h,
	}
}

func scrollAxis(min, max, cursor, span int) int {
	if max-min+1 <= span {
		return min
	}
	return core.Clamp(cursor-span/2, min, max-span+1)
}

// render draws the cursor's layer into the screen buffer.
// Draw order: blocks, trail, path, particles, cursor.
func (m ViewerModel) render() {
	s := m.screen
	s.Clear()

	layer := m.cursor.Y
	header := fmt.Sprintf(" %s  layer y=%d  cursor %d,%d,%d  [%s]",
		m.ship.Name, layer, m.cursor.X, m.cursor.Y, m.cursor.Z, m.scanner.Status())
	s.DrawText(0, 0, header, core.ColorBrightWhite)
	s.DrawBox(core.NewRect(0, 1, s.Width(), s.Height()-1), core.ColorDarkGray)

	vp := m.viewport()
	m.drawBlocks(vp, layer)
	if m.flow != nil {
		m.drawTrail(vp, layer)
	}
	m.drawPath(vp, layer)
	if m.flow != nil && m.cfg.Overlay.Particles {
		m.drawParticles(vp, layer)
	}
	if x, y, ok := vp.toScreen(m.cursor); ok {
		s.SetColored(x, y, glyphCursor, core.ColorBrightWhite)
	}

	if m.cfg.Viewer.ShowLegend {
		m.drawLegend()
	}
}

func (m ViewerModel) drawBlocks(vp viewport, layer int) {
	bounds := m.ship.Bounds()
	for z := vp.z; z < vp.z+vp.h; z++ {
		for x := vp.x; x < vp.x+vp.w; x++ {
			p := core.V(x, layer, z)
			if !bounds.Contains(p) {
				continue
			}
			sx, sy, _ := vp.toScreen(p)
			blk, ok := m.ship.BlockAt(p)
			if !ok {
				m.screen.SetColored(sx, sy, glyphEmpty, core.ColorDarkGray)
				continue
			}
			if blk.Def.Openable && blk.State.Open {
				m.screen.SetColored(sx, sy, glyphOpenMarker, core.ColorGreen)
				continue
			}
			m.screen.SetColored(sx, sy, blk.Def.Glyph, blk.Def.Color)
		}
	}
}

func (m ViewerModel) drawTrail(vp viewport, layer int) {
	for _, tp := range m.flow.Trail() {
		if tp.Cell.Y != layer {
			continue
		}
		if x, y, ok := vp.toScreen(tp.Cell); ok {
			c := core.ColorBlue
			if tp.Intensity > 0.5 {
				c = core.ColorCyan
			}
			m.screen.SetColored(x, y, glyphTrail, c)
		}
	}
}

// drawPath projects the whole path onto the layer. Cells on the layer are
// bright, cells above or below are dim, and vertical hops show their
// direction. The path is drawn over blocks.
func (m ViewerModel) drawPath(vp viewport, layer int) {
	lines := m.scanner.Lines()
	if len(lines) == 0 {
		return
	}

	for _, l := range lines {
		if l.Start.Y != layer && l.End.Y != layer {
			if x, y, ok := vp.toScreen(l.Start); ok && m.screen.Get(x, y) != glyphPath {
				m.screen.SetColored(x, y, glyphPathOther, core.ColorYellow)
			}
		}
	}
	for _, l := range lines {
		for _, p := range []core.Vec3I{l.Start, l.End} {
			if p.Y != layer {
				continue
			}
			if x, y, ok := vp.toScreen(p); ok {
				m.screen.SetColored(x, y, glyphPath, core.ColorBrightYellow)
			}
		}
	}
	// Air flows from End to Start; mark cells where it leaves the layer.
	for _, l := range lines {
		if l.End.Y != layer {
			continue
		}
		x, y, ok := vp.toScreen(l.End)
		if !ok {
			continue
		}
		switch d, _ := core.DirectionBetween(l.End, l.Start); d {
		case core.Up:
			m.screen.SetColored(x, y, glyphPathUp, core.ColorBrightYellow)
		case core.Down:
			m.screen.SetColored(x, y, glyphPathDown, core.ColorBrightYellow)
		}
	}

	exit := lines[0].Start
	if exit.Y == layer {
		if x, y, ok := vp.toScreen(exit); ok {
			m.screen.SetColored(x, y, glyphExit, core.ColorBrightRed)
		}
	}
}

func (m ViewerModel) drawParticles(vp viewport, layer int) {
	for _, p := range m.flow.Particles() {
		c := p.Cell()
		if c.Y != layer || p.Alpha <= 0 {
			continue
		}
		if x, y, ok := vp.toScreen(c); ok {
			color := core.ColorCyan
			if p.Alpha > 0.5 {
				color = core.ColorBrightCyan
			}
			m.screen.SetColored(x, y, glyphParticle, color)
		}
	}
}

func (m ViewerModel) drawLegend() {
	legend := " @ cursor  * leak path  X breach  o air flow  _ open door "
	s := m.screen
	if len([]rune(legend))+2 > s.Width() || s.Height() < 3 {
		return
	}
	s.DrawText(s.Width()-len([]rune(legend))-1, s.Height()-1, legend, core.ColorGray)
}

// pathOnLayer reports whether any path cell lies on the layer.
func pathOnLayer(lines []core.LineI, layer int) bool {
	for _, l := range lines {
		if l.Start.Y == layer || l.End.Y == layer {
			return true
		}
	}
	return false
}
