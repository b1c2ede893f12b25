// Package overlay animates a found leak path: particles drift from the scan
// start toward the breach, leaving short fading trails behind them.
package overlay

import (
	"math"
	"time"

	"github.com/vovakirdan/leakscan/internal/core"
)

// Settings tune the animation.
type Settings struct {
	SpawnInterval time.Duration // Time between particles leaving the start cell
	Speed         float64       // Cells per second
	TrailLife     time.Duration // How long a trail point stays visible
	Fade          time.Duration // Fade in after spawn and fade out before the exit
}

// DefaultSettings returns the stock animation timing.
func DefaultSettings() Settings {
	return Settings{
		SpawnInterval: 400 * time.Millisecond,
		Speed:         6,
		TrailLife:     600 * time.Millisecond,
		Fade:          250 * time.Millisecond,
	}
}

// Point is a continuous position in cell units.
type Point struct {
	X, Y, Z float64
}

// Cell returns the cell containing p.
func (p Point) Cell() core.Vec3I {
	return core.V(int(math.Round(p.X)), int(math.Round(p.Y)), int(math.Round(p.Z)))
}

func pointOf(v core.Vec3I) Point {
	return Point{float64(v.X), float64(v.Y), float64(v.Z)}
}

func lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// Particle is one moving marker along the path.
type Particle struct {
	Pos   Point
	Alpha float64 // 0..1

	dist float64 // Cells travelled from the start
	age  time.Duration
}

// Cell returns the cell the particle is in.
func (p Particle) Cell() core.Vec3I {
	return p.Pos.Cell()
}

// TrailPoint is a cell a particle passed through recently.
type TrailPoint struct {
	Cell      core.Vec3I
	Intensity float64 // 1 when fresh, 0 when expired

	age time.Duration
}

// Flow is the animation state for one path. Not safe for concurrent use.
type Flow struct {
	settings  Settings
	path      []core.Vec3I // Start first, exit last
	particles []Particle
	trail     []TrailPoint
	untilNext time.Duration
}

// NewFlow builds the animation for lines ordered from the exit back to the
// start, as the scanner reports them.
func NewFlow(lines []core.LineI, settings Settings) *Flow {
	if settings.SpawnInterval <= 0 || settings.Speed <= 0 {
		def := DefaultSettings()
		if settings.SpawnInterval <= 0 {
			settings.SpawnInterval = def.SpawnInterval
		}
		if settings.Speed <= 0 {
			settings.Speed = def.Speed
		}
	}

	f := &Flow{settings: settings}
	if len(lines) == 0 {
		return f
	}
	f.path = make([]core.Vec3I, 0, len(lines)+1)
	f.path = append(f.path, lines[len(lines)-1].End)
	for i := len(lines) - 1; i >= 0; i-- {
		f.path = append(f.path, lines[i].Start)
	}
	return f
}

// Path returns the cells from the start to the exit.
func (f *Flow) Path() []core.Vec3I {
	return f.path
}

// Length returns the path length in cells.
func (f *Flow) Length() float64 {
	if len(f.path) < 2 {
		return 0
	}
	return float64(len(f.path) - 1)
}

// Empty reports whether there is nothing to animate.
func (f *Flow) Empty() bool {
	return len(f.path) < 2
}

// Particles returns the live particles.
func (f *Flow) Particles() []Particle {
	return f.particles
}

// Trail returns the live trail points, oldest first.
func (f *Flow) Trail() []TrailPoint {
	return f.trail
}

// Update advances the animation by dt.
func (f *Flow) Update(dt time.Duration) {
	if f.Empty() || dt <= 0 {
		return
	}

	f.ageTrail(dt)

	step := f.settings.Speed * dt.Seconds()
	alive := f.particles[:0]
	for _, p := range f.particles {
		prev := p.Cell()
		p.dist += step
		p.age += dt
		if p.dist >= f.Length() {
			f.leaveTrail(prev)
			continue
		}
		f.place(&p)
		if c := p.Cell(); c != prev {
			f.leaveTrail(prev)
		}
		alive = append(alive, p)
	}
	f.particles = alive

	f.untilNext -= dt
	for f.untilNext <= 0 {
		p := Particle{}
		f.place(&p)
		f.particles = append(f.particles, p)
		f.untilNext += f.settings.SpawnInterval
	}
}

// place sets the position and alpha of p from its distance and age.
func (f *Flow) place(p *Particle) {
	seg := int(p.dist)
	if seg >= len(f.path)-1 {
		seg = len(f.path) - 2
	}
	p.Pos = lerp(pointOf(f.path[seg]), pointOf(f.path[seg+1]), p.dist-float64(seg))

	p.Alpha = 1
	fade := f.settings.Fade.Seconds()
	if fade <= 0 {
		return
	}
	if in := p.age.Seconds() / fade; in < p.Alpha {
		p.Alpha = in
	}
	left := (f.Length() - p.dist) / f.settings.Speed
	if out := left / fade; out < p.Alpha {
		p.Alpha = out
	}
	p.Alpha = core.ClampF(p.Alpha, 0, 1)
}

func (f *Flow) leaveTrail(c core.Vec3I) {
	if f.settings.TrailLife <= 0 {
		return
	}
	f.trail = append(f.trail, TrailPoint{Cell: c, Intensity: 1})
}

func (f *Flow) ageTrail(dt time.Duration) {
	life := f.settings.TrailLife
	kept := f.trail[:0]
	for _, tp := range f.trail {
		tp.age += dt
		if tp.age >= life {
			continue
		}
		tp.Intensity = 1 - float64(tp.age)/float64(life)
		kept = append(kept, tp)
	}
	f.trail = kept
}
