package leak

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/leakscan/internal/core"
)

// testGrid is an in-memory Grid: solid cells seal every face, and individual
// face pairs can be sealed on top of that.
type testGrid struct {
	box    core.Box
	size   float64
	solid  map[core.Vec3I]bool
	sealed map[[2]core.Vec3I]bool

	delay   time.Duration
	panics  bool
	started chan struct{}
	once    sync.Once
}

func newTestGrid(min, max core.Vec3I) *testGrid {
	return &testGrid{
		box:     core.NewBox(min, max),
		size:    2.5,
		solid:   make(map[core.Vec3I]bool),
		sealed:  make(map[[2]core.Vec3I]bool),
		started: make(chan struct{}),
	}
}

// shell marks every cell on the box surface solid.
func (g *testGrid) shell() *testGrid {
	g.each(func(p core.Vec3I) {
		if g.box.DistanceTo(p) == 0 {
			g.solid[p] = true
		}
	})
	return g
}

func (g *testGrid) each(fn func(core.Vec3I)) {
	for x := g.box.Min.X; x <= g.box.Max.X; x++ {
		for y := g.box.Min.Y; y <= g.box.Max.Y; y++ {
			for z := g.box.Min.Z; z <= g.box.Max.Z; z++ {
				fn(core.V(x, y, z))
			}
		}
	}
}

func (g *testGrid) seal(a, b core.Vec3I) {
	g.sealed[pairKey(a, b)] = true
}

func pairKey(a, b core.Vec3I) [2]core.Vec3I {
	if a.X > b.X || (a.X == b.X && (a.Y > b.Y || (a.Y == b.Y && a.Z > b.Z))) {
		a, b = b, a
	}
	return [2]core.Vec3I{a, b}
}

func (g *testGrid) Bounds() core.Box {
	return g.box
}

func (g *testGrid) CellSize() float64 {
	return g.size
}

func (g *testGrid) IsAirtightBetween(a, b core.Vec3I) bool {
	g.once.Do(func() { close(g.started) })
	if g.panics {
		panic("airtightness query failed")
	}
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	return g.solid[a] || g.solid[b] || g.sealed[pairKey(a, b)]
}

// randomShip builds an n³ hull with random interior walls and, when hole is
// true, one breach in the hull. It returns the grid and a free start cell.
func randomShip(rng *rand.Rand, n int, hole bool) (*testGrid, core.Vec3I) {
	g := newTestGrid(core.V(0, 0, 0), core.V(n-1, n-1, n-1)).shell()
	g.each(func(p core.Vec3I) {
		if g.box.DistanceTo(p) > 0 && rng.Float64() < 0.25 {
			g.solid[p] = true
		}
	})
	for i := 0; i < n; i++ {
		a := core.V(1+rng.Intn(n-2), 1+rng.Intn(n-2), 1+rng.Intn(n-2))
		d := core.Directions[rng.Intn(6)]
		g.seal(a, a.Step(d))
	}

	if hole {
		// Breach the centre of a random hull face
		c := n / 2
		faces := []core.Vec3I{
			core.V(0, c, c), core.V(n-1, c, c),
			core.V(c, 0, c), core.V(c, n-1, c),
			core.V(c, c, 0), core.V(c, c, n-1),
		}
		delete(g.solid, faces[rng.Intn(len(faces))])
	}

	var free []core.Vec3I
	g.each(func(p core.Vec3I) {
		if g.box.DistanceTo(p) > 0 && !g.solid[p] {
			free = append(free, p)
		}
	})
	if len(free) == 0 {
		c := core.V(n/2, n/2, n/2)
		delete(g.solid, c)
		return g, c
	}
	return g, free[rng.Intn(len(free))]
}

// leakReachable answers the same question as Search by plain flood fill.
func leakReachable(g *testGrid, start core.Vec3I) bool {
	seen := map[core.Vec3I]bool{start: true}
	queue := []core.Vec3I{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range core.Directions {
			t := c.Step(d)
			if g.box.DistanceTo(t) < 0 {
				return true
			}
			if seen[t] || g.IsAirtightBetween(c, t) {
				continue
			}
			seen[t] = true
			queue = append(queue, t)
		}
	}
	return false
}
