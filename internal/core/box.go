package core

// Box is an axis-aligned box of whole cells. Both Min and Max are inclusive.
type Box struct {
	Min Vec3I
	Max Vec3I
}

// NewBox returns the box spanning two corners in any order.
func NewBox(a, b Vec3I) Box {
	return Box{
		Min: Vec3I{X: Min(a.X, b.X), Y: Min(a.Y, b.Y), Z: Min(a.Z, b.Z)},
		Max: Vec3I{X: Max(a.X, b.X), Y: Max(a.Y, b.Y), Z: Max(a.Z, b.Z)},
	}
}

// Contains returns true if p lies inside the box.
func (b Box) Contains(p Vec3I) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Inflate grows the box by n cells on every side.
func (b Box) Inflate(n int) Box {
	d := Vec3I{X: n, Y: n, Z: n}
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Include grows the box to cover p.
func (b Box) Include(p Vec3I) Box {
	return NewBox(
		Vec3I{X: Min(b.Min.X, p.X), Y: Min(b.Min.Y, p.Y), Z: Min(b.Min.Z, p.Z)},
		Vec3I{X: Max(b.Max.X, p.X), Y: Max(b.Max.Y, p.Y), Z: Max(b.Max.Z, p.Z)},
	)
}

// Size returns the number of cells along each axis.
func (b Box) Size() Vec3I {
	return Vec3I{X: b.Max.X - b.Min.X + 1, Y: b.Max.Y - b.Min.Y + 1, Z: b.Max.Z - b.Min.Z + 1}
}

// Volume returns the number of cells in the box.
func (b Box) Volume() int {
	s := b.Size()
	return s.X * s.Y * s.Z
}

// DistanceTo returns the distance from p to the nearest face of the box.
// The result is >= 0 while p is inside and negative once p leaves the box on
// any axis.
func (b Box) DistanceTo(p Vec3I) int {
	dx := Min(b.Max.X-p.X, p.X-b.Min.X)
	dy := Min(b.Max.Y-p.Y, p.Y-b.Min.Y)
	dz := Min(b.Max.Z-p.Z, p.Z-b.Min.Z)
	return Min(dx, Min(dy, dz))
}
