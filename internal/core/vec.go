package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Vec3I is an integer cell coordinate in grid space.
type Vec3I struct {
	X, Y, Z int
}

// V is a convenience constructor for Vec3I.
func V(x, y, z int) Vec3I {
	return Vec3I{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum.
func (v Vec3I) Add(o Vec3I) Vec3I {
	return Vec3I{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the component-wise difference.
func (v Vec3I) Sub(o Vec3I) Vec3I {
	return Vec3I{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Step returns the neighbouring cell in the given direction.
func (v Vec3I) Step(d Direction) Vec3I {
	return v.Add(d.Vector())
}

// Manhattan returns the Manhattan distance to another cell.
func (v Vec3I) Manhattan(o Vec3I) int {
	return Abs(v.X-o.X) + Abs(v.Y-o.Y) + Abs(v.Z-o.Z)
}

// String returns a string representation of the cell.
func (v Vec3I) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// ParseVec3I parses "x,y,z" into a Vec3I. Spaces around each component
// are allowed; anything else is an error.
func ParseVec3I(s string) (Vec3I, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Vec3I{}, fmt.Errorf("invalid cell %q (want x,y,z)", s)
	}
	var c [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Vec3I{}, fmt.Errorf("invalid cell %q (want x,y,z): %w", s, err)
		}
		c[i] = n
	}
	return Vec3I{X: c[0], Y: c[1], Z: c[2]}, nil
}

// Direction is one of the six axis-aligned directions.
type Direction uint8

// Directions are listed in expansion order. The order is part of the search's
// tie-breaking and must stay stable.
const (
	Forward  Direction = iota // -Z
	Backward                  // +Z
	Left                      // -X
	Right                     // +X
	Up                        // +Y
	Down                      // -Y
)

// Directions holds all six directions in expansion order.
var Directions = [6]Direction{Forward, Backward, Left, Right, Up, Down}

var directionVectors = [6]Vec3I{
	Forward:  {0, 0, -1},
	Backward: {0, 0, 1},
	Left:     {-1, 0, 0},
	Right:    {1, 0, 0},
	Up:       {0, 1, 0},
	Down:     {0, -1, 0},
}

// Vector returns the unit offset of the direction.
func (d Direction) Vector() Vec3I {
	return directionVectors[d]
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// ParseDirection accepts names ("up") or signed axes ("+y", "-z").
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "forward", "-z":
		return Forward, true
	case "backward", "+z", "z":
		return Backward, true
	case "left", "-x":
		return Left, true
	case "right", "+x", "x":
		return Right, true
	case "up", "+y", "y":
		return Up, true
	case "down", "-y":
		return Down, true
	}
	return Forward, false
}

// DirectionBetween returns the direction from a to an adjacent cell b.
// ok is false when the cells are not face neighbours.
func DirectionBetween(a, b Vec3I) (Direction, bool) {
	delta := b.Sub(a)
	for _, d := range Directions {
		if d.Vector() == delta {
			return d, true
		}
	}
	return Forward, false
}

// LineI is an integer-space segment between two cells.
type LineI struct {
	Start Vec3I
	End   Vec3I
}

// String returns a string representation of the segment.
func (l LineI) String() string {
	return l.Start.String() + "->" + l.End.String()
}
