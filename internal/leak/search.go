// Package leak finds the path air takes out of a ship grid.
//
// Search walks outward from a start cell, one face at a time, refusing moves
// that cross an airtight face, until it steps outside the grid's bounding box
// (a leak) or runs out of cells (sealed). Scanner wraps Search in the
// idle/running/draw lifecycle the viewer drives every frame.
package leak

import (
	"context"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/leakscan/internal/core"
)

// Grid is the read-only view of a ship the search needs.
// All methods must be safe to call from the search goroutine.
type Grid interface {
	// Bounds returns the inclusive box of occupied cells.
	Bounds() core.Box
	// IsAirtightBetween reports whether air cannot move from a into adjacent b.
	IsAirtightBetween(a, b core.Vec3I) bool
	// CellSize returns the edge length of one cell in meters.
	CellSize() float64
}

// SearchStats counts the work a search did.
type SearchStats struct {
	Expansions int // (cell, direction) pairs explored
	Queued     int // Crumbs pushed to the open list
	Popped     int // Crumbs taken from the open list
}

// Search runs a best-first search from start until it leaves grid's bounding
// box. It returns the crumb outside the box (follow Next back to start), or
// nil when the volume is sealed. The only error is ctx's, on cancellation.
func Search(ctx context.Context, grid Grid, start core.Vec3I) (*Breadcrumb, SearchStats, error) {
	var stats SearchStats

	box := grid.Bounds()
	inflated := box.Inflate(1)
	explored := mapset.New[MoveID]()

	var open openList
	open.Push(&Breadcrumb{Position: start})
	stats.Queued++

	for !open.Empty() {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		c := open.Pop()
		stats.Popped++

		if box.DistanceTo(c.Position) < 0 {
			return c, stats, nil
		}

		for _, dir := range core.Directions {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}

			id := NewMoveID(c.Position, dir)
			if explored.Has(id) {
				continue
			}
			explored.Put(id)
			stats.Expansions++

			target := c.Position.Step(dir)
			dist := box.DistanceTo(target)
			if dist < 0 {
				return &Breadcrumb{
					Position: target,
					PathCost: c.PathCost + 1,
					Cost:     c.PathCost + 1,
					Next:     c,
				}, stats, nil
			}

			if inflated.Contains(target) && !grid.IsAirtightBetween(c.Position, target) {
				pathCost := c.PathCost + 1
				open.Push(&Breadcrumb{
					Position: target,
					PathCost: pathCost,
					Cost:     pathCost + dist + 1,
					Next:     c,
				})
				stats.Queued++
			}
		}
	}

	return nil, stats, nil
}

// PathCells returns the cells of a found path from the exit back to the start.
func PathCells(exit *Breadcrumb) []core.Vec3I {
	var cells []core.Vec3I
	for c := exit; c != nil; c = c.Next {
		cells = append(cells, c.Position)
	}
	return cells
}

// PathLines returns the path as segments ordered from the exit back to the
// start. A nil or single-cell path has no segments.
func PathLines(exit *Breadcrumb) []core.LineI {
	var lines []core.LineI
	for c := exit; c != nil && c.Next != nil; c = c.Next {
		lines = append(lines, core.LineI{Start: c.Position, End: c.Next.Position})
	}
	return lines
}
