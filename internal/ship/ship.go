// Package ship models a voxel ship grid: blocks placed on integer cells, each
// sealing some of its faces against air flow. A Ship satisfies leak.Grid.
package ship

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/leakscan/internal/blocks"
	"github.com/vovakirdan/leakscan/internal/core"
)

// Grid sizes of the two block scales, in meters per cell.
const (
	LargeGridSize = 2.5
	SmallGridSize = 0.5
)

// Block is a placed block instance.
type Block struct {
	Pos   core.Vec3I
	Def   blocks.Definition
	State blocks.State
}

// Sealed returns the faces this block currently seals.
func (b Block) Sealed() blocks.FaceMask {
	return b.Def.Sealed(b.State)
}

// Ship is a grid of blocks.
//
// A Ship is read concurrently by a running leak search; callers must not
// mutate it (Place, Remove, ToggleOpen) while a scan over it is in flight.
type Ship struct {
	ID       string
	Name     string
	GridSize float64
	Start    core.Vec3I // Suggested scan start cell
	HasStart bool
	Metadata map[string]string
	FilePath string

	blocks map[core.Vec3I]Block
	bounds core.Box
}

// New creates an empty ship.
func New(id, name string, gridSize float64) *Ship {
	if gridSize <= 0 {
		gridSize = LargeGridSize
	}
	return &Ship{
		ID:       id,
		Name:     name,
		GridSize: gridSize,
		blocks:   make(map[core.Vec3I]Block),
	}
}

// Place puts a block of the given kind at pos, replacing any block there.
func (s *Ship) Place(pos core.Vec3I, kind string, state blocks.State) error {
	def, err := blocks.Lookup(kind)
	if err != nil {
		return fmt.Errorf("ship: cannot place at %s: %w", pos, err)
	}

	if len(s.blocks) == 0 {
		s.bounds = core.Box{Min: pos, Max: pos}
	} else {
		s.bounds = s.bounds.Include(pos)
	}
	s.blocks[pos] = Block{Pos: pos, Def: def, State: state}
	return nil
}

// Remove deletes the block at pos. Returns false if the cell was empty.
func (s *Ship) Remove(pos core.Vec3I) bool {
	if !s.remove(pos) {
		return false
	}
	// Only a block on the bounds face can shrink them.
	if s.bounds.DistanceTo(pos) == 0 {
		s.recomputeBounds()
	}
	return true
}

// remove deletes the block at pos and leaves the bounds stale. Callers
// removing many cells recompute the bounds once afterwards.
func (s *Ship) remove(pos core.Vec3I) bool {
	if _, ok := s.blocks[pos]; !ok {
		return false
	}
	delete(s.blocks, pos)
	return true
}

func (s *Ship) recomputeBounds() {
	first := true
	for pos := range s.blocks {
		if first {
			s.bounds = core.Box{Min: pos, Max: pos}
			first = false
			continue
		}
		s.bounds = s.bounds.Include(pos)
	}
	if first {
		s.bounds = core.Box{}
	}
}

// BlockAt returns the block occupying pos.
func (s *Ship) BlockAt(pos core.Vec3I) (Block, bool) {
	b, ok := s.blocks[pos]
	return b, ok
}

// Len returns the number of placed blocks.
func (s *Ship) Len() int {
	return len(s.blocks)
}

// Blocks returns all blocks ordered by Y, then Z, then X.
func (s *Ship) Blocks() []Block {
	result := make([]Block, 0, len(s.blocks))
	for _, b := range s.blocks {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Pos, result[j].Pos
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return result
}

// ToggleOpen opens or closes an openable block and returns its new state.
func (s *Ship) ToggleOpen(pos core.Vec3I) (bool, error) {
	b, ok := s.blocks[pos]
	if !ok {
		return false, fmt.Errorf("ship: no block at %s", pos)
	}
	if !b.Def.Openable {
		return false, fmt.Errorf("ship: %s at %s cannot be opened", b.Def.Title, pos)
	}
	b.State.Open = !b.State.Open
	s.blocks[pos] = b
	return b.State.Open, nil
}

// Bounds returns the box spanning every placed block.
func (s *Ship) Bounds() core.Box {
	return s.bounds
}

// CellSize returns the edge length of one cell in meters.
func (s *Ship) CellSize() float64 {
	return s.GridSize
}

// IsAirtightBetween reports whether air cannot pass from cell a into the
// adjacent cell b. Cells that are not face neighbours never connect.
func (s *Ship) IsAirtightBetween(a, b core.Vec3I) bool {
	dir, ok := core.DirectionBetween(a, b)
	if !ok {
		return true
	}
	if blk, ok := s.blocks[a]; ok && blk.Sealed().Has(dir) {
		return true
	}
	if blk, ok := s.blocks[b]; ok && blk.Sealed().Has(dir.Opposite()) {
		return true
	}
	return false
}
