package leak

import (
	"github.com/vovakirdan/leakscan/internal/core"
)

// Breadcrumb is a search node. Next points back toward the start cell;
// NextListElem links the node while it sits in the open list.
type Breadcrumb struct {
	Position     core.Vec3I
	Cost         int // PathCost plus the distance-to-box heuristic
	PathCost     int // Moves taken from the start cell
	Next         *Breadcrumb
	NextListElem *Breadcrumb
}

// MoveID identifies a directed move out of a cell. It is used as the explored
// key so a (cell, direction) pair is expanded at most once.
type MoveID struct {
	Position  core.Vec3I
	Direction core.Direction
	hash      uint64
}

// NewMoveID builds a MoveID with its hash precomputed.
func NewMoveID(pos core.Vec3I, dir core.Direction) MoveID {
	h := uint64(uint32(pos.X))*73856093 ^
		uint64(uint32(pos.Y))*19349663 ^
		uint64(uint32(pos.Z))*83492791
	h = h*6 + uint64(dir)
	return MoveID{Position: pos, Direction: dir, hash: h}
}

// Hash returns the precomputed hash.
func (m MoveID) Hash() uint64 {
	return m.hash
}

// openList keeps crumbs sorted by ascending Cost in a singly linked list.
// Pop is O(1); Push scans for the insertion point and places the crumb after
// every crumb of equal cost, so ties pop in insertion order.
type openList struct {
	head *Breadcrumb
	size int
}

func (l *openList) Empty() bool {
	return l.head == nil
}

func (l *openList) Len() int {
	return l.size
}

func (l *openList) Push(c *Breadcrumb) {
	l.size++
	if l.head == nil || c.Cost < l.head.Cost {
		c.NextListElem = l.head
		l.head = c
		return
	}

	prev := l.head
	for prev.NextListElem != nil && prev.NextListElem.Cost <= c.Cost {
		prev = prev.NextListElem
	}
	c.NextListElem = prev.NextListElem
	prev.NextListElem = c
}

// Pop removes and returns the cheapest crumb, or nil when empty.
func (l *openList) Pop() *Breadcrumb {
	c := l.head
	if c == nil {
		return nil
	}
	l.head = c.NextListElem
	c.NextListElem = nil
	l.size--
	return c
}
