// Package blocks provides a global registry of block definitions.
// Block kinds register themselves in init() functions, allowing ship files to
// name a kind without the grid code hard-coding every block type.
package blocks

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/leakscan/internal/core"
)

// FaceMask is a set of block faces, one bit per core.Direction.
type FaceMask uint8

// AllFaces seals every side of a block.
const AllFaces FaceMask = 1<<6 - 1

// Face returns the mask with a single face set.
func Face(d core.Direction) FaceMask {
	return 1 << d
}

// Has reports whether the face in direction d is part of the mask.
func (m FaceMask) Has(d core.Direction) bool {
	return m&Face(d) != 0
}

// Count returns the number of faces in the mask.
func (m FaceMask) Count() int {
	n := 0
	for _, d := range core.Directions {
		if m.Has(d) {
			n++
		}
	}
	return n
}

// State is the per-instance data that affects how a block seals.
type State struct {
	Facing core.Direction // Direction the block's front points to
	Open   bool           // Doors and hatches only
}

// Definition describes a block kind.
type Definition struct {
	// ID is the kind name used in ship files (e.g., "armor", "door").
	ID string

	// Title is a human-readable name for display.
	Title string

	// Glyph and Color are used by the top-down viewer.
	Glyph rune
	Color core.Color

	// Openable marks kinds that can be toggled open/closed.
	Openable bool

	// Sealed returns the faces that block air for the given state.
	Sealed func(s State) FaceMask
}

var (
	definitions = make(map[string]Definition)
	mu          sync.RWMutex
)

// Register adds a block definition to the registry.
// Typically called from an init() function.
// Panics if a definition with the same ID is already registered.
func Register(def Definition) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := definitions[def.ID]; exists {
		panic(fmt.Sprintf("blocks: kind %q already registered", def.ID))
	}
	if def.Sealed == nil {
		panic(fmt.Sprintf("blocks: kind %q has no seal rule", def.ID))
	}

	definitions[def.ID] = def
}

// List returns all registered definitions, sorted by ID.
func List() []Definition {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Definition, 0, len(definitions))
	for _, def := range definitions {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the definition registered under id.
// Returns an error if the kind is not registered.
func Lookup(id string) (Definition, error) {
	mu.RLock()
	defer mu.RUnlock()

	def, ok := definitions[id]
	if !ok {
		return Definition{}, fmt.Errorf("blocks: unknown kind %q", id)
	}
	return def, nil
}

// Exists checks if a kind with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := definitions[id]
	return ok
}
