package ship

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/leakscan/internal/blocks"
	"github.com/vovakirdan/leakscan/internal/core"
)

// KindAir carves cells out of earlier entries.
const KindAir = "air"

// YAMLShip represents the YAML structure for a ship file.
type YAMLShip struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	GridSize float64           `yaml:"grid_size,omitempty"`
	Start    []int             `yaml:"start,flow,omitempty"`
	Blocks   []YAMLBlock       `yaml:"blocks"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLBlock places one block, or fills the region between At and To.
// Entries apply in order, so later entries overwrite earlier cells.
type YAMLBlock struct {
	At     []int  `yaml:"at,flow"`
	To     []int  `yaml:"to,flow,omitempty"`
	Kind   string `yaml:"kind"`
	Hollow bool   `yaml:"hollow,omitempty"` // Fill only the shell of the region
	Facing string `yaml:"facing,omitempty"`
	Open   bool   `yaml:"open,omitempty"`
}

// Parse parses a YAML ship file.
func Parse(data []byte) (*Ship, error) {
	var ys YAMLShip
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if ys.ID == "" {
		return nil, fmt.Errorf("ship has no id")
	}

	s := New(ys.ID, ys.Name, ys.GridSize)
	if s.Name == "" {
		s.Name = ys.ID
	}
	s.Metadata = ys.Metadata

	if len(ys.Start) > 0 {
		start, err := vecFromList(ys.Start)
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
		s.Start = start
		s.HasStart = true
	}

	for i, yb := range ys.Blocks {
		if err := applyBlock(s, yb); err != nil {
			return nil, fmt.Errorf("blocks[%d]: %w", i, err)
		}
	}

	return s, nil
}

func applyBlock(s *Ship, yb YAMLBlock) error {
	at, err := vecFromList(yb.At)
	if err != nil {
		return fmt.Errorf("at: %w", err)
	}
	to := at
	if len(yb.To) > 0 {
		if to, err = vecFromList(yb.To); err != nil {
			return fmt.Errorf("to: %w", err)
		}
	}

	state := blocks.State{Facing: core.Forward, Open: yb.Open}
	if yb.Facing != "" {
		d, ok := core.ParseDirection(yb.Facing)
		if !ok {
			return fmt.Errorf("unknown facing %q", yb.Facing)
		}
		state.Facing = d
	}

	if yb.Kind != KindAir && !blocks.Exists(yb.Kind) {
		return fmt.Errorf("unknown kind %q", yb.Kind)
	}

	region := core.NewBox(at, to)
	carved := false
	for x := region.Min.X; x <= region.Max.X; x++ {
		for y := region.Min.Y; y <= region.Max.Y; y++ {
			for z := region.Min.Z; z <= region.Max.Z; z++ {
				p := core.V(x, y, z)
				if yb.Hollow && region.DistanceTo(p) > 0 {
					continue
				}
				if yb.Kind == KindAir {
					if s.remove(p) {
						carved = true
					}
					continue
				}
				if err := s.Place(p, yb.Kind, state); err != nil {
					return err
				}
			}
		}
	}
	if carved {
		s.recomputeBounds()
	}
	return nil
}

func vecFromList(v []int) (core.Vec3I, error) {
	if len(v) != 3 {
		return core.Vec3I{}, fmt.Errorf("expected [x, y, z], got %d values", len(v))
	}
	return core.V(v[0], v[1], v[2]), nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
