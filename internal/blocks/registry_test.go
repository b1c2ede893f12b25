package blocks

import (
	"testing"

	"github.com/vovakirdan/leakscan/internal/core"
)

func TestBuiltinKindsRegistered(t *testing.T) {
	for _, id := range []string{"armor", "window", "door", "hatch", "panel", "frame", "conveyor"} {
		if !Exists(id) {
			t.Errorf("kind %q should be registered", id)
		}
	}

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Fatalf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("reactor"); err == nil {
		t.Error("Lookup of an unknown kind should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate kind should panic")
		}
	}()
	Register(Definition{ID: "armor", Sealed: sealAll})
}

func TestSealRules(t *testing.T) {
	tests := []struct {
		kind  string
		state State
		faces int
		has   []core.Direction
	}{
		{"armor", State{}, 6, core.Directions[:]},
		{"frame", State{}, 0, nil},
		{"panel", State{Facing: core.Up}, 1, []core.Direction{core.Up}},
		{"door", State{Facing: core.Right}, 2, []core.Direction{core.Right, core.Left}},
		{"door", State{Facing: core.Right, Open: true}, 0, nil},
	}

	for _, tc := range tests {
		def, err := Lookup(tc.kind)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tc.kind, err)
		}
		mask := def.Sealed(tc.state)
		if mask.Count() != tc.faces {
			t.Errorf("%s %+v seals %d faces, expected %d", tc.kind, tc.state, mask.Count(), tc.faces)
		}
		for _, d := range tc.has {
			if !mask.Has(d) {
				t.Errorf("%s %+v should seal %s", tc.kind, tc.state, d)
			}
		}
	}
}
