package core

import "testing"

func TestBoxDistanceTo(t *testing.T) {
	b := NewBox(V(0, 0, 0), V(4, 4, 4))

	tests := []struct {
		name     string
		p        Vec3I
		expected int
	}{
		{"center", V(2, 2, 2), 2},
		{"near x min", V(1, 2, 2), 1},
		{"on face", V(4, 2, 2), 0},
		{"corner", V(0, 0, 0), 0},
		{"one past max x", V(5, 2, 2), -1},
		{"one before min z", V(2, 2, -1), -1},
		{"far outside y", V(2, 9, 2), -5},
		{"outside on two axes", V(-2, 6, 2), -2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.DistanceTo(tc.p); got != tc.expected {
				t.Errorf("DistanceTo(%v) = %d, expected %d", tc.p, got, tc.expected)
			}
		})
	}
}

func TestBoxDistanceSignMatchesContains(t *testing.T) {
	b := NewBox(V(-1, 0, 2), V(3, 2, 5))
	outer := b.Inflate(3)

	for x := outer.Min.X; x <= outer.Max.X; x++ {
		for y := outer.Min.Y; y <= outer.Max.Y; y++ {
			for z := outer.Min.Z; z <= outer.Max.Z; z++ {
				p := V(x, y, z)
				d := b.DistanceTo(p)
				if b.Contains(p) && d < 0 {
					t.Fatalf("inside point %v has negative distance %d", p, d)
				}
				if !b.Contains(p) && d >= 0 {
					t.Fatalf("outside point %v has non-negative distance %d", p, d)
				}
			}
		}
	}
}

func TestBoxInflateAndVolume(t *testing.T) {
	b := NewBox(V(2, 2, 2), V(0, 0, 0))
	if b.Min != V(0, 0, 0) || b.Max != V(2, 2, 2) {
		t.Fatalf("NewBox should order corners, got %+v", b)
	}
	if b.Volume() != 27 {
		t.Errorf("Volume() = %d, expected 27", b.Volume())
	}
	if got := b.Inflate(1).Volume(); got != 125 {
		t.Errorf("inflated Volume() = %d, expected 125", got)
	}
	if got := b.Include(V(5, -1, 1)); got.Max.X != 5 || got.Min.Y != -1 {
		t.Errorf("Include() = %+v", got)
	}
}

func TestDirections(t *testing.T) {
	seen := map[Vec3I]bool{}
	for _, d := range Directions {
		v := d.Vector()
		if v.Manhattan(Vec3I{}) != 1 {
			t.Errorf("%s is not a unit vector: %v", d, v)
		}
		if d.Opposite().Vector() != (Vec3I{}).Sub(v) {
			t.Errorf("Opposite(%s) = %s", d, d.Opposite())
		}
		seen[v] = true

		got, ok := DirectionBetween(V(1, 1, 1), V(1, 1, 1).Step(d))
		if !ok || got != d {
			t.Errorf("DirectionBetween for %s = %s, %v", d, got, ok)
		}
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 distinct directions, got %d", len(seen))
	}
	if _, ok := DirectionBetween(V(0, 0, 0), V(1, 1, 0)); ok {
		t.Error("diagonal cells are not face neighbours")
	}
}

func TestParseVec3IAndDirection(t *testing.T) {
	v, err := ParseVec3I("1,-2,3")
	if err != nil || v != V(1, -2, 3) {
		t.Errorf("ParseVec3I = %v, %v", v, err)
	}
	if v, err := ParseVec3I(" 4, 0 ,-1"); err != nil || v != V(4, 0, -1) {
		t.Errorf("ParseVec3I with spaces = %v, %v", v, err)
	}
	for _, bad := range []string{"1,2", "1,2,3x", "1,2,3,4", "1,,3", "a,b,c", ""} {
		if _, err := ParseVec3I(bad); err == nil {
			t.Errorf("ParseVec3I(%q) should fail", bad)
		}
	}

	for in, want := range map[string]Direction{"+x": Right, "up": Up, "-z": Forward} {
		if got, ok := ParseDirection(in); !ok || got != want {
			t.Errorf("ParseDirection(%q) = %s, %v", in, got, ok)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("ParseDirection should reject unknown names")
	}
}
