package server

import (
	"encoding/json"
	"testing"
)

func TestStepWrapsAroundEdges(t *testing.T) {
	cases := []struct {
		from Cell
		dir  Direction
		want Cell
	}{
		{Cell{19, 10}, DirRight, Cell{0, 10}},
		{Cell{0, 10}, DirLeft, Cell{19, 10}},
		{Cell{5, 0}, DirUp, Cell{5, 19}},
		{Cell{5, 19}, DirDown, Cell{5, 0}},
		{Cell{10, 10}, DirRight, Cell{11, 10}},
	}
	for _, tc := range cases {
		if got := Step(tc.from, tc.dir, GridSize); got != tc.want {
			t.Errorf("Step(%v, %s) = %v, want %v", tc.from, tc.dir, got, tc.want)
		}
	}
}

func TestWrapNegative(t *testing.T) {
	if got := Wrap(-1, 20); got != 19 {
		t.Fatalf("Wrap(-1, 20) = %d, want 19", got)
	}
	if got := Wrap(-21, 20); got != 19 {
		t.Fatalf("Wrap(-21, 20) = %d, want 19", got)
	}
	if got := Wrap(40, 20); got != 0 {
		t.Fatalf("Wrap(40, 20) = %d, want 0", got)
	}
}

func TestDirectionOpposite(t *testing.T) {
	for _, d := range AllDirections {
		if d.Opposite().Opposite() != d {
			t.Errorf("opposite of opposite of %s is %s", d, d.Opposite().Opposite())
		}
		if d.Opposite() == d {
			t.Errorf("%s is its own opposite", d)
		}
	}
	if DirNone.Opposite() != DirNone {
		t.Fatalf("DirNone should have no opposite")
	}
}

func TestDirectionJSON(t *testing.T) {
	b, err := json.Marshal([]Direction{DirUp, DirLeft})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["up","left"]` {
		t.Fatalf("marshal = %s", b)
	}

	var d Direction
	if err := json.Unmarshal([]byte(`"RIGHT"`), &d); err != nil || d != DirRight {
		t.Fatalf("unmarshal RIGHT = %v, %v", d, err)
	}
	if err := json.Unmarshal([]byte(`"sideways"`), &d); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestParseDirectionRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "none", "north", "u"} {
		if _, ok := ParseDirection(s); ok {
			t.Errorf("ParseDirection(%q) accepted", s)
		}
	}
}
