package server

import (
	"reflect"
	"testing"
)

func newTestWorld(snake []Cell, dir Direction, food Cell) *World {
	return &World{
		Snake:      snake,
		Food:       food,
		Direction:  dir,
		Size:       GridSize,
		InitialLen: len(snake),
	}
}

func TestAdvanceMovesHeadKeepsLength(t *testing.T) {
	w := newTestWorld(InitialSnake(), DirRight, Cell{0, 0})
	sp := NewFoodSpawner(GridSize, 1)

	for _, want := range []Cell{{11, 10}, {12, 10}, {13, 10}} {
		if out := w.Advance(sp); out != TickMoved {
			t.Fatalf("outcome = %v, want TickMoved", out)
		}
		if w.Head() != want {
			t.Fatalf("head = %v, want %v", w.Head(), want)
		}
		if len(w.Snake) != 3 {
			t.Fatalf("length = %d, want 3", len(w.Snake))
		}
	}
	if want := []Cell{{13, 10}, {12, 10}, {11, 10}}; !reflect.DeepEqual(w.Snake, want) {
		t.Fatalf("snake = %v, want %v", w.Snake, want)
	}
}

func TestAdvanceWrapsAround(t *testing.T) {
	w := newTestWorld([]Cell{{19, 10}, {18, 10}, {17, 10}}, DirRight, Cell{5, 5})
	w.Advance(NewFoodSpawner(GridSize, 1))
	if w.Head() != (Cell{0, 10}) {
		t.Fatalf("head = %v, want {0 10}", w.Head())
	}

	w = newTestWorld([]Cell{{0, 10}, {1, 10}, {2, 10}}, DirLeft, Cell{5, 5})
	w.Advance(NewFoodSpawner(GridSize, 1))
	if w.Head() != (Cell{19, 10}) {
		t.Fatalf("head = %v, want {19 10}", w.Head())
	}
}

func TestAdvanceEatsFood(t *testing.T) {
	w := newTestWorld(InitialSnake(), DirRight, Cell{11, 10})
	if out := w.Advance(NewFoodSpawner(GridSize, 3)); out != TickAteFood {
		t.Fatalf("outcome = %v, want TickAteFood", out)
	}
	if len(w.Snake) != 4 {
		t.Fatalf("length = %d, want 4", len(w.Snake))
	}
	if w.Score() != 1 {
		t.Fatalf("score = %d, want 1", w.Score())
	}
	if ContainsCell(w.Snake, w.Food) {
		t.Fatalf("new food %v lies on snake", w.Food)
	}
}

func TestAdvanceSelfCollision(t *testing.T) {
	snake := []Cell{{5, 5}, {6, 5}, {6, 4}, {5, 4}, {4, 4}}
	w := newTestWorld(append([]Cell(nil), snake...), DirUp, Cell{0, 0})
	if out := w.Advance(NewFoodSpawner(GridSize, 1)); out != TickCollided {
		t.Fatalf("outcome = %v, want TickCollided", out)
	}
	if !reflect.DeepEqual(w.Snake, snake) {
		t.Fatalf("snake changed on collision: %v", w.Snake)
	}
}

func TestNewWorldPlacesFoodOffSnake(t *testing.T) {
	w, ok := NewWorld(InitialSnake(), DirRight, GridSize, NewFoodSpawner(GridSize, 9))
	if !ok {
		t.Fatal("NewWorld failed")
	}
	if ContainsCell(w.Snake, w.Food) {
		t.Fatalf("food %v on initial snake", w.Food)
	}
	if w.Score() != 0 {
		t.Fatalf("initial score = %d", w.Score())
	}
}
