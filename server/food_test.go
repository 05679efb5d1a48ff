package server

import "testing"

func TestSpawnAvoidsSnake(t *testing.T) {
	sp := NewFoodSpawner(GridSize, 42)
	snake := InitialSnake()
	for i := 0; i < 1000; i++ {
		c, ok := sp.Spawn(snake)
		if !ok {
			t.Fatalf("spawn failed with %d occupied cells", len(snake))
		}
		if ContainsCell(snake, c) {
			t.Fatalf("food %v placed on snake", c)
		}
		if c.X < 0 || c.X >= GridSize || c.Y < 0 || c.Y >= GridSize {
			t.Fatalf("food %v outside grid", c)
		}
	}
}

func TestSpawnFindsLastFreeCell(t *testing.T) {
	sp := NewFoodSpawner(GridSize, 7)
	var occupied []Cell
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if x == 13 && y == 4 {
				continue
			}
			occupied = append(occupied, Cell{x, y})
		}
	}
	c, ok := sp.Spawn(occupied)
	if !ok || c != (Cell{13, 4}) {
		t.Fatalf("Spawn = %v, %v; want {13 4}, true", c, ok)
	}
}

func TestSpawnFullGrid(t *testing.T) {
	sp := NewFoodSpawner(2, 1)
	if _, ok := sp.Spawn([]Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}); ok {
		t.Fatalf("expected no free cell on a full grid")
	}
}
