package server

import "math/rand"

// FoodSpawner 在未被蛇身占据的格子上生成食物。
// 非并发安全：每个房间持有自己的实例，只在房间协程中使用。
type FoodSpawner struct {
	rng  *rand.Rand
	size int
}

func NewFoodSpawner(size int, seed int64) *FoodSpawner {
	return &FoodSpawner{rng: rand.New(rand.NewSource(seed)), size: size}
}

// Spawn 均匀随机采样，命中 occupied 则重新采样。
// occupied 覆盖整个棋盘时没有可用格子，返回 ok=false。
func (f *FoodSpawner) Spawn(occupied []Cell) (Cell, bool) {
	free := f.size*f.size - distinctCells(occupied)
	if free <= 0 {
		return Cell{}, false
	}
	for {
		c := Cell{X: f.rng.Intn(f.size), Y: f.rng.Intn(f.size)}
		if !ContainsCell(occupied, c) {
			return c, true
		}
	}
}

func distinctCells(cells []Cell) int {
	seen := make(map[Cell]struct{}, len(cells))
	for _, c := range cells {
		seen[c] = struct{}{}
	}
	return len(seen)
}
