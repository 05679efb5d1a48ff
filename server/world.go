package server

// TickOutcome 单次推进的结果
type TickOutcome int

const (
	TickMoved TickOutcome = iota
	TickAteFood
	TickCollided
	TickBoardFull // 吃到食物后已无空格可放新食物
)

// InitialSnake 开局的三节蛇身，蛇头在前，水平向右
func InitialSnake() []Cell {
	return []Cell{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}
}

// World 房间内的权威游戏状态：蛇、食物、当前方向
type World struct {
	Snake      []Cell
	Food       Cell
	Direction  Direction
	Size       int
	InitialLen int
}

// NewWorld 以给定蛇身开局，食物由 spawner 生成
func NewWorld(snake []Cell, dir Direction, size int, spawner *FoodSpawner) (*World, bool) {
	w := &World{
		Snake:      append([]Cell(nil), snake...),
		Direction:  dir,
		Size:       size,
		InitialLen: len(snake),
	}
	food, ok := spawner.Spawn(w.Snake)
	if !ok {
		return nil, false
	}
	w.Food = food
	return w, true
}

// Head 当前蛇头
func (w *World) Head() Cell {
	return w.Snake[0]
}

// Score 相对开局长度的增长
func (w *World) Score() int {
	return len(w.Snake) - w.InitialLen
}

// Advance 推进一格：计算新蛇头 → 回绕 → 自撞检测 → 食物检测。
// 自撞时蛇身保持不变。
func (w *World) Advance(spawner *FoodSpawner) TickOutcome {
	next := Step(w.Head(), w.Direction, w.Size)
	if ContainsCell(w.Snake, next) {
		return TickCollided
	}

	if next == w.Food {
		w.Snake = append([]Cell{next}, w.Snake...)
		food, ok := spawner.Spawn(w.Snake)
		if !ok {
			return TickBoardFull
		}
		w.Food = food
		return TickAteFood
	}

	w.Snake = append([]Cell{next}, w.Snake[:len(w.Snake)-1]...)
	return TickMoved
}

// SnakeCopy 广播用的副本，避免写协程读到被修改的切片
func (w *World) SnakeCopy() []Cell {
	return append([]Cell(nil), w.Snake...)
}
