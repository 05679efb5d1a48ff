package server

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GridSize 棋盘边长（20×20，环形）
const GridSize = 20

// Cell 棋盘上的一个格子，坐标从 0 开始
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction 移动方向（服务端权威解释客户端“意图”）
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// AllDirections 四个基本方向，顺序固定
var AllDirections = []Direction{DirUp, DirDown, DirLeft, DirRight}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection 解析客户端传来的方向字符串（大小写不敏感）
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	default:
		return DirNone, false
	}
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" || s == "none" {
		*d = DirNone
		return nil
	}
	parsed, ok := ParseDirection(s)
	if !ok {
		return fmt.Errorf("unknown direction %q", s)
	}
	*d = parsed
	return nil
}

// Opposite 返回正相反的方向；DirNone 没有反方向
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

func (d Direction) delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Wrap 把任意坐标折回 [0, size-1]
func Wrap(v, size int) int {
	return ((v % size) + size) % size
}

// Step 沿方向移动一格，并做环形回绕
func Step(c Cell, d Direction, size int) Cell {
	dx, dy := d.delta()
	return Cell{X: Wrap(c.X+dx, size), Y: Wrap(c.Y+dy, size)}
}

// ContainsCell 判断 cells 中是否存在 c
func ContainsCell(cells []Cell, c Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
