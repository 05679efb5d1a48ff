package server

// DirectionSet 某个玩家槽位被授权操控的方向集合
type DirectionSet []Direction

// Allows 该集合是否包含方向 d
func (s DirectionSet) Allows(d Direction) bool {
	for _, x := range s {
		if x == d {
			return true
		}
	}
	return false
}

// AssignDirections 按目标人数把四个方向划分给各槽位，下标即槽位号。
// 不支持的人数返回空切片（CreateRoom 已拒绝这种房间）。
func AssignDirections(targetPlayerCount int) []DirectionSet {
	switch targetPlayerCount {
	case 1:
		return []DirectionSet{{DirUp, DirDown, DirLeft, DirRight}}
	case 2:
		return []DirectionSet{{DirUp, DirDown}, {DirLeft, DirRight}}
	case 4:
		return []DirectionSet{{DirUp}, {DirRight}, {DirDown}, {DirLeft}}
	default:
		return []DirectionSet{}
	}
}

// ValidPlayerCount 房间只允许 1、2、4 人
func ValidPlayerCount(n int) bool {
	return n == 1 || n == 2 || n == 4
}
