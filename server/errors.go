package server

import "errors"

// 请求级错误：都在接收处就地处理，不会让进程退出
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room full")
	ErrDuplicateRoom    = errors.New("room already exists")
	ErrInvalidCapacity  = errors.New("target player count must be 1, 2 or 4")
	ErrHeartbeatTimeout = errors.New("heartbeat timeout")
)

// 方向变更被丢弃的原因，只用于日志与指标，不回给客户端
var (
	ErrNotRunning            = errors.New("game is not running")
	ErrDirectionUnauthorized = errors.New("direction not assigned to slot")
	ErrDirectionReversal     = errors.New("direction reverses current heading")
	ErrDirectionWindow       = errors.New("direction already changed this tick")
)

// errorCode 错误到协议中 error.code 的映射
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "roomNotFound"
	case errors.Is(err, ErrRoomFull):
		return "roomFull"
	case errors.Is(err, ErrDuplicateRoom):
		return "duplicateRoom"
	case errors.Is(err, ErrInvalidCapacity):
		return "invalidCapacity"
	default:
		return "invalidRequest"
	}
}
