package server

import (
	"encoding/json"
	"strings"
)

// 客户端 → 服务端消息类型
const (
	MsgCreateRoom        = "createRoom"
	MsgJoinRoom          = "joinRoom"
	MsgDirectionChange   = "directionChange"
	MsgFoodEaten         = "foodEaten"
	MsgUpdateSnake       = "updateSnake"
	MsgPlayerReconnected = "playerReconnected"
	MsgPong              = "pong"
)

// 服务端 → 客户端消息类型（MsgUpdateSnake、MsgPlayerReconnected 双向共用）
const (
	MsgPlayerJoined         = "playerJoined"
	MsgSetPlayerIndex       = "setPlayerIndex"
	MsgSetTargetPlayerCount = "setTargetPlayerCount"
	MsgUpdateDirections     = "updateDirections"
	MsgUpdateCountdown      = "updateCountdown"
	MsgStartGame            = "startGame"
	MsgUpdateDirection      = "updateDirection"
	MsgFoodPositionUpdate   = "foodPositionUpdate"
	MsgPlayerDisconnected   = "playerDisconnected"
	MsgResumeGame           = "resumeGame"
	MsgRoomFull             = "roomFull"
	MsgGameOver             = "gameOver"
	MsgPing                 = "ping"
	MsgError                = "error"
)

// Envelope 所有 WebSocket 文本消息的外层结构
// 示例：{"type":"directionChange","data":{"roomId":"r1","direction":"up"}}
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type CreateRoomRequest struct {
	RoomID            string `json:"roomId"`
	TargetPlayerCount int    `json:"targetPlayerCount"`
	Username          string `json:"username"`
}

func (r CreateRoomRequest) valid() bool {
	return strings.TrimSpace(r.RoomID) != "" && strings.TrimSpace(r.Username) != ""
}

// JoinRoomRequest 同时用于 joinRoom 与 playerReconnected
type JoinRoomRequest struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

func (r JoinRoomRequest) valid() bool {
	return strings.TrimSpace(r.RoomID) != "" && strings.TrimSpace(r.Username) != ""
}

type DirectionChangeRequest struct {
	RoomID    string `json:"roomId"`
	Direction string `json:"direction"`
}

type StartGamePayload struct {
	Directions []DirectionSet `json:"directions"`
	Snake      []Cell         `json:"snake"`
	Food       Cell           `json:"food"`
}

type DirectionPayload struct {
	Direction Direction `json:"direction"`
}

// PresencePayload 玩家断开/重连时广播给房间其他人
type PresencePayload struct {
	Username          string `json:"username"`
	RemainingPlayers  int    `json:"remainingPlayers"`
	TargetPlayerCount int    `json:"targetPlayerCount"`
}

type GameOverPayload struct {
	Score int `json:"score"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// encodeMessage 序列化一条出站消息；data 为 nil 时省略 data 字段
func encodeMessage(msgType string, data any) []byte {
	env := struct {
		Type string `json:"type"`
		Data any    `json:"data,omitempty"`
	}{Type: msgType, Data: data}
	b, err := json.Marshal(env)
	if err != nil {
		Log.Errorf("encode %s: %v", msgType, err)
		return nil
	}
	return b
}

func errorMessage(err error) []byte {
	return encodeMessage(MsgError, ErrorPayload{Code: errorCode(err), Message: err.Error()})
}
