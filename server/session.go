package server

import (
	"encoding/json"
	"errors"
	"runtime/debug"
	"time"
)

// session 单个连接的消息分发；只在该连接的读协程中使用
type session struct {
	conn      *ClientConn
	manager   *RoomManager
	heartbeat *Heartbeat
}

func (s *session) handle(env Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			Log.Errorf("panic handling %s for conn %s: %v\n%s", env.Type, s.conn.id, rec, debug.Stack())
		}
	}()

	switch env.Type {
	case MsgCreateRoom:
		var req CreateRoomRequest
		if !decodePayload(env.Data, &req) || !req.valid() {
			s.reject(env.Type, ErrInvalidRequest)
			return
		}
		if _, err := s.manager.CreateRoom(req.RoomID, req.TargetPlayerCount, s.newPlayer(req.Username)); err != nil {
			s.reject(env.Type, err)
		}
	case MsgJoinRoom, MsgPlayerReconnected:
		var req JoinRoomRequest
		if !decodePayload(env.Data, &req) || !req.valid() {
			s.reject(env.Type, ErrInvalidRequest)
			return
		}
		var err error
		if env.Type == MsgJoinRoom {
			_, err = s.manager.JoinRoom(req.RoomID, s.newPlayer(req.Username))
		} else {
			_, err = s.manager.Reconnect(req.RoomID, s.newPlayer(req.Username))
		}
		if err != nil {
			s.reject(env.Type, err)
		}
	case MsgDirectionChange:
		var req DirectionChangeRequest
		if !decodePayload(env.Data, &req) || req.RoomID == "" {
			s.reject(env.Type, ErrInvalidRequest)
			return
		}
		dir, ok := ParseDirection(req.Direction)
		if !ok {
			s.reject(env.Type, ErrInvalidRequest)
			return
		}
		err := s.manager.ChangeDirection(s.conn.id, req.RoomID, dir)
		switch {
		case err == nil:
		case errors.Is(err, ErrRoomNotFound):
			s.reject(env.Type, err)
		default:
			// 无权、掉头、同窗口重复：静默丢弃
			Log.Debugf("conn %s direction %s dropped: %v", s.conn.id, dir, err)
		}
	case MsgPong:
		s.heartbeat.Beat(time.Now())
	case MsgFoodEaten, MsgUpdateSnake:
		// 客户端权威时代的消息，服务端 Tick 已接管
		Log.Debugf("conn %s: ignoring client-side %s", s.conn.id, env.Type)
	default:
		Log.Debugf("conn %s: unknown message type %q", s.conn.id, env.Type)
	}
}

func (s *session) newPlayer(username string) *Player {
	return &Player{
		ConnID:    s.conn.id,
		Username:  username,
		Heartbeat: s.heartbeat,
		Conn:      s.conn,
	}
}

// reject 就地处理请求失败：房间满发 roomFull，其余发 error
func (s *session) reject(msgType string, err error) {
	Log.Infof("conn %s %s rejected: %v", s.conn.id, msgType, err)
	if errors.Is(err, ErrRoomFull) {
		s.conn.Enqueue(encodeMessage(MsgRoomFull, nil))
		return
	}
	s.conn.Enqueue(errorMessage(err))
}

func decodePayload(data json.RawMessage, v any) bool {
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, v) == nil
}
