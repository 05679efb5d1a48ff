package server

import "time"

// Sender 房间向玩家连接推送消息的能力（非阻塞）
type Sender interface {
	Enqueue(b []byte)
}

// Player 房间内的一个参与者。Slot 在加入时确定，决定可操控的方向。
type Player struct {
	ConnID    string
	Username  string
	Slot      int
	Heartbeat *Heartbeat

	Conn Sender
}

// PlayerInfo 对外展示的玩家信息
type PlayerInfo struct {
	Username        string `json:"username"`
	Slot            int    `json:"slot"`
	LastHeartbeatAt string `json:"lastHeartbeatAt,omitempty"`
}

func (p *Player) info() PlayerInfo {
	pi := PlayerInfo{Username: p.Username, Slot: p.Slot}
	if p.Heartbeat != nil {
		pi.LastHeartbeatAt = p.Heartbeat.Last().Format(time.RFC3339Nano)
	}
	return pi
}

func (p *Player) send(b []byte) {
	if p.Conn != nil {
		p.Conn.Enqueue(b)
	}
}
