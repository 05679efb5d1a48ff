package server

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

// recorder 记录推送给某个玩家的所有消息
type recorder struct {
	mu   sync.Mutex
	msgs []Envelope
}

func (r *recorder) Enqueue(b []byte) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		panic(err)
	}
	r.mu.Lock()
	r.msgs = append(r.msgs, env)
	r.mu.Unlock()
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Type)
	}
	return out
}

func (r *recorder) ofType(msgType string) []json.RawMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []json.RawMessage
	for _, m := range r.msgs {
		if m.Type == msgType {
			out = append(out, m.Data)
		}
	}
	return out
}

func (r *recorder) count(msgType string) int {
	return len(r.ofType(msgType))
}

func newTestPlayer(connID, username string) (*Player, *recorder) {
	rec := &recorder{}
	return &Player{
		ConnID:    connID,
		Username:  username,
		Heartbeat: NewHeartbeat(time.Now()),
		Conn:      rec,
	}, rec
}

// fastRoomConfig 倒计时很快，模拟 Tick 很慢，便于在开局后检查方向逻辑
func fastRoomConfig() RoomConfig {
	cfg := DefaultRoomConfig()
	cfg.CountdownInterval = 5 * time.Millisecond
	cfg.TickInterval = time.Hour
	return cfg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func mustSnapshot(t *testing.T, r *Room) RoomSnapshot {
	t.Helper()
	snap, err := r.Snapshot()
	if err != nil {
		t.Fatalf("snapshot %s: %v", r.ID, err)
	}
	return snap
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}
