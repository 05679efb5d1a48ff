package server

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// RoomManager 房间注册表：管理多个房间的生命周期与连接归属。
// 注册表本身由 mu 保护；房间内部状态只在各自的房间协程中修改。
type RoomManager struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	members map[string]string // connID → roomID，一个连接最多属于一个房间

	cfg     RoomConfig
	seq     int64
	newSeed func() int64
}

func NewRoomManager(cfg RoomConfig) *RoomManager {
	m := &RoomManager{
		rooms:   make(map[string]*Room),
		members: make(map[string]string),
		cfg:     cfg,
	}
	m.newSeed = func() int64 {
		return time.Now().UnixNano() + atomic.AddInt64(&m.seq, 1)
	}
	return m
}

// CreateRoom 创建房间，创建者为 0 号槽位；单人房间立即开始倒计时
func (m *RoomManager) CreateRoom(id string, targetPlayerCount int, creator *Player) (*Room, error) {
	if id == "" || creator == nil || creator.Username == "" {
		return nil, ErrInvalidRequest
	}
	if !ValidPlayerCount(targetPlayerCount) {
		return nil, fmt.Errorf("create %q with %d players: %w", id, targetPlayerCount, ErrInvalidCapacity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if roomID, ok := m.members[creator.ConnID]; ok {
		return nil, fmt.Errorf("%w: connection already in room %q", ErrInvalidRequest, roomID)
	}
	if _, ok := m.rooms[id]; ok {
		return nil, fmt.Errorf("create %q: %w", id, ErrDuplicateRoom)
	}

	r := NewRoom(id, targetPlayerCount, creator, m.cfg, m.newSeed())
	r.onClose = m.removeRoom
	m.rooms[id] = r
	m.members[creator.ConnID] = id
	r.start()
	Log.Infof("room %s created by %s for %d players", id, creator.Username, targetPlayerCount)
	return r, nil
}

// JoinRoom 加入已有房间，返回槽位
func (m *RoomManager) JoinRoom(id string, p *Player) (int, error) {
	return m.admit(id, p, false)
}

// Reconnect 掉线玩家重新进入房间；人数恢复时暂停的模拟继续
func (m *RoomManager) Reconnect(id string, p *Player) (int, error) {
	return m.admit(id, p, true)
}

func (m *RoomManager) admit(id string, p *Player, reconnect bool) (int, error) {
	if id == "" || p == nil || p.Username == "" {
		return -1, ErrInvalidRequest
	}
	m.mu.RLock()
	roomID, inRoom := m.members[p.ConnID]
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if inRoom {
		return -1, fmt.Errorf("%w: connection already in room %q", ErrInvalidRequest, roomID)
	}
	if !ok {
		return -1, fmt.Errorf("join %q: %w", id, ErrRoomNotFound)
	}

	slot, err := r.Join(p, reconnect)
	if err != nil {
		return -1, err
	}
	m.mu.Lock()
	m.members[p.ConnID] = id
	m.mu.Unlock()
	return slot, nil
}

// Leave 把连接从其所在房间移除；房间空了即销毁
func (m *RoomManager) Leave(connID string) {
	m.mu.Lock()
	roomID, ok := m.members[connID]
	delete(m.members, connID)
	r := m.rooms[roomID]
	m.mu.Unlock()
	if !ok || r == nil {
		return
	}
	if r.Leave(connID) {
		Log.Infof("room %s emptied and removed", roomID)
	}
}

// ChangeDirection 把方向变更交给连接所在的房间
func (m *RoomManager) ChangeDirection(connID, roomID string, d Direction) error {
	m.mu.RLock()
	memberOf, inRoom := m.members[connID]
	r, ok := m.rooms[roomID]
	m.mu.RUnlock()
	if !ok || !inRoom || memberOf != roomID {
		return fmt.Errorf("direction for %q: %w", roomID, ErrRoomNotFound)
	}
	return r.ChangeDirection(connID, d)
}

// Room 按 ID 查找房间
func (m *RoomManager) Room(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// RoomOf 连接当前所在的房间 ID
func (m *RoomManager) RoomOf(connID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.members[connID]
	return id, ok
}

func (m *RoomManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Snapshots 所有房间的快照，按 ID 排序
func (m *RoomManager) Snapshots() []RoomSnapshot {
	snaps := make([]RoomSnapshot, 0)
	for _, r := range m.list() {
		s, err := r.Snapshot()
		if err != nil {
			continue // 期间被销毁
		}
		snaps = append(snaps, s)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })
	return snaps
}

// Shutdown 关闭所有房间并取消其定时器
func (m *RoomManager) Shutdown() {
	for _, r := range m.list() {
		r.Close()
	}
}

func (m *RoomManager) list() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// removeRoom 由房间协程在销毁时调用
func (m *RoomManager) removeRoom(r *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.rooms[r.ID]; ok && cur == r {
		delete(m.rooms, r.ID)
	}
	for connID, id := range m.members {
		if id == r.ID {
			delete(m.members, connID)
		}
	}
}
