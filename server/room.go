package server

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Phase 房间所处阶段
type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseCountdown Phase = "countdown"
	PhaseRunning   Phase = "running"
	PhaseEnded     Phase = "ended"
)

// Room 一局游戏：权威状态只在房间自己的协程里读写。
// 外部通过 submit/call 把操作投递到收件箱，按到达顺序逐个执行。
type Room struct {
	ID                string
	TargetPlayerCount int
	Players           []*Player // 按槽位排序
	Directions        []DirectionSet

	world      *World
	phase      Phase
	paused     bool // 运行中有人掉线，模拟暂停直到人数恢复
	dirChanged bool // 本 Tick 窗口内是否已接受过方向变更
	countdown  int
	tickSeq    int64

	countdownTicker *time.Ticker
	simTicker       *time.Ticker

	cfg     RoomConfig
	spawner *FoodSpawner
	metrics *RoomMetrics
	log     *zap.SugaredLogger

	inbox   chan func()
	done    chan struct{}
	closed  bool
	onClose func(*Room)
}

// NewRoom 创建房间，创建者占据 0 号槽位。需调用 start 才开始处理事件。
func NewRoom(id string, targetPlayerCount int, creator *Player, cfg RoomConfig, seed int64) *Room {
	creator.Slot = 0
	return &Room{
		ID:                id,
		TargetPlayerCount: targetPlayerCount,
		Players:           []*Player{creator},
		Directions:        AssignDirections(targetPlayerCount),
		phase:             PhaseWaiting,
		cfg:               cfg,
		spawner:           NewFoodSpawner(cfg.GridSize, seed),
		metrics:           &RoomMetrics{},
		log:               Log.With("room", id),
		inbox:             make(chan func(), 256), // 足够缓冲，避免网络读阻塞影响 Tick
		done:              make(chan struct{}),
	}
}

func (r *Room) start() {
	go r.run()
}

// run 房间协程：收件箱、倒计时、模拟 Tick 三路事件串行处理
func (r *Room) run() {
	defer close(r.done)

	creator := r.Players[0]
	r.welcome(creator)
	r.broadcast(MsgPlayerJoined, len(r.Players))
	r.checkCapacity()

	for !r.closed {
		select {
		case fn := <-r.inbox:
			fn()
		case <-tickerC(r.countdownTicker):
			r.onCountdownStep()
		case <-tickerC(r.simTicker):
			r.tick()
		}
	}
}

func tickerC(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// submit 投递到房间协程；房间已销毁返回 false
func (r *Room) submit(fn func()) bool {
	select {
	case r.inbox <- fn:
		return true
	case <-r.done:
		return false
	}
}

// call 同步执行 fn 并取回结果；房间已销毁返回 ErrRoomNotFound
func (r *Room) call(fn func() error) error {
	errc := make(chan error, 1)
	if !r.submit(func() { errc <- fn() }) {
		return ErrRoomNotFound
	}
	select {
	case err := <-errc:
		return err
	case <-r.done:
		// fn 可能恰好是销毁房间的那次操作，结果已写入
		select {
		case err := <-errc:
			return err
		default:
			return ErrRoomNotFound
		}
	}
}

// Done 房间销毁后关闭
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// Join 加入房间（reconnect 为 true 表示掉线后重连），返回槽位
func (r *Room) Join(p *Player, reconnect bool) (int, error) {
	slot := -1
	err := r.call(func() error {
		var err error
		slot, err = r.admit(p, reconnect)
		return err
	})
	return slot, err
}

// Leave 移除该连接对应的玩家；返回房间是否因此被销毁
func (r *Room) Leave(connID string) (destroyed bool) {
	_ = r.call(func() error {
		r.remove(connID)
		destroyed = r.closed
		return nil
	})
	return destroyed
}

// Close 停止所有定时器并退出房间协程（进程退出时使用）
func (r *Room) Close() {
	if r.submit(r.destroy) {
		<-r.done
	}
}

func (r *Room) admit(p *Player, reconnect bool) (int, error) {
	if len(r.Players) >= r.TargetPlayerCount {
		return -1, fmt.Errorf("room %q has %d/%d players: %w", r.ID, len(r.Players), r.TargetPlayerCount, ErrRoomFull)
	}
	p.Slot = r.freeSlot()
	r.Players = append(r.Players, p)
	sort.SliceStable(r.Players, func(i, j int) bool { return r.Players[i].Slot < r.Players[j].Slot })

	r.welcome(p)
	if reconnect {
		r.broadcast(MsgPlayerReconnected, r.presence(p))
	} else {
		r.broadcast(MsgPlayerJoined, len(r.Players))
	}
	r.catchUp(p)
	r.log.Infof("player %s joined slot %d (%d/%d, reconnect=%v)", p.Username, p.Slot, len(r.Players), r.TargetPlayerCount, reconnect)

	r.checkCapacity()
	return p.Slot, nil
}

func (r *Room) remove(connID string) {
	idx := r.indexOf(connID)
	if idx < 0 {
		return
	}
	p := r.Players[idx]
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	r.log.Infof("player %s left slot %d (%d/%d)", p.Username, p.Slot, len(r.Players), r.TargetPlayerCount)

	if len(r.Players) == 0 {
		r.destroy()
		return
	}

	r.broadcast(MsgPlayerDisconnected, r.presence(p))
	switch r.phase {
	case PhaseCountdown:
		// 倒计时中途缺人：回到等待，人齐后从头计时
		r.stopCountdown()
		r.phase = PhaseWaiting
	case PhaseRunning:
		r.pause()
	}
}

// destroy 取消全部定时器，从注册表移除；只执行一次
func (r *Room) destroy() {
	if r.closed {
		return
	}
	r.stopCountdown()
	r.stopSimulation()
	r.closed = true
	if r.onClose != nil {
		r.onClose(r)
	}
	r.log.Infof("room destroyed (phase=%s ticks=%d)", r.phase, r.tickSeq)
}

// checkCapacity 人数达到目标时推进阶段
func (r *Room) checkCapacity() {
	if len(r.Players) != r.TargetPlayerCount {
		return
	}
	switch r.phase {
	case PhaseWaiting:
		r.startCountdown()
	case PhaseRunning:
		if r.paused {
			r.resume()
		}
	}
}

// freeSlot 最小的未占用槽位
func (r *Room) freeSlot() int {
	for slot := 0; ; slot++ {
		taken := false
		for _, p := range r.Players {
			if p.Slot == slot {
				taken = true
				break
			}
		}
		if !taken {
			return slot
		}
	}
}

func (r *Room) indexOf(connID string) int {
	for i, p := range r.Players {
		if p.ConnID == connID {
			return i
		}
	}
	return -1
}

func (r *Room) playerByConn(connID string) *Player {
	if i := r.indexOf(connID); i >= 0 {
		return r.Players[i]
	}
	return nil
}

// welcome 告知新成员其槽位、目标人数与方向分配
func (r *Room) welcome(p *Player) {
	p.send(encodeMessage(MsgSetPlayerIndex, p.Slot))
	p.send(encodeMessage(MsgSetTargetPlayerCount, r.TargetPlayerCount))
	p.send(encodeMessage(MsgUpdateDirections, r.Directions))
}

// catchUp 游戏已开始时，把当前局面补发给新成员
func (r *Room) catchUp(p *Player) {
	if r.world == nil {
		return
	}
	p.send(encodeMessage(MsgUpdateSnake, r.world.SnakeCopy()))
	p.send(encodeMessage(MsgFoodPositionUpdate, r.world.Food))
	p.send(encodeMessage(MsgUpdateDirection, DirectionPayload{Direction: r.world.Direction}))
}

func (r *Room) presence(p *Player) PresencePayload {
	return PresencePayload{
		Username:          p.Username,
		RemainingPlayers:  len(r.Players),
		TargetPlayerCount: r.TargetPlayerCount,
	}
}

// broadcast 序列化一次，推送给房间内所有连接（非阻塞）
func (r *Room) broadcast(msgType string, data any) {
	b := encodeMessage(msgType, data)
	if b == nil {
		return
	}
	for _, p := range r.Players {
		p.send(b)
	}
}

// RoomSnapshot 房间的只读快照（管理接口与测试使用）
type RoomSnapshot struct {
	ID                string         `json:"id"`
	TargetPlayerCount int            `json:"targetPlayerCount"`
	Phase             Phase          `json:"phase"`
	Paused            bool           `json:"paused"`
	Players           []PlayerInfo   `json:"players"`
	Directions        []DirectionSet `json:"directions"`
	Snake             []Cell         `json:"snake,omitempty"`
	Food              *Cell          `json:"food,omitempty"`
	Direction         Direction      `json:"direction"`
	Score             int            `json:"score"`
	Countdown         int            `json:"countdown"`
	Tick              int64          `json:"tick"`
	TickInterval      string         `json:"tickInterval"`
	Metrics           map[string]any `json:"metrics"`
}

func (r *Room) Snapshot() (RoomSnapshot, error) {
	var snap RoomSnapshot
	err := r.call(func() error {
		snap = RoomSnapshot{
			ID:                r.ID,
			TargetPlayerCount: r.TargetPlayerCount,
			Phase:             r.phase,
			Paused:            r.paused,
			Directions:        r.Directions,
			Countdown:         r.countdown,
			Tick:              r.tickSeq,
			TickInterval:      r.cfg.TickInterval.String(),
			Metrics:           r.metrics.Snapshot(),
		}
		for _, p := range r.Players {
			snap.Players = append(snap.Players, p.info())
		}
		if r.world != nil {
			food := r.world.Food
			snap.Snake = r.world.SnakeCopy()
			snap.Food = &food
			snap.Direction = r.world.Direction
			snap.Score = r.world.Score()
		}
		return nil
	})
	return snap, err
}
