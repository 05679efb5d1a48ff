package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount          int64 // 模拟 Tick 次数
	FoodEaten          int64 // 吃到食物次数
	DirectionsAccepted int64 // 被接受的方向变更
	Unauthorized       int64 // 槽位无权操控该方向
	Reversals          int64 // 180° 掉头被拒绝
	WindowDropped      int64 // 同一 Tick 内第二次变更被丢弃
	NotRunning         int64 // 非运行阶段收到的方向变更
	TotalTickNs        int64 // Tick 累计耗时（纳秒）
}

func (m *RoomMetrics) IncAccepted() { atomic.AddInt64(&m.DirectionsAccepted, 1) }
func (m *RoomMetrics) IncFoodEaten() { atomic.AddInt64(&m.FoodEaten, 1) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// IncRejected 按拒绝原因累加
func (m *RoomMetrics) IncRejected(reason error) {
	switch reason {
	case ErrDirectionUnauthorized:
		atomic.AddInt64(&m.Unauthorized, 1)
	case ErrDirectionReversal:
		atomic.AddInt64(&m.Reversals, 1)
	case ErrDirectionWindow:
		atomic.AddInt64(&m.WindowDropped, 1)
	case ErrNotRunning:
		atomic.AddInt64(&m.NotRunning, 1)
	}
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"food_eaten":          atomic.LoadInt64(&m.FoodEaten),
		"directions_accepted": atomic.LoadInt64(&m.DirectionsAccepted),
		"unauthorized":        atomic.LoadInt64(&m.Unauthorized),
		"reversals":           atomic.LoadInt64(&m.Reversals),
		"window_dropped":      atomic.LoadInt64(&m.WindowDropped),
		"not_running":         atomic.LoadInt64(&m.NotRunning),
		"avg_tick_ms":         avgMs,
	}
}
