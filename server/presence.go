package server

import (
	"context"
	"sync/atomic"
	"time"
)

// Heartbeat 记录连接最近一次存活确认的时间（UnixNano），可跨协程读写
type Heartbeat struct {
	last int64
}

func NewHeartbeat(now time.Time) *Heartbeat {
	return &Heartbeat{last: now.UnixNano()}
}

// Beat 收到 pong 时刷新
func (h *Heartbeat) Beat(now time.Time) {
	atomic.StoreInt64(&h.last, now.UnixNano())
}

func (h *Heartbeat) Last() time.Time {
	return time.Unix(0, atomic.LoadInt64(&h.last))
}

// Expired 距上次确认是否已超过 timeout
func (h *Heartbeat) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(h.Last()) > timeout
}

// PresenceMonitor 每个连接一个：定期发送 ping，超时未确认则强制断开。
// Run 返回即代表该连接的定时任务已释放。
type PresenceMonitor struct {
	Heartbeat *Heartbeat
	Interval  time.Duration
	Timeout   time.Duration

	// Probe 发送一次存活探测（ping）
	Probe func()
	// OnTimeout 判定连接已死时调用一次，负责关闭连接
	OnTimeout func()

	now func() time.Time
}

func NewPresenceMonitor(hb *Heartbeat, interval, timeout time.Duration, probe, onTimeout func()) *PresenceMonitor {
	return &PresenceMonitor{
		Heartbeat: hb,
		Interval:  interval,
		Timeout:   timeout,
		Probe:     probe,
		OnTimeout: onTimeout,
		now:       time.Now,
	}
}

// Run 阻塞直到 ctx 取消或心跳超时；超时返回 ErrHeartbeatTimeout
func (pm *PresenceMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(pm.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if pm.Heartbeat.Expired(pm.now(), pm.Timeout) {
				if pm.OnTimeout != nil {
					pm.OnTimeout()
				}
				return ErrHeartbeatTimeout
			}
			if pm.Probe != nil {
				pm.Probe()
			}
		}
	}
}
