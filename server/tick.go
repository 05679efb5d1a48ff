package server

import "time"

func (r *Room) startSimulation() {
	r.stopSimulation()
	r.simTicker = time.NewTicker(r.cfg.TickInterval)
}

func (r *Room) stopSimulation() {
	if r.simTicker != nil {
		r.simTicker.Stop()
		r.simTicker = nil
	}
}

// pause 运行中有人掉线：停掉 Tick，局面保持不动
func (r *Room) pause() {
	if r.phase != PhaseRunning || r.paused {
		return
	}
	r.stopSimulation()
	r.paused = true
	r.log.Infof("simulation paused at tick %d", r.tickSeq)
}

func (r *Room) resume() {
	r.paused = false
	r.dirChanged = false
	r.broadcast(MsgResumeGame, nil)
	r.startSimulation()
	r.log.Infof("simulation resumed at tick %d", r.tickSeq)
}

// tick 核心循环：读取方向 → 推进 → 碰撞/食物 → 广播结果
func (r *Room) tick() {
	if r.phase != PhaseRunning || r.paused {
		r.stopSimulation()
		return
	}
	start := time.Now()
	r.tickSeq++

	outcome := r.world.Advance(r.spawner)
	// 新窗口：下一个 Tick 前只接受第一次方向变更
	r.dirChanged = false

	switch outcome {
	case TickCollided:
		r.endGame()
		return
	case TickAteFood:
		r.metrics.IncFoodEaten()
		r.broadcast(MsgFoodPositionUpdate, r.world.Food)
	case TickBoardFull:
		r.metrics.IncFoodEaten()
		r.broadcast(MsgUpdateSnake, r.world.SnakeCopy())
		r.endGame()
		return
	}
	r.broadcast(MsgUpdateSnake, r.world.SnakeCopy())
	r.metrics.AddTick(time.Since(start).Nanoseconds())
}

// endGame 自撞（或棋盘已满）：结束本局，不再 Tick
func (r *Room) endGame() {
	r.phase = PhaseEnded
	r.stopSimulation()
	score := r.world.Score()
	r.broadcast(MsgGameOver, GameOverPayload{Score: score})
	r.log.Infof("game over at tick %d, score %d", r.tickSeq, score)
}

// ChangeDirection 处理方向变更请求；被拒绝的原因只用于日志与指标
func (r *Room) ChangeDirection(connID string, d Direction) error {
	return r.call(func() error {
		err := r.changeDirection(connID, d)
		if err != nil {
			r.metrics.IncRejected(err)
			return err
		}
		r.metrics.IncAccepted()
		return nil
	})
}

func (r *Room) changeDirection(connID string, d Direction) error {
	p := r.playerByConn(connID)
	if p == nil {
		return ErrRoomNotFound
	}
	if r.phase != PhaseRunning || r.paused {
		return ErrNotRunning
	}
	if p.Slot >= len(r.Directions) || !r.Directions[p.Slot].Allows(d) {
		return ErrDirectionUnauthorized
	}
	if d == r.world.Direction.Opposite() {
		return ErrDirectionReversal
	}
	if r.dirChanged {
		return ErrDirectionWindow
	}
	if d == r.world.Direction {
		return nil
	}
	r.world.Direction = d
	r.dirChanged = true
	r.broadcast(MsgUpdateDirection, DirectionPayload{Direction: d})
	return nil
}

// SetTickInterval 运行时调整 Tick 周期，正在运行的 Ticker 立即生效
func (r *Room) SetTickInterval(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidRequest
	}
	return r.call(func() error {
		r.cfg.TickInterval = d
		if r.simTicker != nil {
			r.simTicker.Reset(d)
		}
		r.log.Infof("tick interval set to %s", d)
		return nil
	})
}
