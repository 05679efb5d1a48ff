package server

import "time"

// startCountdown 人齐后进入倒计时：立即广播起始值，之后每个间隔减一
func (r *Room) startCountdown() {
	r.phase = PhaseCountdown
	r.countdown = r.cfg.CountdownFrom
	r.broadcast(MsgUpdateCountdown, r.countdown)
	r.countdownTicker = time.NewTicker(r.cfg.CountdownInterval)
	r.log.Infof("countdown started from %d", r.countdown)
}

func (r *Room) onCountdownStep() {
	if r.phase != PhaseCountdown {
		r.stopCountdown()
		return
	}
	r.countdown--
	r.broadcast(MsgUpdateCountdown, r.countdown)
	if r.countdown <= 0 {
		r.stopCountdown()
		r.startGame()
	}
}

func (r *Room) stopCountdown() {
	if r.countdownTicker != nil {
		r.countdownTicker.Stop()
		r.countdownTicker = nil
	}
}

// startGame 倒计时归零：生成初始蛇与食物，广播一次 startGame 并开始 Tick
func (r *Room) startGame() {
	world, ok := NewWorld(InitialSnake(), DirRight, r.cfg.GridSize, r.spawner)
	if !ok {
		r.log.Errorf("no free cell for initial food on a %dx%d grid", r.cfg.GridSize, r.cfg.GridSize)
		r.phase = PhaseEnded
		return
	}
	r.world = world
	r.phase = PhaseRunning
	r.paused = false
	r.dirChanged = false

	r.broadcast(MsgStartGame, StartGamePayload{
		Directions: r.Directions,
		Snake:      world.SnakeCopy(),
		Food:       world.Food,
	})
	r.startSimulation()
	r.log.Infof("game started: snake=%v food=%v", world.Snake, world.Food)
}
