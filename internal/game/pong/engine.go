package pong

import (
	"math"
	"math/rand/v2"
	"time"
)

// Clock Engine 只需要讀取目前時間 (用於加速計時)
type Clock interface {
	Now() time.Time
}

// StepResult 單次 Update 的結果
type StepResult struct {
	Scored Side // 本次得分的一方，沒有得分則為 SideNone
	Ended  bool // 本次 Update 使比賽進入 ended
}

// Engine 單場比賽的物理模擬。
// 純狀態機，不做任何 I/O，也不做同步；呼叫端 (Room) 負責序列化所有呼叫。
type Engine struct {
	cfg   Config
	clock Clock
	rng   *rand.Rand
	state State

	// 暫停期間不計入加速計時。
	// 不放進 State，確保 pause → resume 前後的快照完全相同。
	pausedAt    time.Time
	pausedTotal time.Duration
}

// NewEngine 建立一場新的比賽 (phase = idle)
//
// 參數:
//
//	cfg: Config - 物理參數
//	clk: Clock - 時間來源
//	rng: *rand.Rand - 發球角度與方向的亂數來源；固定種子即可重現軌跡。nil 則以時間為種子
func NewEngine(cfg Config, clk Clock, rng *rand.Rand) *Engine {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	e := &Engine{
		cfg:   cfg,
		clock: clk,
		rng:   rng,
	}
	center := (cfg.FieldHeight - cfg.PaddleHeight) / 2
	e.state = State{
		FieldWidth:   cfg.FieldWidth,
		FieldHeight:  cfg.FieldHeight,
		Ball:         Ball{Position: Vec2{X: cfg.FieldWidth / 2, Y: cfg.FieldHeight / 2}, Radius: cfg.BallRadius},
		PaddleWidth:  cfg.PaddleWidth,
		PaddleHeight: cfg.PaddleHeight,
		PaddleLeftY:  center,
		PaddleRightY: center,
		CurrentSpeed: cfg.BaseSpeed,
		LastScoreAt:  clk.Now(),
		Phase:        PhaseIdle,
	}
	return e
}

// Config 回傳 Engine 使用的參數
func (e *Engine) Config() Config {
	return e.cfg
}

// Snapshot 回傳目前狀態的複本
func (e *Engine) Snapshot() State {
	return e.state
}

func (e *Engine) Phase() Phase {
	return e.state.Phase
}

func (e *Engine) IsEnded() bool {
	return e.state.Phase == PhaseEnded
}

// Winner 只有在 ended 時才有值
func (e *Engine) Winner() Side {
	return e.state.Winner
}

// StartGame idle → running，發出第一顆球
func (e *Engine) StartGame() bool {
	if e.state.Phase != PhaseIdle {
		return false
	}
	e.serve()
	e.state.Phase = PhaseRunning
	return true
}

// Pause running → paused。暫停後 Update 與 MovePaddle 都不會改變狀態。
func (e *Engine) Pause() bool {
	if e.state.Phase != PhaseRunning {
		return false
	}
	e.state.Phase = PhasePaused
	e.pausedAt = e.clock.Now()
	return true
}

// Resume paused → running，從暫停時凍結的狀態繼續
func (e *Engine) Resume() bool {
	if e.state.Phase != PhasePaused {
		return false
	}
	if d := e.clock.Now().Sub(e.pausedAt); d > 0 {
		e.pausedTotal += d
	}
	e.state.Phase = PhaseRunning
	return true
}

// MovePaddle 移動指定一側的球拍一步，非 running 時忽略
func (e *Engine) MovePaddle(side Side, dir Direction) bool {
	if e.state.Phase != PhaseRunning {
		return false
	}
	var y *float64
	switch side {
	case SideLeft:
		y = &e.state.PaddleLeftY
	case SideRight:
		y = &e.state.PaddleRightY
	default:
		return false
	}
	switch dir {
	case DirectionUp:
		*y -= e.cfg.PaddleStep
	case DirectionDown:
		*y += e.cfg.PaddleStep
	case DirectionStop:
		return true
	default:
		return false
	}
	*y = clamp(*y, 0, e.cfg.maxPaddleY())
	return true
}

// Update 推進一個 tick (一幀)
func (e *Engine) Update() StepResult {
	if e.state.Phase != PhaseRunning {
		return StepResult{}
	}
	s := &e.state
	now := e.clock.Now()

	// 1. 僵持太久就加速，只縮放速度大小，不改變方向
	if now.Sub(s.LastScoreAt)-e.pausedTotal >= e.cfg.AccelerationInterval && s.CurrentSpeed < e.cfg.MaxSpeed {
		next := math.Min(s.CurrentSpeed*e.cfg.AccelerationFactor, e.cfg.MaxSpeed)
		s.Ball.Velocity = s.Ball.Velocity.Scale(next / s.CurrentSpeed)
		s.CurrentSpeed = next
		s.LastScoreAt = now
		e.pausedTotal = 0
	}

	// 2. Euler 積分
	s.Ball.Position.X += s.Ball.Velocity.X
	s.Ball.Position.Y += s.Ball.Velocity.Y

	// 3. 上下牆
	r := s.Ball.Radius
	if s.Ball.Position.Y-r < 0 {
		s.Ball.Position.Y = r
		s.Ball.Velocity.Y = math.Abs(s.Ball.Velocity.Y)
	} else if s.Ball.Position.Y+r > s.FieldHeight {
		s.Ball.Position.Y = s.FieldHeight - r
		s.Ball.Velocity.Y = -math.Abs(s.Ball.Velocity.Y)
	}

	// 4. 球拍
	e.collidePaddles()

	// 5. 得分
	var scored Side
	switch {
	case s.Ball.Position.X < 0:
		s.ScoreRight++
		scored = SideRight
	case s.Ball.Position.X > s.FieldWidth:
		s.ScoreLeft++
		scored = SideLeft
	default:
		return StepResult{}
	}

	if s.ScoreLeft >= e.cfg.MaxScore || s.ScoreRight >= e.cfg.MaxScore {
		s.Phase = PhaseEnded
		s.Winner = SideLeft
		if s.ScoreRight > s.ScoreLeft {
			s.Winner = SideRight
		}
		s.Ball.Position = Vec2{X: s.FieldWidth / 2, Y: s.FieldHeight / 2}
		s.Ball.Velocity = Vec2{}
		return StepResult{Scored: scored, Ended: true}
	}

	e.serve()
	return StepResult{Scored: scored}
}

func (e *Engine) collidePaddles() {
	s := &e.state
	b := &s.Ball
	r := b.Radius

	leftX := e.cfg.PaddleMargin
	if b.Velocity.X < 0 &&
		b.Position.X-r <= leftX+s.PaddleWidth && b.Position.X+r >= leftX &&
		e.overlapsPaddle(s.PaddleLeftY) {
		e.bounce(s.PaddleLeftY, 1)
		b.Position.X = leftX + s.PaddleWidth + r
		return
	}

	rightX := s.FieldWidth - e.cfg.PaddleMargin - s.PaddleWidth
	if b.Velocity.X > 0 &&
		b.Position.X+r >= rightX && b.Position.X-r <= rightX+s.PaddleWidth &&
		e.overlapsPaddle(s.PaddleRightY) {
		e.bounce(s.PaddleRightY, -1)
		b.Position.X = rightX - r
	}
}

func (e *Engine) overlapsPaddle(top float64) bool {
	b := e.state.Ball
	return b.Position.Y+b.Radius >= top && b.Position.Y-b.Radius <= top+e.state.PaddleHeight
}

// bounce 依擊中位置決定反彈角度，dir 為反彈後的水平方向 (+1 往右, -1 往左)
func (e *Engine) bounce(top, dir float64) {
	s := &e.state
	half := s.PaddleHeight / 2
	relative := clamp((s.Ball.Position.Y-(top+half))/half, -1, 1)
	angle := relative * e.cfg.MaxBounceAngle
	speed := s.Ball.Velocity.Len()
	s.Ball.Velocity = Vec2{
		X: dir * speed * math.Cos(angle),
		Y: speed * math.Sin(angle),
	}
}

// serve 球回到中央，隨機方向與角度，速度重設為 BaseSpeed
func (e *Engine) serve() {
	s := &e.state
	s.Ball.Position = Vec2{X: s.FieldWidth / 2, Y: s.FieldHeight / 2}
	s.CurrentSpeed = e.cfg.BaseSpeed

	angle := (e.rng.Float64()*2 - 1) * e.cfg.MaxBounceAngle
	dir := 1.0
	if e.rng.IntN(2) == 0 {
		dir = -1
	}
	s.Ball.Velocity = Vec2{
		X: dir * s.CurrentSpeed * math.Cos(angle),
		Y: s.CurrentSpeed * math.Sin(angle),
	}
	s.LastScoreAt = e.clock.Now()
	e.pausedTotal = 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
