package pong

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-k8s-pong-server/pkg/clock"
)

const frame = time.Second / 60

func newTestEngine(t *testing.T, seed uint64) (*Engine, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Unix(1700000000, 0))
	e := NewEngine(DefaultConfig(), clk, rand.New(rand.NewPCG(seed, seed+1)))
	return e, clk
}

func TestEngine_StartGame(t *testing.T) {
	e, _ := newTestEngine(t, 1)
	require.Equal(t, PhaseIdle, e.Phase())

	// idle 時 Update 沒有任何效果
	before := e.Snapshot()
	e.Update()
	assert.Equal(t, before, e.Snapshot())

	require.True(t, e.StartGame())
	assert.False(t, e.StartGame(), "second StartGame must be rejected")

	s := e.Snapshot()
	cfg := e.Config()
	assert.Equal(t, PhaseRunning, s.Phase)
	assert.Equal(t, Vec2{X: 400, Y: 200}, s.Ball.Position)
	assert.Equal(t, cfg.BaseSpeed, s.CurrentSpeed)
	assert.InDelta(t, cfg.BaseSpeed, s.Ball.Velocity.Len(), 1e-9)
	assert.NotZero(t, s.Ball.Velocity.X)

	angle := math.Abs(math.Atan2(s.Ball.Velocity.Y, math.Abs(s.Ball.Velocity.X)))
	assert.LessOrEqual(t, angle, cfg.MaxBounceAngle+1e-9)
	assert.Equal(t, 160.0, s.PaddleLeftY)
	assert.Equal(t, 160.0, s.PaddleRightY)
}

func TestEngine_DeterministicGivenSeed(t *testing.T) {
	run := func() []State {
		e, clk := newTestEngine(t, 42)
		e.StartGame()
		var out []State
		for i := 0; i < 2000; i++ {
			switch i % 7 {
			case 0:
				e.MovePaddle(SideLeft, DirectionUp)
			case 3:
				e.MovePaddle(SideRight, DirectionDown)
			}
			clk.Advance(frame)
			e.Update()
			if i%100 == 0 {
				out = append(out, e.Snapshot())
			}
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestEngine_ScoreMonotonic(t *testing.T) {
	for seed := uint64(0); seed < 5; seed++ {
		e, clk := newTestEngine(t, seed)
		e.StartGame()
		dirs := []Direction{DirectionUp, DirectionDown, DirectionStop}
		rng := rand.New(rand.NewPCG(seed, 99))

		prev := e.Snapshot()
		for i := 0; i < 5000; i++ {
			e.MovePaddle(SideLeft, dirs[rng.IntN(3)])
			e.MovePaddle(SideRight, dirs[rng.IntN(3)])
			clk.Advance(frame)
			e.Update()

			cur := e.Snapshot()
			dl := cur.ScoreLeft - prev.ScoreLeft
			dr := cur.ScoreRight - prev.ScoreRight
			require.GreaterOrEqual(t, dl, 0)
			require.GreaterOrEqual(t, dr, 0)
			require.LessOrEqual(t, dl+dr, 1)
			require.GreaterOrEqual(t, cur.CurrentSpeed, DefaultConfig().BaseSpeed)
			require.LessOrEqual(t, cur.CurrentSpeed, DefaultConfig().MaxSpeed)
			prev = cur
		}
	}
}

func TestEngine_PauseFreezesState(t *testing.T) {
	e, clk := newTestEngine(t, 7)
	e.StartGame()
	for i := 0; i < 30; i++ {
		clk.Advance(frame)
		e.Update()
	}

	before := e.Snapshot()
	require.True(t, e.Pause())
	assert.False(t, e.Pause())

	for i := 0; i < 100; i++ {
		assert.False(t, e.MovePaddle(SideLeft, DirectionDown))
		clk.Advance(time.Second)
		e.Update()
	}

	require.True(t, e.Resume())
	assert.False(t, e.Resume())
	assert.Equal(t, before, e.Snapshot())
}

func TestEngine_PausedTimeDoesNotRampSpeed(t *testing.T) {
	e, clk := newTestEngine(t, 3)
	e.StartGame()
	e.state.Ball.Position = Vec2{X: 400, Y: 200}
	e.state.Ball.Velocity = Vec2{X: 5, Y: 0}

	e.Pause()
	clk.Advance(10 * time.Second)
	e.Resume()
	e.Update()

	assert.Equal(t, DefaultConfig().BaseSpeed, e.Snapshot().CurrentSpeed)
}

func TestEngine_PaddleBounds(t *testing.T) {
	e, _ := newTestEngine(t, 1)
	e.StartGame()
	maxY := DefaultConfig().FieldHeight - DefaultConfig().PaddleHeight

	for i := 0; i < 100; i++ {
		e.MovePaddle(SideLeft, DirectionUp)
		e.MovePaddle(SideRight, DirectionDown)
		s := e.Snapshot()
		require.GreaterOrEqual(t, s.PaddleLeftY, 0.0)
		require.LessOrEqual(t, s.PaddleRightY, maxY)
	}
	s := e.Snapshot()
	assert.Equal(t, 0.0, s.PaddleLeftY)
	assert.Equal(t, maxY, s.PaddleRightY)

	// stop 是合法但無效果的指令
	assert.True(t, e.MovePaddle(SideLeft, DirectionStop))
	assert.Equal(t, 0.0, e.Snapshot().PaddleLeftY)
	assert.False(t, e.MovePaddle(SideNone, DirectionUp))
}

func TestEngine_MovePaddleIgnoredUnlessRunning(t *testing.T) {
	e, _ := newTestEngine(t, 1)
	assert.False(t, e.MovePaddle(SideLeft, DirectionUp))
	assert.Equal(t, 160.0, e.Snapshot().PaddleLeftY)
}

func TestEngine_ScoreRightWhenBallLeavesLeftEdge(t *testing.T) {
	e, _ := newTestEngine(t, 5)
	e.StartGame()
	e.state.Ball.Position = Vec2{X: 5, Y: 50}
	e.state.Ball.Velocity = Vec2{X: -10, Y: 0}

	res := e.Update()

	s := e.Snapshot()
	assert.Equal(t, SideRight, res.Scored)
	assert.False(t, res.Ended)
	assert.Equal(t, 1, s.ScoreRight)
	assert.Equal(t, 0, s.ScoreLeft)
	assert.Equal(t, Vec2{X: 400, Y: 200}, s.Ball.Position)
	assert.Equal(t, DefaultConfig().BaseSpeed, s.CurrentSpeed)
	assert.Equal(t, PhaseRunning, s.Phase)
}

func TestEngine_SpeedRamp(t *testing.T) {
	tests := []struct {
		name      string
		speed     float64
		wantSpeed float64
	}{
		{name: "base speed ramps by factor", speed: 5, wantSpeed: 6},
		{name: "ramp is capped at max speed", speed: 11, wantSpeed: 12},
		{name: "max speed stays", speed: 12, wantSpeed: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, clk := newTestEngine(t, 9)
			e.StartGame()
			e.state.CurrentSpeed = tt.speed
			e.state.Ball.Position = Vec2{X: 400, Y: 200}
			e.state.Ball.Velocity = Vec2{X: tt.speed, Y: 0}

			// 未達間隔不加速
			clk.Advance(2 * time.Second)
			e.Update()
			require.Equal(t, tt.speed, e.Snapshot().CurrentSpeed)

			clk.Advance(time.Second)
			e.Update()

			s := e.Snapshot()
			assert.InDelta(t, tt.wantSpeed, s.CurrentSpeed, 1e-9)
			assert.InDelta(t, tt.wantSpeed, s.Ball.Velocity.X, 1e-9)
			assert.Zero(t, s.Ball.Velocity.Y)
		})
	}
}

func TestEngine_PaddleBounce(t *testing.T) {
	tests := []struct {
		name   string
		ballY  float64
		wantVY func(vy float64) bool
	}{
		{name: "center hit goes straight", ballY: 200, wantVY: func(vy float64) bool { return math.Abs(vy) < 1e-9 }},
		{name: "lower edge deflects down", ballY: 240, wantVY: func(vy float64) bool { return vy > 0 }},
		{name: "upper edge deflects up", ballY: 160, wantVY: func(vy float64) bool { return vy < 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, 2)
			e.StartGame()
			e.state.Ball.Position = Vec2{X: 35, Y: tt.ballY}
			e.state.Ball.Velocity = Vec2{X: -10, Y: 0}

			res := e.Update()

			s := e.Snapshot()
			assert.Equal(t, SideNone, res.Scored)
			assert.Greater(t, s.Ball.Velocity.X, 0.0)
			assert.True(t, tt.wantVY(s.Ball.Velocity.Y), "vy=%v", s.Ball.Velocity.Y)
			assert.InDelta(t, 10, s.Ball.Velocity.Len(), 1e-9)
			assert.Equal(t, 28.0, s.Ball.Position.X)
		})
	}
}

func TestEngine_RightPaddleBounce(t *testing.T) {
	e, _ := newTestEngine(t, 2)
	e.StartGame()
	e.state.Ball.Position = Vec2{X: 765, Y: 200}
	e.state.Ball.Velocity = Vec2{X: 10, Y: 0}

	e.Update()

	s := e.Snapshot()
	assert.Less(t, s.Ball.Velocity.X, 0.0)
	assert.Equal(t, 772.0, s.Ball.Position.X)
}

func TestEngine_WallBounce(t *testing.T) {
	e, _ := newTestEngine(t, 2)
	e.StartGame()
	e.state.Ball.Position = Vec2{X: 400, Y: 10}
	e.state.Ball.Velocity = Vec2{X: 3, Y: -4}

	e.Update()

	s := e.Snapshot()
	assert.Equal(t, 8.0, s.Ball.Position.Y)
	assert.Equal(t, 4.0, s.Ball.Velocity.Y)
}

func TestEngine_Termination(t *testing.T) {
	e, _ := newTestEngine(t, 11)
	e.StartGame()
	e.state.ScoreLeft = 4
	e.state.Ball.Position = Vec2{X: 795, Y: 200}
	e.state.Ball.Velocity = Vec2{X: 10, Y: 0}

	res := e.Update()

	require.True(t, res.Ended)
	assert.Equal(t, SideLeft, res.Scored)
	assert.True(t, e.IsEnded())
	assert.Equal(t, SideLeft, e.Winner())

	final := e.Snapshot()
	assert.Equal(t, 5, final.ScoreLeft)
	assert.Equal(t, Vec2{}, final.Ball.Velocity)

	for i := 0; i < 100; i++ {
		e.Update()
		e.MovePaddle(SideLeft, DirectionDown)
	}
	assert.Equal(t, final, e.Snapshot())
	assert.False(t, e.Pause())
	assert.False(t, e.StartGame())
}
