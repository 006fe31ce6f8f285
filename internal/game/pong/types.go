package pong

import (
	"math"
	"time"
)

// Side 代表球場的左右兩邊 (也是 Seat 的角色)
type Side string

const (
	SideNone  Side = ""
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Player 回傳協議中使用的玩家編號 (left = 1, right = 2)
func (s Side) Player() int {
	switch s {
	case SideLeft:
		return 1
	case SideRight:
		return 2
	default:
		return 0
	}
}

// SideOfPlayer 將協議玩家編號轉回 Side
func SideOfPlayer(player int) Side {
	switch player {
	case 1:
		return SideLeft
	case 2:
		return SideRight
	default:
		return SideNone
	}
}

// Direction 球拍移動方向
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionStop Direction = "stop"
)

// ParseDirection 驗證並轉換前端傳入的方向字串
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case DirectionUp, DirectionDown, DirectionStop:
		return d, true
	default:
		return "", false
	}
}

// Phase Engine 狀態機
//
//	idle → running ⇄ paused
//	running → ended
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
	PhaseEnded   Phase = "ended"
)

type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

type Ball struct {
	Position Vec2
	Velocity Vec2
	Radius   float64
}

// State 單場比賽的完整狀態，由 Engine 獨佔；對外只提供複本。
type State struct {
	FieldWidth   float64
	FieldHeight  float64
	Ball         Ball
	PaddleWidth  float64
	PaddleHeight float64
	PaddleLeftY  float64
	PaddleRightY float64
	ScoreLeft    int
	ScoreRight   int
	CurrentSpeed float64
	LastScoreAt  time.Time
	Phase        Phase
	Winner       Side
}

// Config 物理參數。預設值見 DefaultConfig。
type Config struct {
	FieldWidth           float64
	FieldHeight          float64
	PaddleWidth          float64
	PaddleHeight         float64
	PaddleMargin         float64 // 球拍與底線的距離
	PaddleStep           float64 // 每次 MovePaddle 的位移
	BallRadius           float64
	BaseSpeed            float64
	MaxSpeed             float64
	AccelerationFactor   float64
	AccelerationInterval time.Duration
	MaxScore             int
	MaxBounceAngle       float64 // 弧度
}

// DefaultConfig 800x400 球場，先得 5 分獲勝
func DefaultConfig() Config {
	return Config{
		FieldWidth:           800,
		FieldHeight:          400,
		PaddleWidth:          10,
		PaddleHeight:         80,
		PaddleMargin:         10,
		PaddleStep:           8,
		BallRadius:           8,
		BaseSpeed:            5,
		MaxSpeed:             12,
		AccelerationFactor:   1.2,
		AccelerationInterval: 3000 * time.Millisecond,
		MaxScore:             5,
		MaxBounceAngle:       math.Pi / 3,
	}
}

// maxPaddleY 球拍上緣允許的最大值
func (c Config) maxPaddleY() float64 {
	return c.FieldHeight - c.PaddleHeight
}
