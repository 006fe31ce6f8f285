package room

import (
	"github.com/JoeShih716/go-k8s-pong-server/internal/game/pong"
)

// Status Room 的生命週期狀態
type Status string

const (
	StatusWaitingForPlayers Status = "waitingForPlayers" // 座位未滿
	StatusReadyCheck        Status = "readyCheck"        // 兩個座位已占用，等待兩條連線都上線
	StatusPlaying           Status = "playing"
	StatusPaused            Status = "paused"
	StatusEnded             Status = "ended"
)

// PauseReason 暫停的原因，決定恢復的方式
type PauseReason string

const (
	PauseNone       PauseReason = ""
	PauseDisconnect PauseReason = "disconnect" // 玩家斷線，雙方重新上線後自動恢復
	PausePlayer     PauseReason = "player"     // 玩家主動暫停，只能由 game.resume 恢復
)

// Seat 使用者與左右球拍之間的綁定。
// 一旦分配就不會改變，斷線後仍保留，讓同一位使用者可以重新連線。
type Seat struct {
	UserID      string
	DisplayName string
	Side        pong.Side
	Connected   bool // 目前是否有可用的 transport
	Ready       bool
}

// Player 協議中的玩家編號 (1 = left, 2 = right)
func (s Seat) Player() int {
	return s.Side.Player()
}
