package manager

import (
	"time"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/room"
)

// ReapPolicy 決定一個房間是否在定期清理時被銷毀
type ReapPolicy interface {
	ShouldReap(info room.Info, now time.Time) bool
}

// ReapFunc 讓一般函式滿足 ReapPolicy
type ReapFunc func(info room.Info, now time.Time) bool

func (f ReapFunc) ShouldReap(info room.Info, now time.Time) bool {
	return f(info, now)
}

// NeverReap 永不自動銷毀 (預設)。座位會無限期保留給重新連線的玩家。
type NeverReap struct{}

func (NeverReap) ShouldReap(room.Info, time.Time) bool {
	return false
}

// IdleReaper 沒有任何連線 (玩家與觀戰者) 且閒置超過 After 的房間會被銷毀
type IdleReaper struct {
	After time.Duration
}

func (p IdleReaper) ShouldReap(info room.Info, now time.Time) bool {
	if info.ConnectedSeats > 0 || info.Spectators > 0 {
		return false
	}
	return now.Sub(info.LastActive) >= p.After
}
