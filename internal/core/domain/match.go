package domain

import "time"

// MatchResult 一場結束的比賽，每場只會產生一次
type MatchResult struct {
	RoomID      string
	WinnerSide  string // left | right
	ScoreLeft   int
	ScoreRight  int
	LeftUserID  string
	RightUserID string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// WinnerUserID 回傳勝方的 User ID
func (m MatchResult) WinnerUserID() string {
	if m.WinnerSide == "right" {
		return m.RightUserID
	}
	return m.LeftUserID
}
