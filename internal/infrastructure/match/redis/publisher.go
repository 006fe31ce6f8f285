package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-pong-server/pkg/redis"
)

// ChannelMatchEnded 比賽結束事件的頻道
const ChannelMatchEnded = "pong:match:ended"

// Publisher 透過 Redis Pub/Sub 廣播比賽結果給其他服務 (排行榜、戰績)
type Publisher struct {
	rds     publisher
	channel string
}

type publisher interface {
	Publish(ctx context.Context, channel string, message any) error
}

var _ ports.MatchResultSink = (*Publisher)(nil)

// MatchEvent 發佈到頻道上的 JSON
type MatchEvent struct {
	RoomID       string    `json:"roomId"`
	Winner       string    `json:"winner"`
	WinnerUserID string    `json:"winnerUserId"`
	ScoreLeft    int       `json:"scoreLeft"`
	ScoreRight   int       `json:"scoreRight"`
	LeftUserID   string    `json:"leftUserId"`
	RightUserID  string    `json:"rightUserId"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{rds: client, channel: ChannelMatchEnded}
}

// NewEvent 將 MatchResult 轉成頻道上的事件格式
func NewEvent(result domain.MatchResult) MatchEvent {
	return MatchEvent{
		RoomID:       result.RoomID,
		Winner:       result.WinnerSide,
		WinnerUserID: result.WinnerUserID(),
		ScoreLeft:    result.ScoreLeft,
		ScoreRight:   result.ScoreRight,
		LeftUserID:   result.LeftUserID,
		RightUserID:  result.RightUserID,
		StartedAt:    result.StartedAt,
		FinishedAt:   result.FinishedAt,
	}
}

func (p *Publisher) RecordMatch(ctx context.Context, result domain.MatchResult) error {
	payload, err := json.Marshal(NewEvent(result))
	if err != nil {
		return err
	}
	return p.rds.Publish(ctx, p.channel, string(payload))
}
