package ports

import (
	"context"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
)

// MatchResultSink 比賽結果的持久化出口。
// 每場比賽結束時只會被呼叫一次；失敗只記錄 log，不影響送給玩家的終局訊息。
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_match_result_sink.go -package=mock_ports github.com/JoeShih716/go-k8s-pong-server/internal/core/ports MatchResultSink
type MatchResultSink interface {
	RecordMatch(ctx context.Context, result domain.MatchResult) error
}
