package ports

import (
	"context"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
)

// MatchRepository 比賽歷史的存取介面
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_match_repository.go -package=mock_ports github.com/JoeShih716/go-k8s-pong-server/internal/core/ports MatchRepository
type MatchRepository interface {
	MatchResultSink

	// ListByUser 取得某位使用者最近的比賽紀錄 (新到舊)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.MatchResult, error)
}
