package mysql

import (
	"context"
	"time"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/ports"
	mysqlpkg "github.com/JoeShih716/go-k8s-pong-server/pkg/mysql"
)

// ensure interface compliance
var _ ports.MatchRepository = (*MatchRepository)(nil)

// MatchRecord match_results 資料表
type MatchRecord struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	RoomID      string    `gorm:"size:64;index"`
	WinnerSide  string    `gorm:"size:8"`
	WinnerID    string    `gorm:"size:64"`
	ScoreLeft   int       `gorm:"not null"`
	ScoreRight  int       `gorm:"not null"`
	LeftUserID  string    `gorm:"size:64;index"`
	RightUserID string    `gorm:"size:64;index"`
	StartedAt   time.Time `gorm:"not null"`
	FinishedAt  time.Time `gorm:"not null;index"`
	CreatedAt   time.Time
}

func (MatchRecord) TableName() string {
	return "match_results"
}

// MatchRepository 實作 ports.MatchRepository
type MatchRepository struct {
	client *mysqlpkg.Client
}

// NewMatchRepository 建立 MySQL Repository
func NewMatchRepository(client *mysqlpkg.Client) *MatchRepository {
	return &MatchRepository{client: client}
}

// Migrate 建立或更新資料表
func (r *MatchRepository) Migrate(ctx context.Context) error {
	return r.client.DB().WithContext(ctx).AutoMigrate(&MatchRecord{})
}

// RecordMatch 寫入一場比賽結果
func (r *MatchRepository) RecordMatch(ctx context.Context, result domain.MatchResult) error {
	rec := toRecord(result)
	return r.client.DB().WithContext(ctx).Create(&rec).Error
}

// ListByUser 取得某位使用者最近的比賽紀錄 (新到舊)
func (r *MatchRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []MatchRecord
	err := r.client.DB().WithContext(ctx).
		Where("left_user_id = ? OR right_user_id = ?", userID, userID).
		Order("finished_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.MatchResult, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func toRecord(m domain.MatchResult) MatchRecord {
	return MatchRecord{
		RoomID:      m.RoomID,
		WinnerSide:  m.WinnerSide,
		WinnerID:    m.WinnerUserID(),
		ScoreLeft:   m.ScoreLeft,
		ScoreRight:  m.ScoreRight,
		LeftUserID:  m.LeftUserID,
		RightUserID: m.RightUserID,
		StartedAt:   m.StartedAt.UTC(),
		FinishedAt:  m.FinishedAt.UTC(),
	}
}

func (rec MatchRecord) toDomain() domain.MatchResult {
	return domain.MatchResult{
		RoomID:      rec.RoomID,
		WinnerSide:  rec.WinnerSide,
		ScoreLeft:   rec.ScoreLeft,
		ScoreRight:  rec.ScoreRight,
		LeftUserID:  rec.LeftUserID,
		RightUserID: rec.RightUserID,
		StartedAt:   rec.StartedAt,
		FinishedAt:  rec.FinishedAt,
	}
}
