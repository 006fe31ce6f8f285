package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	mysqlpkg "github.com/JoeShih716/go-k8s-pong-server/pkg/mysql"
)

// capturedStatement DryRun 模式下 gorm 組出來但沒有執行的 SQL
type capturedStatement struct {
	sql   string
	vars  []any
	limit *int
}

// newDryRunRepository 使用 MySQL dialector 的 DryRun 模式，不需要真的資料庫
func newDryRunRepository(t *testing.T) (*MatchRepository, *[]capturedStatement) {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "pong:pong@tcp(127.0.0.1:3306)/pong?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	var captured []capturedStatement
	capture := func(tx *gorm.DB) {
		st := capturedStatement{
			sql:  tx.Statement.SQL.String(),
			vars: append([]any(nil), tx.Statement.Vars...),
		}
		if c, ok := tx.Statement.Clauses["LIMIT"]; ok {
			if lim, ok := c.Expression.(clause.Limit); ok {
				st.limit = lim.Limit
			}
		}
		captured = append(captured, st)
	}
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:capture_create", capture))
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", capture))

	return NewMatchRepository(mysqlpkg.NewFromDB(db)), &captured
}

func sampleResult() domain.MatchResult {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return domain.MatchResult{
		RoomID:      "r1",
		WinnerSide:  "right",
		ScoreLeft:   3,
		ScoreRight:  5,
		LeftUserID:  "alice",
		RightUserID: "bob",
		StartedAt:   started,
		FinishedAt:  started.Add(2 * time.Minute),
	}
}

func TestMatchRecord_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		winnerSide string
		wantWinner string
	}{
		{name: "right wins", winnerSide: "right", wantWinner: "bob"},
		{name: "left wins", winnerSide: "left", wantWinner: "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sampleResult()
			result.WinnerSide = tt.winnerSide

			rec := toRecord(result)
			assert.Equal(t, tt.wantWinner, rec.WinnerID)
			assert.Equal(t, "match_results", rec.TableName())
			assert.Equal(t, result, rec.toDomain())
		})
	}
}

func TestMatchRepository_RecordMatch(t *testing.T) {
	repo, captured := newDryRunRepository(t)

	require.NoError(t, repo.RecordMatch(context.Background(), sampleResult()))

	require.Len(t, *captured, 1)
	st := (*captured)[0]
	assert.Contains(t, st.sql, "INSERT INTO `match_results`")
	assert.Contains(t, st.sql, "`winner_id`")
	assert.Contains(t, st.vars, "r1")
	assert.Contains(t, st.vars, "bob")
	assert.Contains(t, st.vars, 5)
}

func TestMatchRepository_ListByUser(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default limit", limit: 0, wantLimit: 20},
		{name: "explicit limit", limit: 5, wantLimit: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, captured := newDryRunRepository(t)

			out, err := repo.ListByUser(context.Background(), "alice", tt.limit)
			require.NoError(t, err)
			assert.Empty(t, out)

			require.Len(t, *captured, 1)
			st := (*captured)[0]
			assert.Contains(t, st.sql, "FROM `match_results`")
			assert.Contains(t, st.sql, "left_user_id = ? OR right_user_id = ?")
			assert.Contains(t, st.sql, "ORDER BY finished_at DESC")
			assert.Equal(t, []any{"alice", "alice"}, st.vars[:2])
			require.NotNil(t, st.limit)
			assert.Equal(t, tt.wantLimit, *st.limit)
		})
	}
}
