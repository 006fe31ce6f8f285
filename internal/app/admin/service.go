package admin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/JoeShih716/go-k8s-pong-server/internal/app/arena/manager"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/room"
)

// RoomAdmin Service 需要的房間操作 (由 arena/manager.Manager 實作)
type RoomAdmin interface {
	Stats() manager.Stats
	Rooms() []room.Info
	DeleteRoom(roomID string) error
}

// SessionAdmin Service 需要的連線操作 (由 connector/session.Manager 實作)
type SessionAdmin interface {
	Count() int64
	Kick(sessionID, reason string) bool
}

// MatchHistory 比賽歷史查詢 (由 ports.MatchRepository 實作)
type MatchHistory interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.MatchResult, error)
}

// historyLimit ListMatches 每次回傳的筆數
const historyLimit = 20

// ServiceOption 設定 Service 的可選依賴
type ServiceOption func(*Service)

// WithMatchHistory 啟用 ListMatches；未設定時回傳 Unavailable
func WithMatchHistory(h MatchHistory) ServiceOption {
	return func(s *Service) {
		s.matches = h
	}
}

// Service 管理用 gRPC 服務: 查詢狀態與強制關閉房間 / 踢除連線
type Service struct {
	UnimplementedAdminServer

	rooms    RoomAdmin
	sessions SessionAdmin
	matches  MatchHistory
	logger   *slog.Logger
}

var _ AdminServer = (*Service)(nil)

// NewService 建立管理服務
func NewService(rooms RoomAdmin, sessions SessionAdmin, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		rooms:    rooms,
		sessions: sessions,
		logger:   logger.With("component", "admin"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetStats 回傳房間與連線統計
func (s *Service) GetStats(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	st := s.rooms.Stats()
	return structpb.NewStruct(map[string]any{
		"rooms":          st.Rooms,
		"playing":        st.Playing,
		"connectedSeats": st.ConnectedSeats,
		"spectators":     st.Spectators,
		"sessions":       s.sessions.Count(),
	})
}

// ListRooms 列出所有房間摘要 (依建立時間排序)
func (s *Service) ListRooms(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	infos := s.rooms.Rooms()
	list := make([]any, 0, len(infos))
	for _, info := range infos {
		list = append(list, roomToMap(info))
	}
	return structpb.NewStruct(map[string]any{"rooms": list})
}

// CloseRoom 關閉並移除房間
func (s *Service) CloseRoom(_ context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	id := req.GetValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "room id required")
	}
	if err := s.rooms.DeleteRoom(id); err != nil {
		if errors.Is(err, manager.ErrRoomNotFound) {
			return nil, status.Errorf(codes.NotFound, "room %s not found", id)
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	s.logger.Info("Room closed by admin", "room_id", id)
	return &emptypb.Empty{}, nil
}

// KickSession 踢除指定連線，回傳是否找到該連線
func (s *Service) KickSession(_ context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	id := req.GetValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "session id required")
	}
	kicked := s.sessions.Kick(id, "Kicked by admin")
	s.logger.Info("Kick session", "session_id", id, "found", kicked)
	return wrapperspb.Bool(kicked), nil
}

// ListMatches 某位使用者最近的比賽紀錄 (新到舊)
func (s *Service) ListMatches(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if s.matches == nil {
		return nil, status.Error(codes.Unavailable, "match history not configured")
	}
	userID := req.GetValue()
	if userID == "" {
		return nil, status.Error(codes.InvalidArgument, "user id required")
	}
	results, err := s.matches.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		s.logger.Error("List matches failed", "user_id", userID, "error", err)
		return nil, status.Error(codes.Internal, err.Error())
	}
	list := make([]any, 0, len(results))
	for _, m := range results {
		list = append(list, matchToMap(m))
	}
	return structpb.NewStruct(map[string]any{"matches": list})
}

func matchToMap(m domain.MatchResult) map[string]any {
	return map[string]any{
		"roomId":       m.RoomID,
		"winner":       m.WinnerSide,
		"winnerUserId": m.WinnerUserID(),
		"scoreLeft":    m.ScoreLeft,
		"scoreRight":   m.ScoreRight,
		"leftUserId":   m.LeftUserID,
		"rightUserId":  m.RightUserID,
		"startedAt":    m.StartedAt.UTC().Format(time.RFC3339),
		"finishedAt":   m.FinishedAt.UTC().Format(time.RFC3339),
	}
}

func roomToMap(info room.Info) map[string]any {
	seats := make([]any, 0, len(info.Seats))
	for _, seat := range info.Seats {
		seats = append(seats, map[string]any{
			"userId":      seat.UserID,
			"displayName": seat.DisplayName,
			"side":        string(seat.Side),
			"connected":   seat.Connected,
			"ready":       seat.Ready,
		})
	}
	return map[string]any{
		"id":             info.ID,
		"status":         string(info.Status),
		"pauseReason":    string(info.PauseReason),
		"seats":          seats,
		"connectedSeats": info.ConnectedSeats,
		"spectators":     info.Spectators,
		"scoreLeft":      info.ScoreLeft,
		"scoreRight":     info.ScoreRight,
		"createdAt":      info.CreatedAt.UTC().Format(time.RFC3339),
		"lastActive":     info.LastActive.UTC().Format(time.RFC3339),
	}
}
