package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/JoeShih716/go-k8s-pong-server/internal/app/arena/manager"
	"github.com/JoeShih716/go-k8s-pong-server/pkg/redis"
)

// ChannelCloseRoom 其他服務可以在這個頻道發佈房間 ID 來關閉房間
const ChannelCloseRoom = "pong:admin:close-room"

// Subscriber 訂閱介面 (由 pkg/redis.Client 實作)
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler redis.MessageHandler) error
}

// ListenCloseRoom 訂閱 ChannelCloseRoom，收到房間 ID 就關閉房間。ctx 結束時停止訂閱。
func ListenCloseRoom(ctx context.Context, sub Subscriber, rooms RoomAdmin, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	return sub.Subscribe(ctx, ChannelCloseRoom, func(payload string) {
		id := strings.TrimSpace(payload)
		if id == "" {
			return
		}
		if err := rooms.DeleteRoom(id); err != nil {
			if errors.Is(err, manager.ErrRoomNotFound) {
				logger.Debug("Close-room for unknown room", "room_id", id)
				return
			}
			logger.Warn("Close-room failed", "room_id", id, "error", err)
			return
		}
		logger.Info("Room closed via pubsub", "room_id", id)
	})
}
