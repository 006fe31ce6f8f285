package handler

import (
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/room"
)

// RoomRegistry 定義了 WebsocketHandler 需要的房間操作
type RoomRegistry interface {
	CreateRoom(explicitID string) (*room.Room, error)
	EnsureRoom(roomID string) (*room.Room, error)
	GetRoom(roomID string) (*room.Room, error)
}
