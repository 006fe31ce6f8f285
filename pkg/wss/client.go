package wss

import "errors"

// ErrConnectionClosed 對已關閉的連線送訊息
var ErrConnectionClosed = errors.New("wss: connection closed")

// Client 是業務層看到的單一 WebSocket 連線
//
//go:generate mockgen -destination=../../test/mocks/pkg/wss/mock_client.go -package=mock_wss github.com/JoeShih716/go-k8s-pong-server/pkg/wss Client
type Client interface {
	// ID 連線唯一 ID
	ID() string
	// SendMessage 放入送出佇列，不會阻塞。佇列滿時丟棄最舊的一筆；連線關閉後回傳 ErrConnectionClosed
	SendMessage(msg string) error
	// Kick 送出 close frame 後關閉連線
	Kick(reason string) error
	// SetTag 在連線上附加業務資料
	SetTag(key string, value any)
	// GetTag 讀取業務資料
	GetTag(key string) (any, bool)
}

// Subscriber 業務邏輯處理器，接收連線事件。
// 同一條連線的 OnMessage 依序在它的 read goroutine 上呼叫；OnConnect 一定早於 OnMessage。
type Subscriber interface {
	OnConnect(conn Client)
	OnDisconnect(conn Client)
	OnMessage(conn Client, msg []byte)
}
