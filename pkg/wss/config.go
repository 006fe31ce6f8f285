package wss

import "time"

// Config WebSocket 伺服器設定
type Config struct {
	Path            string   // 掛載路徑 (由呼叫端註冊到 mux)
	AllowedOrigins  []string // 允許的 Origin，"*" 表示全部
	ReadBufferSize  int
	WriteBufferSize int
	WriteWait       time.Duration // 單次寫入的期限
	PongWait        time.Duration // 多久沒收到 pong 視為斷線
	PingPeriod      time.Duration // ping 間隔，必須小於 PongWait
	MaxMessageSize  int64         // 單一訊息上限 (bytes)
	SendQueueSize   int           // 每條連線的送出佇列容量，滿了會丟棄最舊的訊息
}

const (
	defaultWriteWait      = 10 * time.Second
	defaultPongWait       = 60 * time.Second
	defaultMaxMessageSize = 4096
	defaultSendQueueSize  = 64
	defaultBufferSize     = 1024
)

func (c *Config) applyDefaults() {
	if c.Path == "" {
		c.Path = "/ws"
	}
	if c.WriteWait <= 0 {
		c.WriteWait = defaultWriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = defaultPongWait
	}
	// 如果 PingPeriod 沒有被設定，則根據 PongWait 計算一個合理的值
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = (c.PongWait * 9) / 10
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = defaultMaxMessageSize
	}
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = defaultSendQueueSize
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = defaultBufferSize
	}
	if c.WriteBufferSize <= 0 {
		c.WriteBufferSize = defaultBufferSize
	}
}
