package wss

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// connection 實作 Client。
// 送出佇列是有界的: 滿了就丟掉最舊的訊息，讓慢的客戶端永遠收斂到最新狀態，SendMessage 不會阻塞。
type connection struct {
	id     string
	hub    *hub
	conn   *websocket.Conn
	cfg    *Config
	logger *slog.Logger

	mu      sync.Mutex
	queue   [][]byte
	closed  bool
	dropped atomic.Uint64

	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	tags sync.Map
}

var _ Client = (*connection)(nil)

func newConnection(h *hub, conn *websocket.Conn, cfg *Config, logger *slog.Logger) *connection {
	id := uuid.NewString()
	return &connection{
		id:     id,
		hub:    h,
		conn:   conn,
		cfg:    cfg,
		logger: logger.With("conn_id", id),
		queue:  make([][]byte, 0, cfg.SendQueueSize),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (c *connection) ID() string {
	return c.id
}

func (c *connection) SendMessage(msg string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrConnectionClosed
	}
	if len(c.queue) >= c.cfg.SendQueueSize {
		c.queue[0] = nil
		c.queue = c.queue[1:]
		c.dropped.Add(1)
	}
	c.queue = append(c.queue, []byte(msg))
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
	return nil
}

// Dropped 因佇列滿而被丟棄的訊息數
func (c *connection) Dropped() uint64 {
	return c.dropped.Load()
}

func (c *connection) Kick(reason string) error {
	var err error
	if c.conn != nil {
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
		err = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.cfg.WriteWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			err = nil
		}
	}
	c.close()
	return err
}

func (c *connection) SetTag(key string, value any) {
	c.tags.Store(key, value)
}

func (c *connection) GetTag(key string) (any, bool) {
	return c.tags.Load(key)
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.queue = nil
		c.mu.Unlock()
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// drain 取出目前佇列中所有的訊息
func (c *connection) drain() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil
	}
	out := c.queue
	c.queue = make([][]byte, 0, c.cfg.SendQueueSize)
	return out
}

func (c *connection) readPump() {
	defer func() {
		c.close()
		c.hub.remove(c)
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		messageType, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.hub.dispatch(c, msg)
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case <-c.notify:
			for _, msg := range c.drain() {
				_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
				if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					c.logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
