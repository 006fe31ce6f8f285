package wss

import (
	"context"
	"log/slog"
	"sync"
)

// hub 管理所有連線並把事件轉交給 Subscriber
type hub struct {
	ctx    context.Context
	logger *slog.Logger

	mu          sync.RWMutex
	clients     map[string]*connection
	subscribers []Subscriber
}

func newHub(ctx context.Context, logger *slog.Logger) *hub {
	return &hub{
		ctx:     ctx,
		logger:  logger,
		clients: make(map[string]*connection),
	}
}

// run 等待 ctx 結束後關閉所有連線
func (h *hub) run() {
	<-h.ctx.Done()

	h.mu.RLock()
	clients := make([]*connection, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		_ = c.Kick("server shutdown")
	}
	h.logger.Info("Hub stopped", "closed", len(clients))
}

func (h *hub) registerSubscriber(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, s)
}

func (h *hub) subs() []Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.subscribers
}

// add 同步註冊並觸發 OnConnect，確保在 readPump 開始前完成
func (h *hub) add(c *connection) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	for _, s := range h.subs() {
		s.OnConnect(c)
	}
}

func (h *hub) remove(c *connection) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	if !ok {
		return
	}
	for _, s := range h.subs() {
		s.OnDisconnect(c)
	}
}

func (h *hub) dispatch(c *connection, msg []byte) {
	for _, s := range h.subs() {
		s.OnMessage(c, msg)
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
