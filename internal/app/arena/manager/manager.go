package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/room"
	"github.com/JoeShih716/go-k8s-pong-server/internal/game/pong"
	"github.com/JoeShih716/go-k8s-pong-server/pkg/clock"
)

var (
	ErrRoomExists    = errors.New("room already exists")
	ErrRoomNotFound  = errors.New("room not found")
	ErrInvalidRoomID = errors.New("invalid room id")
)

var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

const (
	defaultTickRate      = 60
	defaultSweepInterval = 30 * time.Second
)

// Config Manager 設定
type Config struct {
	TickRate      int           // 每秒 tick 次數
	SweepInterval time.Duration // 閒置房間清理間隔
	RecordTimeout time.Duration // 寫入比賽結果的逾時
	Engine        pong.Config
}

// Stats 對外的統計數據
type Stats struct {
	Rooms          int
	Playing        int
	ConnectedSeats int
	Spectators     int
}

// Option Manager 的可選設定
type Option func(*Manager)

// WithClock 注入時鐘 (測試用假時鐘)
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithReapPolicy 設定閒置房間的清理策略
func WithReapPolicy(p ReapPolicy) Option {
	return func(m *Manager) { m.reap = p }
}

// WithIDGenerator 設定伺服器產生房間 ID 的方式
func WithIDGenerator(f func() string) Option {
	return func(m *Manager) { m.newID = f }
}

// WithRandSource 每建立一個房間就呼叫一次，提供該房間發球用的亂數來源
func WithRandSource(f func() *rand.Rand) Option {
	return func(m *Manager) { m.newRand = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithSink 設定比賽結果出口
func WithSink(s ports.MatchResultSink) Option {
	return func(m *Manager) { m.sink = s }
}

// Manager 房間註冊表與排程器。
// 單一時鐘以固定頻率驅動所有 playing 的房間，每個房間在自己的 goroutine 上 tick，互不阻塞。
type Manager struct {
	cfg     Config
	clock   clock.Clock
	reap    ReapPolicy
	newID   func() string
	newRand func() *rand.Rand
	sink    ports.MatchResultSink
	base    *slog.Logger
	logger  *slog.Logger

	mu    sync.RWMutex
	rooms map[string]*room.Room

	stopChan chan struct{}
	stopOnce sync.Once
	inflight sync.WaitGroup
}

// New 建立 Manager
//
// 參數:
//
//	cfg: Config - 設定，零值欄位使用預設值
//	opts: ...Option - 可選設定
//
// 回傳值:
//
//	*Manager: 尚未啟動的 Manager，需呼叫 Start
func New(cfg Config, opts ...Option) *Manager {
	if cfg.TickRate <= 0 {
		cfg.TickRate = defaultTickRate
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.Engine == (pong.Config{}) {
		cfg.Engine = pong.DefaultConfig()
	}
	m := &Manager{
		cfg:      cfg,
		clock:    clock.New(),
		reap:     NeverReap{},
		newID:    uuid.NewString,
		newRand:  func() *rand.Rand { return nil },
		logger:   slog.Default(),
		rooms:    make(map[string]*room.Room),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.base = m.logger
	m.logger = m.logger.With("component", "room_manager")
	return m
}

// Start 啟動 Tick Loop，阻塞直到 ctx 結束或 Stop 被呼叫。
// 離開前會等待所有進行中的 tick 完成。
func (m *Manager) Start(ctx context.Context) {
	interval := time.Second / time.Duration(m.cfg.TickRate)
	ticker := m.clock.NewTicker(interval)
	sweeper := m.clock.NewTicker(m.cfg.SweepInterval)
	defer func() {
		ticker.Stop()
		sweeper.Stop()
		m.inflight.Wait()
	}()

	m.logger.Info("Room Manager Started", "tick_rate", m.cfg.TickRate)

	for {
		select {
		case <-m.stopChan:
			m.logger.Info("Room Manager Stopped")
			return
		case <-ctx.Done():
			m.logger.Info("Room Manager Stopped", "reason", ctx.Err())
			return
		case <-ticker.C():
			m.tickAll()
		case <-sweeper.C():
			m.Sweep()
		}
	}
}

// Stop 停止 Tick Loop 並關閉所有房間，可重複呼叫
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})

	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[string]*room.Room)
	m.mu.Unlock()

	for _, r := range rooms {
		r.Close()
	}
}

// Tick 同步驅動一次所有 playing 的房間 (測試與手動推進用)
func (m *Manager) Tick() {
	m.tickAll()
	m.inflight.Wait()
}

func (m *Manager) tickAll() {
	for _, r := range m.snapshot() {
		if r.Status() != room.StatusPlaying {
			continue
		}
		m.inflight.Add(1)
		go func(r *room.Room) {
			defer m.inflight.Done()
			r.Tick()
		}(r)
	}
}

// snapshot 在短暫的讀鎖下複製房間列表
func (m *Manager) snapshot() []*room.Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*room.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

// CreateRoom 建立房間
//
// 參數:
//
//	explicitID: string - 指定的房間 ID，空字串則由伺服器產生
//
// 回傳值:
//
//	*room.Room: 新房間
//	error: ErrInvalidRoomID / ErrRoomExists
func (m *Manager) CreateRoom(explicitID string) (*room.Room, error) {
	id := explicitID
	if id == "" {
		id = m.newID()
	}
	if !roomIDPattern.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRoomID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rooms[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrRoomExists, id)
	}
	r := m.newRoomLocked(id)
	return r, nil
}

// EnsureRoom 取得或建立房間 (join 一個尚不存在的 ID 時使用)
func (m *Manager) EnsureRoom(roomID string) (*room.Room, error) {
	if !roomIDPattern.MatchString(roomID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRoomID, roomID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if r, exists := m.rooms[roomID]; exists {
		return r, nil
	}
	return m.newRoomLocked(roomID), nil
}

func (m *Manager) newRoomLocked(id string) *room.Room {
	r := room.New(id, room.Deps{
		Clock:         m.clock,
		Rand:          m.newRand(),
		Sink:          m.sink,
		Logger:        m.base,
		Engine:        m.cfg.Engine,
		RecordTimeout: m.cfg.RecordTimeout,
	})
	m.rooms[id] = r
	m.logger.Info("Created New Room", "room_id", id, "rooms", len(m.rooms))
	return r
}

// GetRoom 取得房間
func (m *Manager) GetRoom(roomID string) (*room.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, exists := m.rooms[roomID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return r, nil
}

// DeleteRoom 移除並關閉房間。連線本身不會被關閉。
func (m *Manager) DeleteRoom(roomID string) error {
	m.mu.Lock()
	r, exists := m.rooms[roomID]
	delete(m.rooms, roomID)
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	r.Close()
	m.logger.Info("Deleted Room", "room_id", roomID)
	return nil
}

// Rooms 回傳所有房間的摘要，依建立時間排序
func (m *Manager) Rooms() []room.Info {
	rooms := m.snapshot()
	infos := make([]room.Info, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.Info())
	}
	slices.SortFunc(infos, func(a, b room.Info) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return infos
}

// Stats 房間數、進行中的房間數、在線座位數
func (m *Manager) Stats() Stats {
	var s Stats
	for _, r := range m.snapshot() {
		info := r.Info()
		s.Rooms++
		if info.Status == room.StatusPlaying {
			s.Playing++
		}
		s.ConnectedSeats += info.ConnectedSeats
		s.Spectators += info.Spectators
	}
	return s
}

// Sweep 依 ReapPolicy 清理房間
//
// 回傳值:
//
//	int: 被清理的房間數
func (m *Manager) Sweep() int {
	now := m.clock.Now()
	reaped := 0
	for _, r := range m.snapshot() {
		if !m.reap.ShouldReap(r.Info(), now) {
			continue
		}
		m.mu.Lock()
		cur, ok := m.rooms[r.ID()]
		if ok && cur == r {
			delete(m.rooms, r.ID())
		}
		m.mu.Unlock()
		if ok && cur == r {
			r.Close()
			reaped++
		}
	}
	if reaped > 0 {
		m.logger.Info("Swept idle rooms", "reaped", reaped)
	}
	return reaped
}
