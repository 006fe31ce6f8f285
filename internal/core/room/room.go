package room

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/protocol"
	"github.com/JoeShih716/go-k8s-pong-server/internal/game/pong"
	"github.com/JoeShih716/go-k8s-pong-server/pkg/clock"
)

// Transport 推送訊息給單一連線的 handle。
// Send 不可阻塞；實作必須是指標型別，Room 以 == 比對 handle 是否仍為目前的連線。
type Transport interface {
	Send(frame []byte) error
}

const defaultRecordTimeout = 5 * time.Second

// Deps 建立 Room 所需的依賴
type Deps struct {
	Clock         pong.Clock            // 時間來源，nil 則使用系統時間
	Rand          *rand.Rand            // 發球亂數，nil 則以時間為種子
	Sink          ports.MatchResultSink // 比賽結果出口，可為 nil
	Logger        *slog.Logger
	Engine        pong.Config   // 零值則使用 pong.DefaultConfig()
	RecordTimeout time.Duration // 呼叫 Sink 的逾時
}

// Info 房間的唯讀摘要
type Info struct {
	ID             string
	Status         Status
	PauseReason    PauseReason
	Seats          []Seat
	ConnectedSeats int
	Spectators     int
	ScoreLeft      int
	ScoreRight     int
	CreatedAt      time.Time
	LastActive     time.Time
}

// Room 一場比賽: 一個 Engine 加上最多兩個座位。
// 所有對 Engine 的操作 (指令與 tick) 都在 mu 之下序列化。
type Room struct {
	id        string
	createdAt time.Time
	clock     pong.Clock
	sink      ports.MatchResultSink
	logger    *slog.Logger
	timeout   time.Duration

	mu          sync.Mutex
	engine      *pong.Engine
	seats       map[string]*Seat     // userID -> seat
	order       [2]string            // [left, right] 的 userID
	transports  map[string]Transport // userID -> 目前的連線
	spectators  map[Transport]string // 連線 -> userID
	failed      map[Transport]struct{}
	status      Status
	pauseReason PauseReason
	startedAt   time.Time
	lastActive  time.Time
	closed      bool

	ticking atomic.Bool
}

// New 建立一個空房間 (status = waitingForPlayers)
//
// 參數:
//
//	id: string - 房間 ID
//	deps: Deps - 依賴
//
// 回傳值:
//
//	*Room: 新房間
func New(id string, deps Deps) *Room {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Engine == (pong.Config{}) {
		deps.Engine = pong.DefaultConfig()
	}
	if deps.RecordTimeout <= 0 {
		deps.RecordTimeout = defaultRecordTimeout
	}
	now := deps.Clock.Now()
	return &Room{
		id:         id,
		createdAt:  now,
		clock:      deps.Clock,
		sink:       deps.Sink,
		logger:     deps.Logger.With("component", "room", "room_id", id),
		timeout:    deps.RecordTimeout,
		engine:     pong.NewEngine(deps.Engine, deps.Clock, deps.Rand),
		seats:      make(map[string]*Seat, 2),
		transports: make(map[string]Transport, 2),
		spectators: make(map[Transport]string),
		failed:     make(map[Transport]struct{}),
		status:     StatusWaitingForPlayers,
		lastActive: now,
	}
}

func (r *Room) ID() string {
	return r.id
}

func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// State 回傳 Engine 狀態的複本
func (r *Room) State() pong.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Snapshot()
}

// Seat 查詢某位使用者的座位
func (r *Room) Seat(userID string) (Seat, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.seats[userID]
	if !ok {
		return Seat{}, false
	}
	return r.seatViewLocked(s), true
}

// AddPlayer 為使用者保留座位。先到的是 left，第二位是 right。
// 已有座位的使用者再次加入 (重新連線) 一定成功並回傳原本的座位。
//
// 參數:
//
//	userID: string - 穩定的使用者 ID
//	displayName: string - 顯示名稱
//
// 回傳值:
//
//	Seat: 分配到的座位
//	error: ErrRoomFull / ErrRoomClosed
func (r *Room) AddPlayer(userID, displayName string) (Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Seat{}, ErrRoomClosed
	}
	r.lastActive = r.clock.Now()

	if s, ok := r.seats[userID]; ok {
		if displayName != "" {
			s.DisplayName = displayName
		}
		return r.seatViewLocked(s), nil
	}
	if len(r.seats) >= 2 {
		return Seat{}, ErrRoomFull
	}

	side := pong.SideLeft
	idx := 0
	if r.order[0] != "" {
		side = pong.SideRight
		idx = 1
	}
	s := &Seat{UserID: userID, DisplayName: displayName, Side: side}
	r.seats[userID] = s
	r.order[idx] = userID

	if len(r.seats) == 2 && r.status == StatusWaitingForPlayers {
		r.status = StatusReadyCheck
	}
	r.logger.Info("Seat reserved", "user_id", userID, "side", side, "seats", len(r.seats))
	return r.seatViewLocked(s), nil
}

// AttachTransport 綁定 (或重新綁定) 座位的連線。
// 成功時立即推送一次完整快照給這條連線，再檢查是否可以開賽或自動恢復。
func (r *Room) AttachTransport(userID string, t Transport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if _, ok := r.seats[userID]; !ok {
		return ErrNotSeated
	}
	r.transports[userID] = t
	delete(r.failed, t)
	r.lastActive = r.clock.Now()

	r.sendLocked(t, r.snapshotFrameLocked())
	r.checkStartLocked()
	return nil
}

// AttachSpectator 以唯讀身份接收廣播
func (r *Room) AttachSpectator(userID string, t Transport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	r.spectators[t] = userID
	delete(r.failed, t)
	r.lastActive = r.clock.Now()
	r.sendLocked(t, r.snapshotFrameLocked())
	return nil
}

// RemovePlayer 解除座位的連線綁定，座位本身保留。比賽進行中會被強制暫停。
func (r *Room) RemovePlayer(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detachPlayerLocked(userID)
}

// DetachTransport 只有在 t 仍是目前綁定的連線時才解除，避免舊連線的斷線事件覆蓋重新連線。
// 觀戰者的連線也由此移除。
//
// 回傳值:
//
//	bool: 是否有解除任何綁定
func (r *Room) DetachTransport(userID string, t Transport) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.transports[userID]; ok && cur == t {
		r.detachPlayerLocked(userID)
		return true
	}
	if _, ok := r.spectators[t]; ok {
		delete(r.spectators, t)
		delete(r.failed, t)
		return true
	}
	return false
}

// Tick 推進一幀並廣播。只有 playing 時才有效果。
// 上一次 Tick 還沒結束時直接略過。
func (r *Room) Tick() {
	if !r.ticking.CompareAndSwap(false, true) {
		return
	}
	defer r.ticking.Store(false)

	r.mu.Lock()
	r.reapFailedLocked()
	if r.closed || r.status != StatusPlaying {
		r.mu.Unlock()
		return
	}

	res := r.engine.Update()
	if !res.Ended {
		r.broadcastLocked(protocol.TypeState, r.stateDataLocked())
		r.mu.Unlock()
		return
	}

	r.status = StatusEnded
	winner := r.engine.Winner()
	r.broadcastLocked(protocol.TypeEnded, r.endedDataLocked())
	result := r.resultLocked()
	r.mu.Unlock()

	r.logger.Info("Match ended", "winner", winner, "score_left", result.ScoreLeft, "score_right", result.ScoreRight)
	r.record(result)
}

// Input 處理玩家的球拍指令
//
// 參數:
//
//	userID: string - 呼叫者
//	player: int - 協議中的玩家編號，0 表示以呼叫者的座位為準
//	dir: pong.Direction - 方向
//
// 回傳值:
//
//	error: ErrNotSeated / ErrNotYourPaddle；非 playing 時靜默忽略並回傳 nil
func (r *Room) Input(userID string, player int, dir pong.Direction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seats[userID]
	if !ok {
		return ErrNotSeated
	}
	if player != 0 && player != s.Player() {
		return ErrNotYourPaddle
	}
	if r.status != StatusPlaying {
		return nil
	}
	r.lastActive = r.clock.Now()
	r.engine.MovePaddle(s.Side, dir)
	return nil
}

// MovePaddle 直接操作某一側的球拍，只有 playing 時才轉交給 Engine
func (r *Room) MovePaddle(side pong.Side, dir pong.Direction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusPlaying {
		return false
	}
	return r.engine.MovePaddle(side, dir)
}

// Pause 玩家主動暫停。已暫停或未開賽時為 no-op。
func (r *Room) Pause(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seats[userID]; !ok {
		return ErrNotSeated
	}
	if r.status != StatusPlaying {
		return nil
	}
	r.pauseLocked(PausePlayer)
	return nil
}

// Resume 恢復比賽，需要兩條連線都在線
func (r *Room) Resume(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seats[userID]; !ok {
		return ErrNotSeated
	}
	if r.status != StatusPaused || r.liveSeatsLocked() < 2 {
		return nil
	}
	r.resumeLocked()
	return nil
}

// Ready 記錄準備旗標 (只做為資訊顯示，不影響開賽條件)
func (r *Room) Ready(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seats[userID]
	if !ok {
		return ErrNotSeated
	}
	if s.Ready {
		return nil
	}
	s.Ready = true
	r.lastActive = r.clock.Now()
	// ended 之後不再廣播 game_state
	if r.status != StatusPlaying && r.status != StatusEnded {
		r.broadcastLocked(protocol.TypeState, r.stateDataLocked())
	}
	return nil
}

// Close 關閉房間並停止所有推送。重複呼叫無副作用。
// 連線本身不會被關閉，那是 transport 層的責任。
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.status == StatusPlaying {
		r.engine.Pause()
	}
	clear(r.transports)
	clear(r.spectators)
	clear(r.failed)
	r.logger.Info("Room closed", "status", r.status)
}

// Closed 房間是否已關閉
func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Info 回傳房間摘要
func (r *Room) Info() Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.engine.Snapshot()
	info := Info{
		ID:             r.id,
		Status:         r.status,
		PauseReason:    r.pauseReason,
		ConnectedSeats: r.liveSeatsLocked(),
		Spectators:     len(r.spectators),
		ScoreLeft:      st.ScoreLeft,
		ScoreRight:     st.ScoreRight,
		CreatedAt:      r.createdAt,
		LastActive:     r.lastActive,
	}
	for _, uid := range r.order {
		if s, ok := r.seats[uid]; ok {
			info.Seats = append(info.Seats, r.seatViewLocked(s))
		}
	}
	return info
}

// -------------------------------------------------------------
// Internal (呼叫端必須持有 mu)
// -------------------------------------------------------------

// checkStartLocked 兩個座位都已占用且兩條連線都在線時開賽，或從斷線暫停中自動恢復
func (r *Room) checkStartLocked() {
	if len(r.seats) < 2 || r.liveSeatsLocked() < 2 {
		return
	}
	switch r.status {
	case StatusReadyCheck:
		if !r.engine.StartGame() {
			return
		}
		r.status = StatusPlaying
		r.startedAt = r.clock.Now()
		r.logger.Info("Match started")
		r.broadcastLocked(protocol.TypeStarted, protocol.StartedData{Players: r.playersLocked()})
	case StatusPaused:
		if r.pauseReason == PauseDisconnect {
			r.resumeLocked()
		}
	}
}

func (r *Room) detachPlayerLocked(userID string) {
	t, ok := r.transports[userID]
	if !ok {
		return
	}
	delete(r.transports, userID)
	delete(r.failed, t)
	r.lastActive = r.clock.Now()
	r.logger.Info("Seat disconnected", "user_id", userID, "status", r.status)

	if r.status == StatusPlaying {
		r.pauseLocked(PauseDisconnect)
	}
}

func (r *Room) pauseLocked(reason PauseReason) {
	r.engine.Pause()
	r.status = StatusPaused
	r.pauseReason = reason
	r.broadcastLocked(protocol.TypePaused, protocol.PausedData{Reason: string(reason)})
}

func (r *Room) resumeLocked() {
	r.engine.Resume()
	r.status = StatusPlaying
	r.pauseReason = PauseNone
	r.broadcastLocked(protocol.TypeResumed, protocol.ResumedData{Players: r.playersLocked()})
}

// reapFailedLocked 將送出失敗的連線視為斷線
func (r *Room) reapFailedLocked() {
	if len(r.failed) == 0 {
		return
	}
	for t := range r.failed {
		if _, ok := r.spectators[t]; ok {
			delete(r.spectators, t)
			continue
		}
		for uid, cur := range r.transports {
			if cur == t {
				r.detachPlayerLocked(uid)
			}
		}
	}
	clear(r.failed)
}

func (r *Room) liveSeatsLocked() int {
	n := 0
	for uid := range r.seats {
		if _, ok := r.transports[uid]; ok {
			n++
		}
	}
	return n
}

func (r *Room) seatViewLocked(s *Seat) Seat {
	v := *s
	_, v.Connected = r.transports[s.UserID]
	return v
}

func (r *Room) resultLocked() domain.MatchResult {
	st := r.engine.Snapshot()
	return domain.MatchResult{
		RoomID:      r.id,
		WinnerSide:  string(st.Winner),
		ScoreLeft:   st.ScoreLeft,
		ScoreRight:  st.ScoreRight,
		LeftUserID:  r.order[0],
		RightUserID: r.order[1],
		StartedAt:   r.startedAt,
		FinishedAt:  r.clock.Now(),
	}
}

// record 呼叫 Sink，不持有 mu
func (r *Room) record(result domain.MatchResult) {
	if r.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.sink.RecordMatch(ctx, result); err != nil {
		r.logger.Error("Failed to record match result", "error", err)
	}
}
