package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-k8s-pong-server/internal/app/arena/manager"
	"github.com/JoeShih716/go-k8s-pong-server/internal/app/connector/session"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/protocol"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/room"
	"github.com/JoeShih716/go-k8s-pong-server/internal/game/pong"
	"github.com/JoeShih716/go-k8s-pong-server/pkg/wss"
)

// 連線上的 Tag
const (
	tagLoginTimer  = "login_timer"
	tagUserID      = "user_id"
	tagDisplayName = "display_name"
	tagGameID      = "game_id"
	tagRole        = "role"
)

const (
	rolePlayer    = "player"
	roleSpectator = "spectator"

	guestTokenPrefix    = "guest:"
	defaultLoginTimeout = 10 * time.Second
	callTimeout         = 3 * time.Second
)

// 回給前端的錯誤訊息
const (
	msgInvalidMessage  = "invalid message"
	msgUnknownType     = "unknown message type"
	msgNotLoggedIn     = "not logged in"
	msgAlreadyLoggedIn = "already logged in"
	msgAuthFailed      = "authentication failed"
	msgGameIDRequired  = "gameId required"
	msgInvalidInput    = "invalid input"
	msgUnknownRoom     = "unknown room"
	msgRoomFull        = "room is full"
	msgRoomExists      = "room already exists"
	msgInvalidRoomID   = "invalid room id"
	msgNotSeated       = "not seated in this room"
	msgSpectatorInput  = "spectators cannot send input"
	msgRoomClosed      = "room is closed"
	msgInternal        = "internal error"
)

// Options WebsocketHandler 的行為設定
type Options struct {
	AllowGuest   bool          // 允許 guest:<name> token 建立訪客
	AutoCreate   bool          // join 不存在的房間時自動建立
	LoginTimeout time.Duration // 連線後必須在此時間內登入
}

// WebsocketHandler 實作 wss.Subscriber 介面: 把前端訊息轉成 Room / Registry 操作
type WebsocketHandler struct {
	sessionMgr *session.Manager
	rooms      RoomRegistry
	users      ports.UserService
	opts       Options
	logger     *slog.Logger
}

var _ wss.Subscriber = (*WebsocketHandler)(nil)

// NewWebsocketHandler 建立 WebSocket 事件處理器
func NewWebsocketHandler(mgr *session.Manager, rooms RoomRegistry, users ports.UserService, opts Options, logger *slog.Logger) *WebsocketHandler {
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = defaultLoginTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebsocketHandler{
		sessionMgr: mgr,
		rooms:      rooms,
		users:      users,
		opts:       opts,
		logger:     logger.With("component", "ws_handler"),
	}
}

// OnConnect 當新連線建立時觸發
func (h *WebsocketHandler) OnConnect(conn wss.Client) {
	sess := domain.NewSession(conn)
	h.sessionMgr.Add(sess)

	h.logger.Info("Client connected", "session_id", conn.ID(), "online", h.sessionMgr.Count())

	// 必須在時限內登入，否則斷線
	loginTimer := time.AfterFunc(h.opts.LoginTimeout, func() {
		h.logger.Info("Login timeout, kicking client", "session_id", conn.ID())
		_ = conn.Kick("Login Timeout")
	})
	conn.SetTag(tagLoginTimer, loginTimer)
}

// OnDisconnect 當連線斷開時觸發
func (h *WebsocketHandler) OnDisconnect(conn wss.Client) {
	h.stopTimer(conn, tagLoginTimer)
	h.leaveCurrent(conn)

	h.sessionMgr.Remove(conn.ID())
	h.logger.Info("Client disconnected", "session_id", conn.ID(), "online", h.sessionMgr.Count())
}

// OnMessage 當收到訊息時觸發
func (h *WebsocketHandler) OnMessage(conn wss.Client, msg []byte) {
	env, err := protocol.Decode(msg)
	if err != nil {
		h.logger.Warn("Invalid JSON envelope", "session_id", conn.ID(), "error", err)
		h.sendError(conn, "", msgInvalidMessage)
		return
	}

	ctx := context.Background()

	// 不需要登入的指令
	switch env.Type {
	case protocol.TypePing:
		h.send(conn, protocol.TypePong, "", nil)
		return
	case protocol.TypeLogin:
		h.handleLogin(ctx, conn, env)
		return
	}

	userID := tagString(conn, tagUserID)
	if userID == "" {
		h.sendError(conn, env.GameID, msgNotLoggedIn)
		return
	}

	switch env.Type {
	case protocol.TypeCreate:
		h.handleCreate(conn, env)
	case protocol.TypeJoin:
		h.handleJoin(conn, userID, env)
	case protocol.TypeSpectate:
		h.handleSpectate(conn, userID, env)
	case protocol.TypeInput:
		h.handleInput(conn, userID, env)
	case protocol.TypeReady, protocol.TypePause, protocol.TypeResume:
		h.handleControl(conn, userID, env)
	case protocol.TypeLeave:
		h.handleLeave(conn, env)
	default:
		h.logger.Warn("Unknown message type", "type", env.Type, "session_id", conn.ID())
		h.sendError(conn, env.GameID, msgUnknownType)
	}
}

// -------------------------------------------------------------
// Handlers
// -------------------------------------------------------------

func (h *WebsocketHandler) handleLogin(ctx context.Context, conn wss.Client, env protocol.Envelope) {
	// 檢查是否重複登入
	if tagString(conn, tagUserID) != "" {
		h.sendError(conn, "", msgAlreadyLoggedIn)
		return
	}

	var req protocol.LoginReq
	if err := json.Unmarshal(env.Data, &req); err != nil || req.Token == "" {
		h.sendError(conn, "", msgInvalidMessage)
		return
	}

	loginCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	user, err := h.authenticate(loginCtx, req.Token)
	if err != nil {
		h.logger.Warn("Login failed", "session_id", conn.ID(), "error", err)
		h.sendError(conn, "", msgAuthFailed)
		// 驗證失敗斷線，留一點時間讓錯誤訊息送出
		time.AfterFunc(100*time.Millisecond, func() { _ = conn.Kick("Auth Failed") })
		return
	}

	h.stopTimer(conn, tagLoginTimer)
	conn.SetTag(tagUserID, user.ID)
	conn.SetTag(tagDisplayName, user.Name)
	h.logger.Info("User Logged In", "user_id", user.ID, "guest", user.Guest)

	h.send(conn, protocol.TypeLoginOK, "", protocol.LoginResp{
		UserID:      user.ID,
		DisplayName: user.Name,
	})
}

// authenticate 以 token 查詢使用者；允許訪客時 guest:<name> 會建立一位新的訪客
func (h *WebsocketHandler) authenticate(ctx context.Context, token string) (*domain.User, error) {
	user, err := h.users.GetUser(ctx, token)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ports.ErrUserNotFound) || !h.opts.AllowGuest || !strings.HasPrefix(token, guestTokenPrefix) {
		return nil, err
	}

	name := strings.TrimSpace(strings.TrimPrefix(token, guestTokenPrefix))
	if name == "" {
		name = "Guest"
	}
	guest := domain.NewGuestUser(uuid.NewString(), name)
	if err := h.users.CreateGuestUser(ctx, token, guest); err != nil {
		return nil, err
	}
	return guest, nil
}

func (h *WebsocketHandler) handleCreate(conn wss.Client, env protocol.Envelope) {
	var req protocol.GameRef
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &req); err != nil {
			h.sendError(conn, env.GameID, msgInvalidMessage)
			return
		}
	}
	gameID := pick(req.GameID, env.GameID)

	r, err := h.rooms.CreateRoom(gameID)
	if err != nil {
		h.sendError(conn, gameID, errorMessage(err))
		return
	}
	h.send(conn, protocol.TypeCreated, r.ID(), protocol.CreatedResp{GameID: r.ID()})
}

func (h *WebsocketHandler) handleJoin(conn wss.Client, userID string, env protocol.Envelope) {
	gameID, ok := h.gameRef(conn, env)
	if !ok {
		return
	}
	sess, ok := h.sessionMgr.Get(conn.ID())
	if !ok {
		h.sendError(conn, gameID, msgInternal)
		return
	}

	var (
		r   *room.Room
		err error
	)
	if h.opts.AutoCreate {
		r, err = h.rooms.EnsureRoom(gameID)
	} else {
		r, err = h.rooms.GetRoom(gameID)
	}
	if err != nil {
		h.sendError(conn, gameID, errorMessage(err))
		return
	}

	seat, err := r.AddPlayer(userID, tagString(conn, tagDisplayName))
	if err != nil {
		h.sendError(conn, gameID, errorMessage(err))
		return
	}

	// 換房間或從觀戰轉成玩家時，先解除原本的綁定
	if cur := tagString(conn, tagGameID); cur != "" && (cur != gameID || tagString(conn, tagRole) != rolePlayer) {
		h.leaveCurrent(conn)
	}
	conn.SetTag(tagGameID, gameID)
	conn.SetTag(tagRole, rolePlayer)

	h.send(conn, protocol.TypeJoined, gameID, protocol.JoinedResp{
		GameID: gameID,
		Role:   rolePlayer,
		Side:   string(seat.Side),
		Player: seat.Player(),
	})

	if err := r.AttachTransport(userID, sess); err != nil {
		h.sendError(conn, gameID, errorMessage(err))
		return
	}
	h.logger.Info("Player joined", "user_id", userID, "room_id", gameID, "side", seat.Side)
}

func (h *WebsocketHandler) handleSpectate(conn wss.Client, userID string, env protocol.Envelope) {
	gameID, ok := h.gameRef(conn, env)
	if !ok {
		return
	}
	sess, ok := h.sessionMgr.Get(conn.ID())
	if !ok {
		h.sendError(conn, gameID, msgInternal)
		return
	}

	r, err := h.rooms.GetRoom(gameID)
	if err != nil {
		h.sendError(conn, gameID, errorMessage(err))
		return
	}

	if cur := tagString(conn, tagGameID); cur != "" {
		h.leaveCurrent(conn)
	}
	conn.SetTag(tagGameID, gameID)
	conn.SetTag(tagRole, roleSpectator)
	h.send(conn, protocol.TypeJoined, gameID, protocol.JoinedResp{GameID: gameID, Role: roleSpectator})

	if err := r.AttachSpectator(userID, sess); err != nil {
		h.sendError(conn, gameID, errorMessage(err))
	}
}

func (h *WebsocketHandler) handleInput(conn wss.Client, userID string, env protocol.Envelope) {
	var req protocol.InputReq
	if err := json.Unmarshal(env.Data, &req); err != nil {
		h.sendError(conn, env.GameID, msgInvalidMessage)
		return
	}
	gameID := pick(req.GameID, env.GameID, tagString(conn, tagGameID))
	if tagString(conn, tagRole) != rolePlayer {
		h.sendError(conn, gameID, msgSpectatorInput)
		return
	}

	dir, ok := pong.ParseDirection(req.Direction)
	if !ok || req.Player < 0 || req.Player > 2 {
		h.sendError(conn, gameID, msgInvalidInput)
		return
	}

	r, ok := h.roomOf(conn, gameID)
	if !ok {
		return
	}
	if err := r.Input(userID, req.Player, dir); err != nil {
		h.sendError(conn, gameID, errorMessage(err))
	}
}

// handleControl game.ready / game.pause / game.resume
func (h *WebsocketHandler) handleControl(conn wss.Client, userID string, env protocol.Envelope) {
	gameID, ok := h.gameRef(conn, env)
	if !ok {
		return
	}
	r, ok := h.roomOf(conn, gameID)
	if !ok {
		return
	}

	var err error
	switch env.Type {
	case protocol.TypeReady:
		err = r.Ready(userID)
	case protocol.TypePause:
		err = r.Pause(userID)
	case protocol.TypeResume:
		err = r.Resume(userID)
	}
	if err != nil {
		h.sendError(conn, gameID, errorMessage(err))
	}
}

func (h *WebsocketHandler) handleLeave(conn wss.Client, env protocol.Envelope) {
	h.leaveCurrent(conn)
}

// -------------------------------------------------------------
// Helpers
// -------------------------------------------------------------

// leaveCurrent 解除此連線與目前房間的綁定 (座位保留)
func (h *WebsocketHandler) leaveCurrent(conn wss.Client) {
	gameID := tagString(conn, tagGameID)
	if gameID == "" {
		return
	}
	conn.SetTag(tagGameID, "")
	conn.SetTag(tagRole, "")

	sess, ok := h.sessionMgr.Get(conn.ID())
	if !ok {
		return
	}
	r, err := h.rooms.GetRoom(gameID)
	if err != nil {
		return
	}
	r.DetachTransport(tagString(conn, tagUserID), sess)
}

// gameRef 取得訊息中的 gameId (data 優先於 envelope，最後才用目前的房間)
func (h *WebsocketHandler) gameRef(conn wss.Client, env protocol.Envelope) (string, bool) {
	var req protocol.GameRef
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &req); err != nil {
			h.sendError(conn, env.GameID, msgInvalidMessage)
			return "", false
		}
	}
	gameID := pick(req.GameID, env.GameID)
	if gameID == "" && env.Type != protocol.TypeJoin && env.Type != protocol.TypeSpectate {
		gameID = tagString(conn, tagGameID)
	}
	if gameID == "" {
		h.sendError(conn, "", msgGameIDRequired)
		return "", false
	}
	return gameID, true
}

func (h *WebsocketHandler) roomOf(conn wss.Client, gameID string) (*room.Room, bool) {
	if gameID == "" {
		h.sendError(conn, "", msgGameIDRequired)
		return nil, false
	}
	r, err := h.rooms.GetRoom(gameID)
	if err != nil {
		h.sendError(conn, gameID, errorMessage(err))
		return nil, false
	}
	return r, true
}

func (h *WebsocketHandler) stopTimer(conn wss.Client, tagKey string) {
	if v, ok := conn.GetTag(tagKey); ok {
		if t, ok := v.(*time.Timer); ok {
			t.Stop()
		}
	}
}

func (h *WebsocketHandler) send(conn wss.Client, t protocol.MessageType, gameID string, data any) {
	frame, err := protocol.Encode(t, gameID, data, time.Now())
	if err != nil {
		h.logger.Error("Failed to encode message", "type", t, "error", err)
		return
	}
	if err := conn.SendMessage(string(frame)); err != nil {
		h.logger.Debug("Send to client failed", "session_id", conn.ID(), "error", err)
	}
}

func (h *WebsocketHandler) sendError(conn wss.Client, gameID, msg string) {
	h.send(conn, protocol.TypeError, gameID, protocol.ErrorData{Message: msg})
}

// errorMessage 將錯誤對應到前端看得懂的訊息
func errorMessage(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomFull):
		return msgRoomFull
	case errors.Is(err, room.ErrNotSeated):
		return msgNotSeated
	case errors.Is(err, room.ErrNotYourPaddle):
		return msgInvalidInput
	case errors.Is(err, room.ErrRoomClosed):
		return msgRoomClosed
	case errors.Is(err, manager.ErrRoomNotFound):
		return msgUnknownRoom
	case errors.Is(err, manager.ErrRoomExists):
		return msgRoomExists
	case errors.Is(err, manager.ErrInvalidRoomID):
		return msgInvalidRoomID
	default:
		return msgInternal
	}
}

func tagString(conn wss.Client, key string) string {
	if v, ok := conn.GetTag(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// pick 回傳第一個非空字串
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
