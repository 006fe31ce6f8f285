package protocol

import (
	"encoding/json"
	"time"
)

// MessageType 定義訊息類型 (使用 string 方便前端對接)
type MessageType string

// Client → Server
const (
	TypeLogin    MessageType = "auth.login"    // 登入，必須在所有遊戲指令之前
	TypeCreate   MessageType = "game.create"   // 建立房間
	TypeJoin     MessageType = "game.join"     // 加入房間成為玩家 (或重新連線)
	TypeSpectate MessageType = "game.spectate" // 以觀戰者身份加入
	TypeInput    MessageType = "game.input"    // 球拍操作
	TypeReady    MessageType = "game.ready"    // 準備完成
	TypePause    MessageType = "game.pause"    // 暫停
	TypeResume   MessageType = "game.resume"   // 繼續
	TypeLeave    MessageType = "game.leave"    // 離開房間
	TypePing     MessageType = "ping"
)

// Server → Client
const (
	TypeLoginOK  MessageType = "auth.ok"
	TypeCreated  MessageType = "game.created"
	TypeJoined   MessageType = "game.joined"
	TypeState    MessageType = "game_state" // 每個 tick 的廣播
	TypeStarted  MessageType = "game.started"
	TypePaused   MessageType = "game.paused"
	TypeResumed  MessageType = "game.resumed"
	TypeEnded    MessageType = "game_ended" // 終局廣播，之後不會再有 game_state
	TypePong     MessageType = "pong"
	TypeError    MessageType = "error"
)

// Envelope 所有訊息的外層包裝
type Envelope struct {
	Type      MessageType     `json:"type"`
	GameID    string          `json:"gameId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"` // Unix 毫秒
}

// Encode 將 data 包進 Envelope 並序列化
//
// 參數:
//
//	t: MessageType - 訊息類型
//	gameID: string - 房間 ID (可為空)
//	data: any - 訊息內容，nil 則不帶 data
//	at: time.Time - 時間戳
//
// 回傳值:
//
//	[]byte: JSON 編碼後的訊息
//	error: 序列化失敗時回傳
func Encode(t MessageType, gameID string, data any, at time.Time) ([]byte, error) {
	env := Envelope{
		Type:      t,
		GameID:    gameID,
		Timestamp: at.UnixMilli(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

// Decode 解析前端傳來的訊息
func Decode(msg []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(msg, &env)
	return env, err
}

// LoginReq auth.login
type LoginReq struct {
	Token string `json:"token"`
}

// LoginResp auth.ok
type LoginResp struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// GameRef 只帶 gameId 的請求 (create / join / spectate / ready / pause / resume / leave)
type GameRef struct {
	GameID string `json:"gameId,omitempty"`
}

// InputReq game.input
type InputReq struct {
	GameID    string `json:"gameId,omitempty"`
	Player    int    `json:"player"`    // 1 = left, 2 = right
	Direction string `json:"direction"` // up | down | stop
}

// CreatedResp game.created
type CreatedResp struct {
	GameID string `json:"gameId"`
}

// JoinedResp game.joined
type JoinedResp struct {
	GameID string `json:"gameId"`
	Role   string `json:"role"` // player | spectator
	Side   string `json:"side,omitempty"`
	Player int    `json:"player,omitempty"`
}

// GameStateData game_state
type GameStateData struct {
	GameState GameStateView `json:"gameState"`
	Players   []PlayerView  `json:"players"`
}

// StartedData game.started
type StartedData struct {
	Players []PlayerView `json:"players"`
}

// PausedData game.paused
type PausedData struct {
	Reason string `json:"reason"` // disconnect | player
}

// ResumedData game.resumed
type ResumedData struct {
	Players []PlayerView `json:"players"`
}

// EndedData game_ended
type EndedData struct {
	Winner       string        `json:"winner"`       // left | right
	WinnerPlayer int           `json:"winnerPlayer"` // 1 | 2
	FinalState   GameStateView `json:"finalState"`
}

// ErrorData error
type ErrorData struct {
	Message string `json:"message"`
}

// PlayerView 廣播中的座位資訊
type PlayerView struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Side        string `json:"side"`
	Player      int    `json:"player"`
	Connected   bool   `json:"connected"`
	Ready       bool   `json:"ready"`
}

// GameStateView 完整的球場快照
type GameStateView struct {
	Status      string      `json:"status"`
	FieldWidth  float64     `json:"fieldWidth"`
	FieldHeight float64     `json:"fieldHeight"`
	Ball        BallView    `json:"ball"`
	Paddles     PaddlesView `json:"paddles"`
	Score       ScoreView   `json:"score"`
	Speed       float64     `json:"speed"`
}

type BallView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
}

type PaddlesView struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	LeftY  float64 `json:"leftY"`
	RightY float64 `json:"rightY"`
}

type ScoreView struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}
