package domain

import (
	"time"

	"github.com/JoeShih716/go-k8s-pong-server/pkg/wss"
)

// Session 代表一個活躍的連線會話。
// 它封裝了底層的 WebSocket 連線，同時是 Room 推送訊息用的 transport handle。
// 同一位使用者重新連線會得到新的 Session，Room 以指標比對 handle 是否仍為目前連線。
type Session struct {
	ID        string     // Session 唯一 ID (對應 WebSocket Conn ID)
	conn      wss.Client // 底層 WebSocket 連線介面
	CreatedAt time.Time  // 建立時間
}

// NewSession 建立一個新的會話實例
//
// 參數:
//
//	conn: wss.Client - 底層 WebSocket 連線物件
//
// 回傳值:
//
//	*Session: 初始化後的會話物件
func NewSession(conn wss.Client) *Session {
	return &Session{
		ID:        conn.ID(),
		conn:      conn,
		CreatedAt: time.Now(),
	}
}

// Conn 回傳底層連線
func (s *Session) Conn() wss.Client {
	return s.conn
}

// Send 將一個已編碼的訊息放進連線的送出佇列，不會阻塞
//
// 參數:
//
//	frame: []byte - 訊息內容
//
// 回傳值:
//
//	error: 連線已關閉時回傳 wss.ErrConnectionClosed
func (s *Session) Send(frame []byte) error {
	return s.conn.SendMessage(string(frame))
}

// Kick 強制中斷此會話
//
// 參數:
//
//	reason: string - 踢除原因
//
// 回傳值:
//
//	error: 若操作失敗則回傳錯誤
func (s *Session) Kick(reason string) error {
	return s.conn.Kick(reason)
}
