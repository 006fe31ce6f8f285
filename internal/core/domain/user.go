package domain

import "time"

// User 代表一位可以入座或觀戰的使用者。
// ID 是身分提供者給出的穩定識別碼，斷線重連時 Room 以此辨認座位。
type User struct {
	ID        string    // 使用者唯一標識符
	Name      string    // 顯示名稱
	Guest     bool      // 是否為訪客 (guest:<name> token 建立)
	CreatedAt time.Time // 建立時間
}

// NewUser 建立一個新的使用者實例
//
// 參數:
//
//	id: string - 使用者 ID
//	name: string - 顯示名稱
//
// 回傳值:
//
//	*User: 初始化後的使用者物件
func NewUser(id string, name string) *User {
	return &User{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// NewGuestUser 建立訪客使用者
func NewGuestUser(id string, name string) *User {
	u := NewUser(id, name)
	u.Guest = true
	return u
}
