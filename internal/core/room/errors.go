package room

import "errors"

var (
	// ErrRoomFull 兩個座位都已被其他使用者占用
	ErrRoomFull = errors.New("room is full")
	// ErrNotSeated 呼叫者在此房間沒有座位 (觀戰者也會得到此錯誤)
	ErrNotSeated = errors.New("not seated in this room")
	// ErrNotYourPaddle 操作的 player 編號與呼叫者的座位不符
	ErrNotYourPaddle = errors.New("player does not match caller's seat")
	// ErrRoomClosed 房間已被關閉
	ErrRoomClosed = errors.New("room is closed")
)
