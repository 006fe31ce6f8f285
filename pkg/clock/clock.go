package clock

import "time"

// Clock 抽象化時間來源，讓 Engine 與排程器可以在測試中注入假時鐘。
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker 對應 time.Ticker 的最小介面
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Func 讓一般函式滿足只需要 Now() 的呼叫端
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

type realClock struct{}

// New 回傳使用系統時間的 Clock
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r *realTicker) Stop() {
	r.t.Stop()
}
