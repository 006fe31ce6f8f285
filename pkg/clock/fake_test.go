package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_AdvanceFiresTicker(t *testing.T) {
	start := time.Unix(1000, 0)
	f := NewFake(start)
	tk := f.NewTicker(10 * time.Millisecond)

	f.Advance(5 * time.Millisecond)
	select {
	case <-tk.C():
		t.Fatal("ticker fired before its period elapsed")
	default:
	}

	f.Advance(5 * time.Millisecond)
	select {
	case at := <-tk.C():
		assert.Equal(t, start.Add(10*time.Millisecond), at)
	default:
		t.Fatal("ticker did not fire")
	}
	assert.Equal(t, start.Add(10*time.Millisecond), f.Now())
}

func TestFake_StopRemovesTicker(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	tk := f.NewTicker(time.Second)
	require.Equal(t, 1, f.Tickers())

	tk.Stop()
	assert.Equal(t, 0, f.Tickers())

	f.Advance(2 * time.Second)
	select {
	case <-tk.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestFunc_Now(t *testing.T) {
	at := time.Unix(42, 0)
	c := Func(func() time.Time { return at })
	assert.Equal(t, at, c.Now())
}
