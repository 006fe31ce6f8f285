package wss

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConnection(queueSize int) *connection {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{SendQueueSize: queueSize}
	cfg.applyDefaults()
	return newConnection(newHub(context.Background(), logger), nil, cfg, logger)
}

func TestConnection_DropOldest(t *testing.T) {
	c := newTestConnection(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.SendMessage(fmt.Sprintf("m%d", i)))
	}

	got := c.drain()
	require.Len(t, got, 3)
	assert.Equal(t, "m2", string(got[0]))
	assert.Equal(t, "m4", string(got[2]))
	assert.Equal(t, uint64(2), c.Dropped())

	assert.Nil(t, c.drain())
}

func TestConnection_SendAfterClose(t *testing.T) {
	c := newTestConnection(4)
	require.NoError(t, c.SendMessage("hello"))

	require.NoError(t, c.Kick("bye"))
	assert.ErrorIs(t, c.SendMessage("late"), ErrConnectionClosed)
	assert.Nil(t, c.drain())

	// 重複關閉不會 panic
	assert.NoError(t, c.Kick("again"))
}

func TestConnection_Tags(t *testing.T) {
	c := newTestConnection(1)
	_, ok := c.GetTag("user_id")
	assert.False(t, ok)

	c.SetTag("user_id", "u-1")
	v, ok := c.GetTag("user_id")
	assert.True(t, ok)
	assert.Equal(t, "u-1", v)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, defaultWriteWait, cfg.WriteWait)
	assert.Equal(t, defaultPongWait, cfg.PongWait)
	assert.Equal(t, cfg.PongWait*9/10, cfg.PingPeriod)
	assert.Equal(t, defaultSendQueueSize, cfg.SendQueueSize)
}
