package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	msg, err := Encode(TypeError, "room-1", ErrorData{Message: "room full"}, at)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg, &raw))
	assert.Equal(t, "error", raw["type"])
	assert.Equal(t, "room-1", raw["gameId"])
	assert.Equal(t, float64(1700000000123), raw["timestamp"])
	assert.Equal(t, map[string]any{"message": "room full"}, raw["data"])
}

func TestEncode_NoData(t *testing.T) {
	msg, err := Encode(TypePong, "", nil, time.UnixMilli(5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong","timestamp":5}`, string(msg))
}

func TestDecode(t *testing.T) {
	env, err := Decode([]byte(`{"type":"game.input","gameId":"abc","data":{"player":2,"direction":"up"},"timestamp":1}`))
	require.NoError(t, err)
	assert.Equal(t, TypeInput, env.Type)
	assert.Equal(t, "abc", env.GameID)

	var in InputReq
	require.NoError(t, json.Unmarshal(env.Data, &in))
	assert.Equal(t, 2, in.Player)
	assert.Equal(t, "up", in.Direction)
	assert.Empty(t, in.GameID)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
