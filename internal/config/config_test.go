package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `
app:
  env: dev
  port: 8081
redis:
  enabled: true
  addr: redis:6379
  db:
    user:
      index: 2
game:
  max_score: 7
  auto_create_on_join: true
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, 8081, cfg.App.Port)
	assert.Equal(t, 2, cfg.Redis.DB["user"].Index)
	assert.Equal(t, 7, cfg.Game.MaxScore)
	assert.True(t, cfg.Game.AutoCreateOnJoin)

	// 檔案沒寫的欄位保留預設值
	assert.Equal(t, 9090, cfg.App.GrpcPort)
	assert.Equal(t, 60, cfg.Game.TickRate)
	assert.Equal(t, "/ws", cfg.WSS.Path)
	assert.True(t, cfg.Game.AllowGuest)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "app:\n  port: 8080\n")
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvPort, "7000")
	t.Setenv(EnvRedisAddr, "cache:6379")
	t.Setenv(EnvMySQLHost, "db")
	t.Setenv(EnvMySQLPort, "3307")
	t.Setenv(EnvAllowGuest, "false")
	t.Setenv(EnvAllowedOrigins, "https://a.example, https://b.example")
	t.Setenv(EnvTickRate, "not-a-number")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 7000, cfg.App.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.True(t, cfg.MySQL.Enabled)
	assert.Equal(t, 3307, cfg.MySQL.Port)
	assert.False(t, cfg.Game.AllowGuest)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.WSS.AllowedOrigins)
	assert.Equal(t, 60, cfg.Game.TickRate, "invalid numbers are ignored")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "app: [not, a, map"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "app:\n  port: 70000\n"))
	assert.ErrorContains(t, err, "app.port")

	_, err = Load(writeConfig(t, "redis:\n  enabled: true\n"))
	assert.ErrorContains(t, err, "redis.addr")

	_, err = Load(writeConfig(t, "app:\n  env: prod\nwss:\n  allowed_origins: [\"*\"]\n"))
	assert.ErrorContains(t, err, "wss.allowed_origins")
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config"))
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.App.Env)
	assert.Equal(t, []string{"*"}, cfg.WSS.AllowedOrigins)
}
