package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 總配置結構
type Config struct {
	App   AppConfig   `yaml:"app"`
	Redis RedisConfig `yaml:"redis"`
	MySQL MySQLConfig `yaml:"mysql"`
	WSS   WSSConfig   `yaml:"wss"`
	Game  GameConfig  `yaml:"game"`
	Admin AdminConfig `yaml:"admin"`
}

type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`      // HTTP / Websocket
	GrpcPort int    `yaml:"grpc_port"` // Admin gRPC
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// RedisConfig 共用同一個 Redis，不同用途使用不同的 DB index
type RedisConfig struct {
	Enabled  bool                     `yaml:"enabled"`
	Addr     string                   `yaml:"addr"`
	Password string                   `yaml:"password"`
	DB       map[string]RedisDBConfig `yaml:"db"` // key: user | game
}

type RedisDBConfig struct {
	Index int `yaml:"index"`
}

type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type WSSConfig struct {
	Path            string   `yaml:"path"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ReadBufferSize  int      `yaml:"read_buffer_size"`
	WriteBufferSize int      `yaml:"write_buffer_size"`
	WriteWaitSec    int      `yaml:"write_wait_sec"`
	PongWaitSec     int      `yaml:"pong_wait_sec"`
	MaxMessageSize  int64    `yaml:"max_message_size"`
	SendQueueSize   int      `yaml:"send_queue_size"` // 每條連線的送出佇列，滿了丟最舊的
}

// GameConfig 比賽與房間排程。0 代表使用預設值。
type GameConfig struct {
	TickRate           int  `yaml:"tick_rate"`
	MaxScore           int  `yaml:"max_score"`
	SweepIntervalSec   int  `yaml:"sweep_interval_sec"`
	IdleRoomTimeoutSec int  `yaml:"idle_room_timeout_sec"` // 0 = 不自動清理
	RecordTimeoutSec   int  `yaml:"record_timeout_sec"`
	LoginTimeoutSec    int  `yaml:"login_timeout_sec"`
	AllowGuest         bool `yaml:"allow_guest"`
	AutoCreateOnJoin   bool `yaml:"auto_create_on_join"`
}

type AdminConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load 讀取設定檔
// 優先讀取 config/config.yaml，然後使用環境變數覆蓋
func Load(configPath ...string) (*Config, error) {
	dir := "./config"
	if len(configPath) > 0 && configPath[0] != "" {
		dir = configPath[0]
	}
	fullPath := filepath.Join(dir, "config.yaml")

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", fullPath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml at %s: %w", fullPath, err)
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 沒有設定檔內容時的預設值
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:     "pong",
			Env:      "local",
			Port:     8080,
			GrpcPort: 9090,
			LogLevel: "info",
		},
		WSS: WSSConfig{
			Path: "/ws",
		},
		Game: GameConfig{
			TickRate:   60,
			MaxScore:   5,
			AllowGuest: true,
		},
		Admin: AdminConfig{Enabled: true},
	}
}

// Validate 檢查明顯錯誤的設定
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid app.port: %d", c.App.Port)
	}
	if c.Admin.Enabled && (c.App.GrpcPort <= 0 || c.App.GrpcPort > 65535) {
		return fmt.Errorf("invalid app.grpc_port: %d", c.App.GrpcPort)
	}
	if c.Game.TickRate < 0 || c.Game.TickRate > 1000 {
		return fmt.Errorf("invalid game.tick_rate: %d", c.Game.TickRate)
	}
	if c.Game.MaxScore < 0 {
		return fmt.Errorf("invalid game.max_score: %d", c.Game.MaxScore)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.enabled requires redis.addr")
	}
	if c.MySQL.Enabled && c.MySQL.Host == "" {
		return fmt.Errorf("mysql.enabled requires mysql.host")
	}
	if c.IsProduction() && slices.Contains(c.WSS.AllowedOrigins, "*") {
		return fmt.Errorf("wss.allowed_origins must not contain \"*\" in %s", c.App.Env)
	}
	return nil
}

// IsProduction 是否為正式環境
func (c *Config) IsProduction() bool {
	switch c.App.Env {
	case "production", "prod":
		return true
	}
	return false
}

func overrideWithEnv(cfg *Config) {
	// App
	if env := os.Getenv(EnvAppEnv); env != "" {
		cfg.App.Env = env
	}
	setInt(EnvPort, &cfg.App.Port)
	setInt(EnvGrpcPort, &cfg.App.GrpcPort)
	if val := os.Getenv(EnvLogLevel); val != "" {
		cfg.App.LogLevel = val
	}

	// MySQL
	if val := os.Getenv(EnvMySQLHost); val != "" {
		cfg.MySQL.Host = val
		cfg.MySQL.Enabled = true
	}
	if val := os.Getenv(EnvMySQLPassword); val != "" {
		cfg.MySQL.Password = val
	}
	if val := os.Getenv(EnvMySQLUser); val != "" {
		cfg.MySQL.User = val
	}
	if val := os.Getenv(EnvMySQLDB); val != "" {
		cfg.MySQL.DBName = val
	}
	setInt(EnvMySQLPort, &cfg.MySQL.Port)

	// Redis
	if val := os.Getenv(EnvRedisAddr); val != "" {
		cfg.Redis.Addr = val
		cfg.Redis.Enabled = true
	}
	if val := os.Getenv(EnvRedisPassword); val != "" {
		cfg.Redis.Password = val
	}

	// Game
	setInt(EnvTickRate, &cfg.Game.TickRate)
	setInt(EnvMaxScore, &cfg.Game.MaxScore)
	setBool(EnvAllowGuest, &cfg.Game.AllowGuest)

	// WSS
	if val := os.Getenv(EnvAllowedOrigins); val != "" {
		var origins []string
		for _, o := range strings.Split(val, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.WSS.AllowedOrigins = origins
	}
}

func setInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			*dst = p
		}
	}
}

func setBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}
