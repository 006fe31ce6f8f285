package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JoeShih716/go-k8s-pong-server/internal/app/arena/manager"
	"github.com/JoeShih716/go-k8s-pong-server/internal/app/connector/handler"
	"github.com/JoeShih716/go-k8s-pong-server/internal/config"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-pong-server/internal/game/pong"
	"github.com/JoeShih716/go-k8s-pong-server/internal/infrastructure/match"
	matchRedis "github.com/JoeShih716/go-k8s-pong-server/internal/infrastructure/match/redis"
	"github.com/JoeShih716/go-k8s-pong-server/internal/infrastructure/persistence/mysql"
	infraRedis "github.com/JoeShih716/go-k8s-pong-server/internal/infrastructure/redis"
	"github.com/JoeShih716/go-k8s-pong-server/internal/infrastructure/user/memory"
	user "github.com/JoeShih716/go-k8s-pong-server/internal/infrastructure/user/redis"
	mysqlpkg "github.com/JoeShih716/go-k8s-pong-server/pkg/mysql"
	"github.com/JoeShih716/go-k8s-pong-server/pkg/wss"
)

// ProvideUserService 有 Redis 'user' DB 時使用 Redis，否則使用記憶體版本 (只允許非 prod)
func ProvideUserService(cfg *config.Config, redisProvider *infraRedis.Provider) (ports.UserService, error) {
	if redisProvider != nil {
		if client := redisProvider.GetUser(); client != nil {
			return user.NewUserService(client), nil
		}
	}
	if cfg.IsProduction() {
		return nil, fmt.Errorf("redis user DB (key: 'user') is required in %s", cfg.App.Env)
	}
	slog.Warn("Using in-memory user service")
	return memory.NewUserService(), nil
}

// ProvideMatchRepository 有 MySQL 時建立比賽歷史 Repository 並執行 migration，否則回傳 nil
func ProvideMatchRepository(ctx context.Context, mysqlClient *mysqlpkg.Client) (ports.MatchRepository, error) {
	if mysqlClient == nil {
		return nil, nil
	}
	repo := mysql.NewMatchRepository(mysqlClient)
	if err := repo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate match_results: %w", err)
	}
	return repo, nil
}

// ProvideMatchSink 組合 MySQL 與 Redis Pub/Sub，兩者都沒有時為 Noop
func ProvideMatchSink(redisProvider *infraRedis.Provider, repo ports.MatchRepository) ports.MatchResultSink {
	var sinks []ports.MatchResultSink
	if repo != nil {
		sinks = append(sinks, repo)
	}
	if redisProvider != nil {
		if client := redisProvider.GetGame(); client != nil {
			sinks = append(sinks, matchRedis.NewPublisher(client))
		}
	}
	return match.NewMulti(sinks...)
}

// EngineConfig 以預設物理參數為基礎套用設定
func EngineConfig(cfg *config.Config) pong.Config {
	e := pong.DefaultConfig()
	if cfg.Game.MaxScore > 0 {
		e.MaxScore = cfg.Game.MaxScore
	}
	return e
}

// ManagerConfig 房間排程設定
func ManagerConfig(cfg *config.Config) manager.Config {
	return manager.Config{
		TickRate:      cfg.Game.TickRate,
		SweepInterval: seconds(cfg.Game.SweepIntervalSec),
		RecordTimeout: seconds(cfg.Game.RecordTimeoutSec),
		Engine:        EngineConfig(cfg),
	}
}

// ReapPolicy idle_room_timeout_sec 為 0 時不自動清理
func ReapPolicy(cfg *config.Config) manager.ReapPolicy {
	if cfg.Game.IdleRoomTimeoutSec <= 0 {
		return manager.NeverReap{}
	}
	return manager.IdleReaper{After: seconds(cfg.Game.IdleRoomTimeoutSec)}
}

// HandlerOptions 連線層行為
func HandlerOptions(cfg *config.Config) handler.Options {
	return handler.Options{
		AllowGuest:   cfg.Game.AllowGuest,
		AutoCreate:   cfg.Game.AutoCreateOnJoin,
		LoginTimeout: seconds(cfg.Game.LoginTimeoutSec),
	}
}

// WSSConfig websocket server 設定，零值由 wss 套用預設
func WSSConfig(cfg *config.Config) *wss.Config {
	return &wss.Config{
		Path:            cfg.WSS.Path,
		AllowedOrigins:  cfg.WSS.AllowedOrigins,
		ReadBufferSize:  cfg.WSS.ReadBufferSize,
		WriteBufferSize: cfg.WSS.WriteBufferSize,
		WriteWait:       seconds(cfg.WSS.WriteWaitSec),
		PongWait:        seconds(cfg.WSS.PongWaitSec),
		MaxMessageSize:  cfg.WSS.MaxMessageSize,
		SendQueueSize:   cfg.WSS.SendQueueSize,
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
