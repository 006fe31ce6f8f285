package di

import (
	"context"

	"github.com/JoeShih716/go-k8s-pong-server/internal/config"
	infraRedis "github.com/JoeShih716/go-k8s-pong-server/internal/infrastructure/redis"
	mysqlpkg "github.com/JoeShih716/go-k8s-pong-server/pkg/mysql"
)

// InitializeRedisProvider 依設定建立 Redis Provider，未啟用時回傳 nil
func InitializeRedisProvider(_ context.Context, cfg *config.Config) (*infraRedis.Provider, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	return infraRedis.NewProvider(cfg.Redis)
}

// InitializeMySQL 依設定建立 MySQL Client，未啟用時回傳 nil
func InitializeMySQL(_ context.Context, cfg *config.Config) (*mysqlpkg.Client, error) {
	if !cfg.MySQL.Enabled {
		return nil, nil
	}
	return mysqlpkg.NewClient(mysqlpkg.Config{
		Host:     cfg.MySQL.Host,
		Port:     cfg.MySQL.Port,
		User:     cfg.MySQL.User,
		Password: cfg.MySQL.Password,
		DBName:   cfg.MySQL.DBName,
	})
}
