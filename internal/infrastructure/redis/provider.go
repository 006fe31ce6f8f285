package redis

import (
	"fmt"
	"log/slog"

	"github.com/JoeShih716/go-k8s-pong-server/internal/config"
	pkgRedis "github.com/JoeShih716/go-k8s-pong-server/pkg/redis"
)

type DBName string

const (
	DBNameUser DBName = "user" // token → user
	DBNameGame DBName = "game" // 比賽事件 pub/sub
)

// DBSupplier defines the interface for retrieving specific Redis DB clients
type DBSupplier interface {
	GetUser() *pkgRedis.Client
	GetGame() *pkgRedis.Client
	Close() error
}

type Provider struct {
	databases map[DBName]*pkgRedis.Client
}

var _ DBSupplier = (*Provider)(nil)

// NewProvider creates clients for all configured redis databases
func NewProvider(cfg config.RedisConfig) (*Provider, error) {
	clients := make(map[DBName]*pkgRedis.Client)

	for dbKey, dbConfig := range cfg.DB {
		client, err := pkgRedis.NewClient(pkgRedis.Config{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       dbConfig.Index,
		})
		if err != nil {
			for _, c := range clients {
				c.Close()
			}
			return nil, fmt.Errorf("failed to init redis db '%s': %w", dbKey, err)
		}
		clients[DBName(dbKey)] = client
	}

	return &Provider{databases: clients}, nil
}

func (p *Provider) GetUser() *pkgRedis.Client {
	return p.get(DBNameUser)
}

func (p *Provider) GetGame() *pkgRedis.Client {
	return p.get(DBNameGame)
}

func (p *Provider) get(name DBName) *pkgRedis.Client {
	if client, ok := p.databases[name]; ok {
		return client
	}
	slog.Warn("Redis DB not found in config", "db", name)
	return nil
}

func (p *Provider) Close() error {
	for _, client := range p.databases {
		client.Close()
	}
	return nil
}
