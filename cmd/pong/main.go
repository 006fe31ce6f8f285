package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/JoeShih716/go-k8s-pong-server/internal/app/admin"
	"github.com/JoeShih716/go-k8s-pong-server/internal/app/arena/manager"
	"github.com/JoeShih716/go-k8s-pong-server/internal/app/connector/handler"
	"github.com/JoeShih716/go-k8s-pong-server/internal/app/connector/session"
	"github.com/JoeShih716/go-k8s-pong-server/internal/di"
	infraRedis "github.com/JoeShih716/go-k8s-pong-server/internal/infrastructure/redis"
	"github.com/JoeShih716/go-k8s-pong-server/internal/kit/bootstrap"
	mysqlpkg "github.com/JoeShih716/go-k8s-pong-server/pkg/mysql"
	"github.com/JoeShih716/go-k8s-pong-server/pkg/wss"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configDir := flag.String("config", "./config", "directory containing config.yaml")
	flag.Parse()

	// 1. 初始化 App (載入 Config, Logger)
	app := bootstrap.NewApp("pong", *configDir)
	cfg := app.Config
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. 並行初始化資源 (Redis, MySQL)
	var (
		redisProvider *infraRedis.Provider
		mysqlClient   *mysqlpkg.Client
	)
	initGroup, initCtx := errgroup.WithContext(ctx)
	initGroup.Go(func() error {
		p, err := di.InitializeRedisProvider(initCtx, cfg)
		if err != nil {
			return fmt.Errorf("redis init failed: %w", err)
		}
		redisProvider = p
		return nil
	})
	initGroup.Go(func() error {
		c, err := di.InitializeMySQL(initCtx, cfg)
		if err != nil {
			return fmt.Errorf("mysql init failed: %w", err)
		}
		mysqlClient = c
		return nil
	})
	if err := initGroup.Wait(); err != nil {
		slog.Error("Dependency initialization failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Dependencies initialized", "redis", redisProvider != nil, "mysql", mysqlClient != nil)

	// 3. 初始化 Services (Wiring)
	userService, err := di.ProvideUserService(cfg, redisProvider)
	if err != nil {
		slog.Error("Failed to create user service", "error", err)
		os.Exit(1)
	}
	matchRepo, err := di.ProvideMatchRepository(ctx, mysqlClient)
	if err != nil {
		slog.Error("Failed to create match repository", "error", err)
		os.Exit(1)
	}
	sink := di.ProvideMatchSink(redisProvider, matchRepo)

	rooms := manager.New(di.ManagerConfig(cfg),
		manager.WithLogger(app.Logger),
		manager.WithSink(sink),
		manager.WithReapPolicy(di.ReapPolicy(cfg)),
	)
	sessionMgr := session.NewManager()

	// 4. WebSocket
	wsHandler := handler.NewWebsocketHandler(sessionMgr, rooms, userService, di.HandlerOptions(cfg), app.Logger)
	wsConfig := di.WSSConfig(cfg)
	wsServer := wss.NewServer(ctx, wsConfig, app.Logger)
	wsServer.Register(wsHandler)

	mux := http.NewServeMux()
	mux.Handle(wsConfig.Path, wsServer)
	admin.RegisterHTTP(mux, rooms, sessionMgr)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 5. Admin gRPC
	var adminOpts []admin.ServiceOption
	if matchRepo != nil {
		adminOpts = append(adminOpts, admin.WithMatchHistory(matchRepo))
	}
	adminSvc := admin.NewService(rooms, sessionMgr, app.Logger, adminOpts...)
	grpcServer, healthServer := admin.NewGRPCServer(adminSvc, app.Logger)

	if redisProvider != nil {
		if game := redisProvider.GetGame(); game != nil {
			if err := admin.ListenCloseRoom(ctx, game, rooms, app.Logger); err != nil {
				slog.Warn("Failed to subscribe close-room channel", "error", err)
			}
		}
	}

	app.Run(func() error {
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			rooms.Start(gctx)
			return nil
		})
		g.Go(func() error {
			slog.Info("Listening on", "addr", httpServer.Addr, "path", wsConfig.Path)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		if cfg.Admin.Enabled {
			g.Go(func() error {
				lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.App.GrpcPort))
				if err != nil {
					return fmt.Errorf("failed to listen: %w", err)
				}
				slog.Info("Admin gRPC listening", "port", cfg.App.GrpcPort)
				return grpcServer.Serve(lis)
			})
		}
		return g.Wait()
	}, func() {
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("HTTP shutdown failed", "error", err)
		}
		grpcServer.GracefulStop()

		// 停止 tick loop 並關閉 websocket hub
		cancel()
		rooms.Stop()

		if redisProvider != nil {
			redisProvider.Close()
		}
		if mysqlClient != nil {
			if err := mysqlClient.Close(); err != nil {
				slog.Warn("MySQL close failed", "error", err)
			}
		}
	})
}
