package admin

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// NewGRPCServer 建立管理用的 gRPC Server，註冊 Admin、Health 與 Reflection
//
// 參數:
//
//	srv: AdminServer - 管理服務實作
//	logger: *slog.Logger - 每個 RPC 的存取紀錄
//
// 回傳值:
//
//	*grpc.Server: 尚未 Serve 的 gRPC Server
//	*health.Server: 可在關機時切換成 NOT_SERVING
func NewGRPCServer(srv AdminServer, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	grpcServer := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(loggingInterceptor(logger.With("component", "grpc"))),
	)

	RegisterAdminServer(grpcServer, srv)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)
	return grpcServer, healthServer
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn("RPC failed", "method", info.FullMethod, "code", status.Code(err), "duration", time.Since(start), "error", err)
			return resp, err
		}
		logger.Debug("RPC handled", "method", info.FullMethod, "duration", time.Since(start))
		return resp, nil
	}
}
