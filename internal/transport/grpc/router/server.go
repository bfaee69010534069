package router

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"user-directory/internal/core/config"
	"user-directory/internal/transport/grpc/interceptor"
	"user-directory/internal/transport/grpc/userpb"
)

// NewGRPCServer 组装拦截器链 + 用户服务 + 健康检查。
// 链顺序：request id → 日志 → 指标 → 限流 → panic 恢复（最内层）
func NewGRPCServer(l *zap.Logger, lim config.Limits, users userpb.UserServiceServer, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	limiter := interceptor.NewLimiter(rate.Limit(lim.RPS), lim.Burst, lim.Concurrency)

	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			interceptor.UnaryRequestID(),
			interceptor.UnaryLogging(l),
			interceptor.UnaryMetrics(),
			limiter.Unary(),
			interceptor.UnaryRecovery(l),
		),
		grpc.ChainStreamInterceptor(
			interceptor.StreamRequestID(),
			interceptor.StreamLogging(l),
			interceptor.StreamMetrics(),
			limiter.Stream(),
			interceptor.StreamRecovery(l),
		),
	)
	srv := grpc.NewServer(opts...)
	userpb.RegisterUserServiceServer(srv, users)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(userpb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv, hs
}
