package interceptor

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func logCall(l *zap.Logger, ctx context.Context, method string, start time.Time, err error) {
	st := status.Convert(err)
	fields := []zap.Field{
		zap.String("rid", RequestIDFrom(ctx)),
		zap.String("method", method),
		zap.String("code", st.Code().String()),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		l.Warn("gRPC", append(fields, zap.String("error", st.Message()))...)
		return
	}
	l.Info("gRPC", fields...)
}

// UnaryLogging 每次调用一条摘要日志
func UnaryLogging(l *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(l, ctx, info.FullMethod, start, err)
		return resp, err
	}
}

func StreamLogging(l *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logCall(l, ss.Context(), info.FullMethod, start, err)
		return err
	}
}
