package interceptor

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func recovered(l *zap.Logger, ctx context.Context, method string, rec any) error {
	l.Error("panic recovered",
		zap.Any("panic", rec),
		zap.String("method", method),
		zap.String("rid", RequestIDFrom(ctx)),
		zap.Stack("stack"),
	)
	return status.Error(codes.Internal, "internal error")
}

func UnaryRecovery(l *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = recovered(l, ctx, info.FullMethod, rec)
			}
		}()
		return handler(ctx, req)
	}
}

func StreamRecovery(l *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = recovered(l, ss.Context(), info.FullMethod, rec)
			}
		}()
		return handler(srv, ss)
	}
}
