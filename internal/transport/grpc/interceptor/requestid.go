package interceptor

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// MetadataRequestID 与 HTTP 的 X-Request-ID 对应（gRPC metadata key 为小写）
const MetadataRequestID = "x-request-id"

type ridKey struct{}

// RequestIDFrom 取当前调用的 request id
func RequestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(ridKey{}).(string)
	return rid
}

func requestID(ctx context.Context) (context.Context, string) {
	var rid string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(MetadataRequestID); len(v) > 0 {
			rid = v[0]
		}
	}
	if rid == "" {
		rid = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(MetadataRequestID, rid))
	return context.WithValue(ctx, ridKey{}, rid), rid
}

func UnaryRequestID() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, _ = requestID(ctx)
		return handler(ctx, req)
	}
}

func StreamRequestID() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, _ := requestID(ss.Context())
		return handler(srv, &wrappedStream{ServerStream: ss, ctx: ctx})
	}
}

// wrappedStream 替换 stream 的 context
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context { return w.ctx }
