package interceptor

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Limiter 令牌桶 + 并发上限，与 HTTP 中间件共用同一套配置
type Limiter struct {
	rate *rate.Limiter
	sem  *semaphore.Weighted
}

func NewLimiter(rps rate.Limit, burst int, concurrency int64) *Limiter {
	return &Limiter{
		rate: rate.NewLimiter(rps, burst),
		sem:  semaphore.NewWeighted(concurrency),
	}
}

// acquire 成功时返回 release
func (l *Limiter) acquire() (func(), error) {
	if !l.rate.Allow() {
		return nil, status.Error(codes.ResourceExhausted, "too many requests")
	}
	if !l.sem.TryAcquire(1) {
		return nil, status.Error(codes.Unavailable, "server busy")
	}
	return func() { l.sem.Release(1) }, nil
}

func (l *Limiter) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		release, err := l.acquire()
		if err != nil {
			return nil, err
		}
		defer release()
		return handler(ctx, req)
	}
}

func (l *Limiter) Stream() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		release, err := l.acquire()
		if err != nil {
			return err
		}
		defer release()
		return handler(srv, ss)
	}
}
