package interceptor

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

var (
	grpcHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "user_directory",
			Name:      "grpc_server_handled_total",
			Help:      "Count of completed gRPC calls",
		},
		[]string{"method", "code"},
	)
	grpcLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "user_directory",
			Name:      "grpc_server_handling_seconds",
			Help:      "Latency of gRPC calls (streams include pacing waits)",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"},
	)
)

func init() { prometheus.MustRegister(grpcHandled, grpcLatency) }

func observe(method string, start time.Time, err error) {
	grpcHandled.WithLabelValues(method, status.Code(err).String()).Inc()
	grpcLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func UnaryMetrics() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		observe(info.FullMethod, start, err)
		return resp, err
	}
}

func StreamMetrics() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		observe(info.FullMethod, start, err)
		return err
	}
}
