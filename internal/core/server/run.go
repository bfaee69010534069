package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

// ServeHTTP 阻塞运行 srv，ctx 结束后优雅关闭。name 仅用于日志
func ServeHTTP(ctx context.Context, name string, srv *http.Server, l *zap.Logger) error {
	log := l.With(zap.String("name", name))
	lis, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("%s listen %s: %w", name, srv.Addr, err)
	}
	return serveHTTP(ctx, srv, lis, log)
}

func serveHTTP(ctx context.Context, srv *http.Server, lis net.Listener, log *zap.Logger) error {
	doneCh := make(chan struct{})
	defer close(doneCh)
	go func() {
		select {
		case <-ctx.Done():
			log.Info("http server shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				log.Warn("http shutdown", zap.Error(err))
			}
		case <-doneCh:
		}
	}()

	log.Info("http server listening", zap.String("addr", lis.Addr().String()))
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	log.Info("http server stopped")
	return nil
}

// ServeGRPC 同 ServeHTTP，ctx 结束时先依次执行 beforeStop，再 GracefulStop
func ServeGRPC(ctx context.Context, name string, srv *grpc.Server, addr string, l *zap.Logger, beforeStop ...func()) error {
	log := l.With(zap.String("name", name))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%s listen %s: %w", name, addr, err)
	}
	return serveGRPC(ctx, srv, lis, log, beforeStop...)
}

func serveGRPC(ctx context.Context, srv *grpc.Server, lis net.Listener, log *zap.Logger, beforeStop ...func()) error {
	doneCh := make(chan struct{})
	defer close(doneCh)
	go func() {
		select {
		case <-ctx.Done():
			log.Info("gRPC server shutting down")
			for _, fn := range beforeStop {
				fn()
			}
			srv.GracefulStop()
		case <-doneCh:
		}
	}()

	log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("gRPC server failed: %w", err)
	}
	log.Info("gRPC server stopped")
	return nil
}
