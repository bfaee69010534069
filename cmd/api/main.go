package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"user-directory/internal/core/config"
	"user-directory/internal/core/logger"
	"user-directory/internal/core/metrics"
	"user-directory/internal/core/server"
	"user-directory/internal/repo"
	"user-directory/internal/stream"
	grpchandler "user-directory/internal/transport/grpc/handler"
	grpcrouter "user-directory/internal/transport/grpc/router"
	"user-directory/internal/transport/http/handler"
	"user-directory/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	logger.RedirectGRPC(log)

	// 内存目录（进程内唯一实例，两个传输层共享）
	var opts []repo.Option
	if !cfg.Registry.Seed {
		opts = append(opts, repo.WithoutSeed())
	}
	users := repo.NewUserRepo(opts...)
	streamer := stream.New(users, cfg.Stream.PaceInterval(), log)
	if err := metrics.RegisterUserGauge(prometheus.DefaultRegisterer, users); err != nil {
		log.Fatal("register metrics", zap.Error(err))
	}

	// 路由
	mods := router.NewModules(
		handler.NewUserHandler(users, streamer, log),
		handler.NewAdminHandler(users, cfg.Stream.PaceInterval()),
	)
	apiEngine := router.NewAPIEngine(log, cfg.Limits, mods)
	adminEngine := router.NewAdminEngine(log, prometheus.DefaultGatherer, mods)

	// HTTP Server
	h := cfg.App.HTTP
	apiSrv := server.BuildServer(
		server.Addr(h.Host, h.Port), apiEngine,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
	adminSrv := server.BuildServer(
		server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port), adminEngine,
		5*time.Second, 10*time.Second, 60*time.Second,
	)

	// gRPC Server
	grpcSrv, health := grpcrouter.NewGRPCServer(log, cfg.Limits,
		grpchandler.NewUserServer(users, streamer, log))
	grpcAddr := server.Addr(cfg.App.GRPC.Host, cfg.App.GRPC.Port)

	// 启动日志
	apiURL := server.HumanURL("http", h.Host, h.Port)
	adminURL := server.HumanURL("http", cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("user directory starting",
		zap.String("env", cfg.App.Env),
		zap.Int("seeded", users.Count()),
		zap.Duration("pace", cfg.Stream.PaceInterval()),
		zap.String("api_v1", apiURL+"/api/v1"),
		zap.String("admin_v1", adminURL+"/admin/v1"),
		zap.String("metrics", adminURL+"/metrics"),
		zap.String("grpc", grpcAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.ServeHTTP(ctx, "api", apiSrv, log) })
	g.Go(func() error { return server.ServeHTTP(ctx, "admin", adminSrv, log) })
	// 健康检查先切到 NOT_SERVING，再 GracefulStop
	g.Go(func() error { return server.ServeGRPC(ctx, "grpc", grpcSrv, grpcAddr, log, health.Shutdown) })

	if err := g.Wait(); err != nil {
		log.Error("user directory stopped with error", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	log.Info("user directory stopped gracefully")
}
