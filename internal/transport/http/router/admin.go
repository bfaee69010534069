package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"user-directory/internal/core/server"
	mdw "user-directory/internal/transport/http/middleware"
)

// NewAdminEngine 运维端：健康检查、Prometheus 指标、/admin/v1 管理接口。
// 只应监听内网地址。
func NewAdminEngine(l *zap.Logger, gatherer prometheus.Gatherer, mods *Modules) *gin.Engine {
	r := server.NewRouter(l)
	r.Use(mdw.RequestID(), mdw.Recovery(l))

	r.NoRoute(noRoute)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	admin := r.Group("/admin/v1")
	mods.MountAllAdmin(admin)
	return r
}
