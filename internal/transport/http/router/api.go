package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-directory/internal/core/config"
	"user-directory/internal/core/server"
	mdw "user-directory/internal/transport/http/middleware"
	resp "user-directory/internal/transport/http/response"
)

// apiPrefixes 同一组接口的挂载前缀；/api 是旧前端使用的无版本路径
var apiPrefixes = []string{"/api/v1", "/api"}

// NewAPIEngine 用户端：普通接口带超时，流式接口不带
func NewAPIEngine(l *zap.Logger, lim config.Limits, mods *Modules) *gin.Engine {
	r := server.NewRouter(l)

	chain := []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
	}
	if lim.PerIP.RPS > 0 {
		chain = append(chain, mdw.RateLimitPerIP(rate.Limit(lim.PerIP.RPS), lim.PerIP.Burst))
	}
	chain = append(chain,
		mdw.ConcurrencyLimit(lim.Concurrency),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
	r.Use(chain...)

	r.NoRoute(noRoute)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	timeout := mdw.Timeout(lim.Timeout())
	for _, prefix := range apiPrefixes {
		api := r.Group(prefix)
		mods.MountAllStream(api)

		timed := api.Group("")
		timed.Use(timeout)
		mods.MountAllAPI(timed)
	}

	return r
}

// noRoute 未匹配的路由也返回统一信封
func noRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, ""))
}
