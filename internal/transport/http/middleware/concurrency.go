package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "user-directory/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数；拿不到名额直接拒绝
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerBusy, "server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
