package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"user-directory/internal/core/cache"
	"user-directory/internal/domain"
	httpez "user-directory/internal/transport/http/ez"
)

// statsTTL 统计结果缓存时长
const statsTTL = time.Second

// AdminHandler 管理端只读统计
type AdminHandler struct {
	store    domain.UserStore
	interval time.Duration
	started  time.Time
	stats    *cache.Memo[statsOut]
}

func NewAdminHandler(store domain.UserStore, streamInterval time.Duration) *AdminHandler {
	return &AdminHandler{
		store:    store,
		interval: streamInterval,
		started:  time.Now(),
		stats:    cache.NewMemo[statsOut](statsTTL),
	}
}

type statsOut struct {
	Users            int            `json:"users"`
	Roles            map[string]int `json:"roles"`
	StreamIntervalMs int64          `json:"streamIntervalMs"`
	Uptime           string         `json:"uptime"`
}

func (h *AdminHandler) loadStats(context.Context) (statsOut, error) {
	users := h.store.List()
	roles := make(map[string]int)
	for _, u := range users {
		roles[u.Role]++
	}
	return statsOut{Users: len(users), Roles: roles, StreamIntervalMs: h.interval.Milliseconds()}, nil
}

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	// --- GET /admin/v1/stats ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, statsOut]{
		Method: http.MethodGet,
		Path:   "/stats",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (statsOut, error) {
			out, err := h.stats.GetOrLoad(c.Request.Context(), "stats", h.loadStats)
			if err != nil {
				return statsOut{}, httpez.Internal("stats unavailable", err)
			}
			out.Uptime = time.Since(h.started).Truncate(time.Second).String()
			return out, nil
		},
	})
}
