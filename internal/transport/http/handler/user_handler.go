package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory/internal/core/metrics"
	"user-directory/internal/domain"
	"user-directory/internal/stream"
	httpez "user-directory/internal/transport/http/ez"
	resp "user-directory/internal/transport/http/response"
)

// UserHandler REST 适配层：只做参数转换，原子性全部在 store 内部
type UserHandler struct {
	store    domain.UserStore
	streamer *stream.Streamer
	log      *zap.Logger
}

func NewUserHandler(store domain.UserStore, streamer *stream.Streamer, l *zap.Logger) *UserHandler {
	return &UserHandler{store: store, streamer: streamer, log: l}
}

// 非数字 id 绑定失败返回 400；0/负数按不存在处理
type idIn struct {
	ID int64 `uri:"id"`
}

// name/email/role 不做校验，原样透传
type userIn struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// body 里的 id 不参与绑定，以路径为准
type updateIn struct {
	ID int64 `uri:"id" json:"-"`
	userIn
}

type streamQ struct {
	BatchSize int `form:"batchSize"`
}

// MountAPI 挂载 /users CRUD
func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)

	// --- GET /users ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindNone,
		Handler: func(_ *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.store.List(), nil
		},
	})

	// --- GET /users/:id  不存在返回 data:null ---
	httpez.RegisterAction(ez, httpez.Action[idIn, domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindURI,
		Handler: func(_ *gin.Context, in *idIn) (domain.User, error) {
			u, ok := h.store.Get(in.ID)
			if !ok {
				return domain.User{}, httpez.ErrAbsent
			}
			return u, nil
		},
	})

	// --- POST /users ---
	httpez.RegisterAction(ez, httpez.Action[userIn, domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Handler: func(_ *gin.Context, in *userIn) (domain.User, error) {
			u := h.store.Create(in.Name, in.Email, in.Role)
			h.log.Debug("user created", zap.Int64("id", u.ID))
			return u, nil
		},
	})

	// --- PUT /users/:id  不存在返回 data:null，不做部分更新 ---
	httpez.RegisterAction(ez, httpez.Action[updateIn, domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: httpez.BindURIJSON,
		Handler: func(_ *gin.Context, in *updateIn) (domain.User, error) {
			u, ok := h.store.Update(in.ID, in.Name, in.Email, in.Role)
			if !ok {
				return domain.User{}, httpez.ErrAbsent
			}
			return u, nil
		},
	})

	// --- DELETE /users/:id  幂等，不存在返回 false ---
	httpez.RegisterAction(ez, httpez.Action[idIn, bool]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindURI,
		Handler: func(_ *gin.Context, in *idIn) (bool, error) {
			return h.store.Delete(in.ID), nil
		},
	})
}

// MountStream 挂载 SSE 推送；不能挂在带 Timeout 的分组上
func (h *UserHandler) MountStream(api *gin.RouterGroup) {
	api.GET("/users/stream", h.streamUsers)
}

// streamUsers 每条用户一个 "user" 事件，结束发 "end"，中途失败发 "error"
func (h *UserHandler) streamUsers(c *gin.Context) {
	var q streamQ
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	sent := 0
	err := h.streamer.StreamAll(c.Request.Context(), q.BatchSize, func(u domain.User) error {
		c.SSEvent("user", u)
		c.Writer.Flush()
		sent++
		metrics.StreamedUsers.WithLabelValues("http").Inc()
		return nil
	})
	if err != nil {
		outcome := "failed"
		if errors.Is(err, stream.ErrStreamCancelled) {
			outcome = "cancelled"
		}
		metrics.StreamsTotal.WithLabelValues("http", outcome).Inc()
		h.log.Info("user stream aborted", zap.Int("sent", sent), zap.Error(err))
		_ = c.Error(err)
		c.SSEvent("error", gin.H{"msg": err.Error()})
		c.Writer.Flush()
		return
	}
	metrics.StreamsTotal.WithLabelValues("http", "completed").Inc()
	c.SSEvent("end", gin.H{"count": sent})
	c.Writer.Flush()
}
