package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-directory/internal/core/config"
	"user-directory/internal/core/metrics"
	"user-directory/internal/repo"
	"user-directory/internal/stream"
	"user-directory/internal/transport/http/handler"
	resp "user-directory/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

var limits = config.Limits{RPS: 1000, Burst: 1000, Concurrency: 10, MaxBodyBytes: 1 << 20, TimeoutSec: 1}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

type orderMod struct {
	name  string
	prio  int
	order *[]string
}

func (m orderMod) Priority() int { return m.prio }
func (m orderMod) MountAPI(g *gin.RouterGroup) {
	*m.order = append(*m.order, m.name)
	g.GET("/"+m.name, func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(m.name)) })
}

func TestModulesMountByPriority(t *testing.T) {
	var order []string
	mods := NewModules(orderMod{"b", 100, &order}, orderMod{"a", 10, &order})
	mods.Register(struct{}{})

	e := NewAPIEngine(zap.NewNop(), limits, mods)
	// 每个前缀各挂一遍
	assert.Equal(t, []string{"a", "b", "a", "b"}, order)
	assert.Equal(t, http.StatusOK, get(e, "/api/v1/a").Code)
}

func TestAPIEngine(t *testing.T) {
	r := repo.NewUserRepo()
	uh := handler.NewUserHandler(r, stream.New(r, time.Millisecond, zap.NewNop()), zap.NewNop())
	e := NewAPIEngine(zap.NewNop(), limits, NewModules(uh))

	w := get(e, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(e, "/api/v1/users/1")
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, resp.CodeOK, out.Code)

	w = get(e, "/api/v2/users")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, resp.CodeNotFound, out.Code)
	assert.Equal(t, "Not Found", out.Msg)

	w = get(e, "/api/v1/users/stream?batchSize=4")
	assert.Equal(t, 4, strings.Count(w.Body.String(), "event:user"))
}

func TestAPIEngineLegacyPrefix(t *testing.T) {
	r := repo.NewUserRepo()
	uh := handler.NewUserHandler(r, stream.New(r, time.Millisecond, zap.NewNop()), zap.NewNop())
	e := NewAPIEngine(zap.NewNop(), limits, NewModules(uh))

	var v1, legacy resp.Resp
	require.NoError(t, json.Unmarshal(get(e, "/api/v1/users/3").Body.Bytes(), &v1))
	require.NoError(t, json.Unmarshal(get(e, "/api/users/3").Body.Bytes(), &legacy))
	assert.Equal(t, v1, legacy)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"X","email":"x@x","role":"USER"}`))
	req.Header.Set("Content-Type", "application/json")
	e.ServeHTTP(w, req)
	assert.Equal(t, 5, r.Count())

	assert.Equal(t, 5, strings.Count(get(e, "/api/users/stream?batchSize=5").Body.String(), "event:user"))
}

func TestAPIEnginePerIPLimit(t *testing.T) {
	r := repo.NewUserRepo()
	uh := handler.NewUserHandler(r, stream.New(r, time.Millisecond, zap.NewNop()), zap.NewNop())
	lim := limits
	lim.PerIP = config.PerIP{RPS: 0.001, Burst: 1}
	e := NewAPIEngine(zap.NewNop(), lim, NewModules(uh))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		var out resp.Resp
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out.Code
	}

	assert.Equal(t, resp.CodeOK, call("192.0.2.10:4000"))
	assert.Equal(t, resp.CodeTooManyRequests, call("192.0.2.10:4001"))
	assert.Equal(t, resp.CodeOK, call("192.0.2.11:4000"))
}

func TestStreamRouteOutlivesRequestTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("slow")
	}
	r := repo.NewUserRepo()
	uh := handler.NewUserHandler(r, stream.New(r, 400*time.Millisecond, zap.NewNop()), zap.NewNop())
	e := NewAPIEngine(zap.NewNop(), limits, NewModules(uh))

	w := get(e, "/api/v1/users/stream?batchSize=1")
	body := w.Body.String()
	assert.Equal(t, 4, strings.Count(body, "event:user"))
	assert.Contains(t, body, "event:end")
}

func TestAdminEngine(t *testing.T) {
	r := repo.NewUserRepo()
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.RegisterUserGauge(reg, r))

	e := NewAdminEngine(zap.NewNop(), reg, NewModules(handler.NewAdminHandler(r, time.Second)))

	assert.Equal(t, http.StatusOK, get(e, "/health").Code)

	w := get(e, "/metrics")
	assert.Contains(t, w.Body.String(), "user_directory_users 4")

	r.Create("n", "e", "USER")
	w = get(e, "/metrics")
	assert.Contains(t, w.Body.String(), "user_directory_users 5")

	w = get(e, "/admin/v1/stats")
	assert.Contains(t, w.Body.String(), `"users":5`)
}
