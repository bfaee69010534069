package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-directory/internal/domain"
	"user-directory/internal/repo"
	"user-directory/internal/stream"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newEngine(t *testing.T, interval time.Duration) (*gin.Engine, *repo.UserRepo) {
	t.Helper()
	r := repo.NewUserRepo()
	h := NewUserHandler(r, stream.New(r, interval, zap.NewNop()), zap.NewNop())
	e := gin.New()
	api := e.Group("/api/v1")
	h.MountStream(api)
	h.MountAPI(api)
	return e, r
}

func do(t *testing.T, e http.Handler, method, path, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestListUsers(t *testing.T) {
	e, _ := newEngine(t, time.Millisecond)
	env := do(t, e, http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, 0, env.Code)

	users := decode[[]domain.User](t, env.Data)
	var names []string
	for _, u := range users {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"John Doe", "Jane Smith", "Bob Johnson", "Alice Brown"}, names)
}

func TestGetUser(t *testing.T) {
	e, r := newEngine(t, time.Millisecond)

	env := do(t, e, http.MethodGet, "/api/v1/users/2", "")
	got := decode[domain.User](t, env.Data)
	want, _ := r.Get(2)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected user (-want +got):\n%s", diff)
	}

	env = do(t, e, http.MethodGet, "/api/v1/users/99", "")
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, "null", string(env.Data))

	env = do(t, e, http.MethodGet, "/api/v1/users/0", "")
	assert.Equal(t, "null", string(env.Data))

	env = do(t, e, http.MethodGet, "/api/v1/users/abc", "")
	assert.Equal(t, 400, env.Code)
}

func TestCreateUser(t *testing.T) {
	e, r := newEngine(t, time.Millisecond)

	env := do(t, e, http.MethodPost, "/api/v1/users", `{"name":"","email":"not-an-email","role":"SUPERUSER"}`)
	require.Equal(t, 0, env.Code)
	u := decode[domain.User](t, env.Data)
	assert.Equal(t, int64(5), u.ID)
	assert.Equal(t, "SUPERUSER", u.Role)
	assert.Equal(t, 5, r.Count())

	env = do(t, e, http.MethodPost, "/api/v1/users", `{"name":`)
	assert.Equal(t, 400, env.Code)
}

func TestUpdateUser(t *testing.T) {
	e, r := newEngine(t, time.Millisecond)
	before, _ := r.Get(1)

	env := do(t, e, http.MethodPut, "/api/v1/users/1", `{"id":77,"name":"J","email":"j@j","role":"USER"}`)
	u := decode[domain.User](t, env.Data)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "J", u.Name)
	assert.True(t, before.CreatedAt.Equal(u.CreatedAt))
	_, ok := r.Get(77)
	assert.False(t, ok)

	env = do(t, e, http.MethodPut, "/api/v1/users/55", `{"name":"J"}`)
	assert.Equal(t, "null", string(env.Data))
}

func TestDeleteUser(t *testing.T) {
	e, _ := newEngine(t, time.Millisecond)

	env := do(t, e, http.MethodDelete, "/api/v1/users/4", "")
	assert.Equal(t, "true", string(env.Data))
	env = do(t, e, http.MethodDelete, "/api/v1/users/4", "")
	assert.Equal(t, "false", string(env.Data))

	env = do(t, e, http.MethodGet, "/api/v1/users/4", "")
	assert.Equal(t, "null", string(env.Data))
}

type sseEvent struct {
	Name string
	Data string
}

func parseSSE(body string) []sseEvent {
	var out []sseEvent
	for _, block := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event:"):
				ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				ev.Data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		}
		out = append(out, ev)
	}
	return out
}

func TestStreamUsers(t *testing.T) {
	e, _ := newEngine(t, 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/stream?batchSize=3", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	events := parseSSE(w.Body.String())
	require.Len(t, events, 5)
	for i := 0; i < 4; i++ {
		assert.Equal(t, "user", events[i].Name)
		u := decode[domain.User](t, json.RawMessage(events[i].Data))
		assert.Equal(t, int64(i+1), u.ID)
	}
	assert.Equal(t, "end", events[4].Name)
	assert.JSONEq(t, `{"count":4}`, events[4].Data)
}

func TestStreamUsersBadBatchSize(t *testing.T) {
	e, _ := newEngine(t, time.Millisecond)
	env := do(t, e, http.MethodGet, "/api/v1/users/stream?batchSize=x", "")
	assert.Equal(t, 400, env.Code)
}

func TestStreamUsersCancelled(t *testing.T) {
	e, _ := newEngine(t, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/stream?batchSize=2", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	events := parseSSE(w.Body.String())
	require.Len(t, events, 3)
	assert.Equal(t, "user", events[1].Name)
	assert.Equal(t, "error", events[2].Name)
	assert.Contains(t, events[2].Data, "stream cancelled")
}

func TestEndToEndScenario(t *testing.T) {
	e, _ := newEngine(t, time.Millisecond)

	orig := decode[domain.User](t, do(t, e, http.MethodGet, "/api/v1/users/2", "").Data)

	created := decode[domain.User](t, do(t, e, http.MethodPost, "/api/v1/users", `{"name":"X","email":"x@x","role":"USER"}`).Data)
	assert.Equal(t, int64(5), created.ID)

	up := decode[domain.User](t, do(t, e, http.MethodPut, "/api/v1/users/2", `{"name":"Y","email":"y@y","role":"ADMIN"}`).Data)
	assert.Equal(t, "Y", up.Name)
	assert.True(t, orig.CreatedAt.Equal(up.CreatedAt))

	assert.Equal(t, "true", string(do(t, e, http.MethodDelete, "/api/v1/users/3", "").Data))
	assert.Equal(t, "null", string(do(t, e, http.MethodGet, "/api/v1/users/3", "").Data))

	users := decode[[]domain.User](t, do(t, e, http.MethodGet, "/api/v1/users", "").Data)
	var ids []int64
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []int64{1, 2, 4, 5}, ids)
}

func TestAdminStats(t *testing.T) {
	r := repo.NewUserRepo()
	h := NewAdminHandler(r, 1500*time.Millisecond)
	e := gin.New()
	h.MountAdmin(e.Group("/admin/v1"))

	env := do(t, e, http.MethodGet, "/admin/v1/stats", "")
	st := decode[statsOut](t, env.Data)
	assert.Equal(t, 4, st.Users)
	assert.Equal(t, map[string]int{"ADMIN": 1, "USER": 2, "MODERATOR": 1}, st.Roles)
	assert.Equal(t, int64(1500), st.StreamIntervalMs)
}
