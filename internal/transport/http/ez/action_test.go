package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	resp "user-directory/internal/transport/http/response"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var out envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterActionMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	e := New(r.Group("/x"))

	type idIn struct {
		ID   int64  `uri:"id" binding:"required"`
		Name string `json:"name"`
	}
	RegisterAction(e, Action[idIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/items/:id",
		Binder: BindURIJSON,
		Handler: func(_ *gin.Context, in *idIn) (gin.H, error) {
			switch in.ID {
			case 1:
				return gin.H{"id": in.ID, "name": in.Name}, nil
			case 2:
				return nil, ErrAbsent
			case 3:
				return nil, &AErr{Code: resp.CodeServerBusy, Msg: "nope"}
			}
			return nil, errors.New("plain")
		},
	})

	ok := do(t, r, http.MethodPut, "/x/items/1", `{"name":"a"}`)
	assert.Equal(t, 0, ok.Code)
	assert.JSONEq(t, `{"id":1,"name":"a"}`, string(ok.Data))

	absent := do(t, r, http.MethodPut, "/x/items/2", `{}`)
	assert.Equal(t, 0, absent.Code)
	assert.Equal(t, "null", string(absent.Data))

	busy := do(t, r, http.MethodPut, "/x/items/3", `{}`)
	assert.Equal(t, resp.CodeServerBusy, busy.Code)
	assert.Equal(t, "nope", busy.Msg)

	plain := do(t, r, http.MethodPut, "/x/items/4", `{}`)
	assert.Equal(t, 500, plain.Code)

	bad := do(t, r, http.MethodPut, "/x/items/abc", `{}`)
	assert.Equal(t, 400, bad.Code)
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("disk gone")
	err := Internal("stats unavailable", cause)

	var ae *AErr
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, resp.CodeServerError, ae.Code)
	assert.Equal(t, "stats unavailable", err.Error())
	assert.ErrorIs(t, err, cause)
}
