package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/uxpages/internal/dispatch"
	"github.com/xxxsen/uxpages/internal/handler"
	"github.com/xxxsen/uxpages/internal/middleware"
	"github.com/xxxsen/uxpages/internal/pkg/jwt"
)

var testSecret = []byte("test-secret")

type call struct {
	kind dispatch.Kind
	msg  dispatch.Message
}

// fakeDispatcher records messages and answers with a canned result.
type fakeDispatcher struct {
	mu     sync.Mutex
	calls  []call
	result interface{}
	err    error
}

func (f *fakeDispatcher) Query(ctx context.Context, msg dispatch.Message) (interface{}, error) {
	return f.record(dispatch.KindQuery, msg)
}

func (f *fakeDispatcher) Novelty(ctx context.Context, msg dispatch.Message) (interface{}, error) {
	return f.record(dispatch.KindNovelty, msg)
}

func (f *fakeDispatcher) record(kind dispatch.Kind, msg dispatch.Message) (interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{kind: kind, msg: msg})
	return f.result, f.err
}

func (f *fakeDispatcher) last(t *testing.T) call {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls, "dispatcher was not called")
	return f.calls[len(f.calls)-1]
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func setupRouter(t *testing.T, d dispatch.Dispatcher) http.Handler {
	t.Helper()
	return setupRouterWith(t, d, 0)
}

func setupRouterWith(t *testing.T, d dispatch.Dispatcher, createWindow time.Duration) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.RequestID())
	handler.RegisterRoutes(engine.Group("/api"), handler.RouterDeps{
		Pages:        handler.NewPageHandler(d),
		History:      handler.NewHistoryHandler(d),
		JWTSecret:    testSecret,
		CreateWindow: createWindow,
	})
	return engine
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := jwt.GenerateToken("user-1", testSecret, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}
