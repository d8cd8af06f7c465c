package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/uxpages/internal/pkg/jwt"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := c.Get(ContextUserIDKey)
		requestID, _ := c.Get(ContextRequestIDKey)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "request_id": requestID})
	})
	engine.GET("/echo", handlers...)
	return engine
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	engine := newEngine(JWTAuth([]byte("secret")))
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestJWTAuthRejectsBadScheme(t *testing.T) {
	engine := newEngine(JWTAuth([]byte("secret")))
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestJWTAuthSetsUser(t *testing.T) {
	secret := []byte("secret")
	token, err := jwt.GenerateToken("user-7", secret, time.Hour)
	require.NoError(t, err)

	engine := newEngine(JWTAuth(secret))
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"user_id":"user-7"`)
}

func TestRequestIDEchoesHeader(t *testing.T) {
	engine := newEngine(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set("X-Request-Id", "abc")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	require.Equal(t, "abc", resp.Header().Get("X-Request-Id"))

	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.NotEmpty(t, resp.Header().Get("X-Request-Id"))
}

func TestCORSAllowlist(t *testing.T) {
	engine := newEngine(CORS([]string{"https://app.example.com"}))
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set("Origin", "https://app.example.com")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	require.Equal(t, "https://app.example.com", resp.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	require.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}
