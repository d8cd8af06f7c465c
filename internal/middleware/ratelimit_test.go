package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(now *time.Time) *rateLimiter {
	return &rateLimiter{
		window:        10 * time.Second,
		last:          make(map[string]time.Time),
		sweepInterval: 10 * time.Second,
		now: func() time.Time {
			return *now
		},
	}
}

func limitedContext(userID string) (*gin.Context, *httptest.ResponseRecorder) {
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/pages", nil)
	c.Set(ContextUserIDKey, userID)
	return c, resp
}

func TestRateLimiterHandle_BlocksWithinWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now()
	limiter := newTestLimiter(&now)

	c1, _ := limitedContext("u1")
	limiter.handle(c1)
	require.False(t, c1.IsAborted())

	c2, resp := limitedContext("u1")
	limiter.handle(c2)
	require.True(t, c2.IsAborted())
	require.Equal(t, http.StatusTooManyRequests, resp.Code)

	other, _ := limitedContext("u2")
	limiter.handle(other)
	require.False(t, other.IsAborted())

	now = now.Add(11 * time.Second)
	c3, _ := limitedContext("u1")
	limiter.handle(c3)
	require.False(t, c3.IsAborted())
}

func TestRateLimiterDisabledWithoutWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handle := RateLimit(0)
	for i := 0; i < 3; i++ {
		c, _ := limitedContext("u1")
		handle(c)
		require.False(t, c.IsAborted())
	}
}

func TestRateLimiterCleanupExpiredLocked_RemovesExpiredEntries(t *testing.T) {
	base := time.Now()
	limiter := newTestLimiter(&base)
	limiter.last["expired"] = base.Add(-20 * time.Second)
	limiter.last["active"] = base.Add(-2 * time.Second)

	limiter.mu.Lock()
	limiter.cleanupExpiredLocked(base)
	limiter.mu.Unlock()

	require.NotContains(t, limiter.last, "expired")
	require.Contains(t, limiter.last, "active")
	require.False(t, limiter.lastSweep.IsZero())
}
