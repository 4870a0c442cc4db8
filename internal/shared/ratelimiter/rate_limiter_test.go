package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter は時刻を操作できるRateLimiterを返します。
func newTestLimiter(limit int, interval time.Duration) (*RateLimiter, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(limit, interval)
	rl.now = func() time.Time { return now }
	return rl, &now
}

// TestAllow は上限とウィンドウのリセットを検証します。
func TestAllow(t *testing.T) {
	rl, now := newTestLimiter(2, time.Minute)

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
	ok, retry := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	// 別キーは独立
	ok, _ = rl.Allow("b")
	assert.True(t, ok)

	*now = now.Add(30 * time.Second)
	_, retry = rl.Allow("a")
	assert.Equal(t, 30*time.Second, retry)

	*now = now.Add(30 * time.Second)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
}

// TestAllow_Sweep は期限切れのキーが削除されることを検証します。
func TestAllow_Sweep(t *testing.T) {
	rl, now := newTestLimiter(1, time.Minute)
	rl.Allow("a")
	rl.Allow("b")

	*now = now.Add(2 * time.Minute)
	rl.Allow("c")

	assert.Len(t, rl.windows, 1)
}

// TestNewRateLimiter_Disabled は上限0でnilになり、ミドルウェアが素通しすることを検証します。
func TestNewRateLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewRateLimiter(0, time.Minute))
	assert.Nil(t, NewRateLimiter(5, 0))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", Middleware(nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

// TestMiddleware は上限超過時に429とRetry-Afterを返すことを検証します。
func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter(1, time.Minute)
	r := gin.New()
	r.POST("/auth/login", Middleware(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	w := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"`+MsgTooManyRequests+`"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}
