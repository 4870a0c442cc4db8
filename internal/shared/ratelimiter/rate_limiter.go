// Package ratelimiter は認証エンドポイントへの試行回数をクライアントごとに制限します。
package ratelimiter

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// MsgTooManyRequests は429応答のメッセージです。
const MsgTooManyRequests = "Too many attempts. Please try again later."

// window はキーごとの固定ウィンドウです。
type window struct {
	count int
	start time.Time
}

// RateLimiter は、キー（クライアントIP）ごとに interval あたり limit 回までの操作を許可します。
type RateLimiter struct {
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位でリセットするか
	now      func() time.Time

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は nil を返し、Middleware は何も制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return nil
	}
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
		windows:  make(map[string]*window),
	}
}

// Allow はkeyの試行を1回数え、上限内ならtrueを返します。
// 上限超過時は次のウィンドウまでの待ち時間を返します。
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.start) >= rl.interval {
		w = &window{start: now}
		rl.windows[key] = w
	}

	w.count++
	if w.count > rl.limit {
		return false, rl.interval - now.Sub(w.start)
	}
	return true, 0
}

// sweep は期限切れのウィンドウを interval ごとに削除します。
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.interval {
		return
	}
	for k, w := range rl.windows {
		if now.Sub(w.start) >= rl.interval {
			delete(rl.windows, k)
		}
	}
	rl.lastSweep = now
}

// Middleware はクライアントIPごとに試行回数を制限するGinミドルウェアです。
// 上限超過時は 429 と Retry-After ヘッダーを返します。
func Middleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}
		ok, retry := rl.Allow(c.ClientIP())
		if !ok {
			slog.Warn("rate limit exceeded", "ip", c.ClientIP(), "path", c.FullPath())
			seconds := int(retry.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": MsgTooManyRequests})
			return
		}
		c.Next()
	}
}
