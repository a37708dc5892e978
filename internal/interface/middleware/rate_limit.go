package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-task-manager/pkg/response"
)

// ipFromCtx prefers the address resolved by RealIP.
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc derives the counter key a request is charged against.
type KeyFunc func(c *gin.Context) string

// AllowFunc reports whether a request skips limiting altogether.
type AllowFunc func(*gin.Context) bool

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "rl:ip:" + ipFromCtx(c) }
}

// KeyByIPAndPath gives each route its own budget per client, so login
// attempts do not eat into registration.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID must run after Auth; anonymous requests fall back to the IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := UserID(c); uid != 0 {
			return "rl:user:" + strconv.FormatInt(uid, 10)
		}
		return "rl:user:anon:ip:" + ipFromCtx(c)
	}
}

// fixed window counter: INCR, and set the window expiry on the first hit
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type window struct {
	count int
	reset time.Duration
}

func hit(c *gin.Context, rdb *redis.Client, key string, per time.Duration) (window, error) {
	res, err := incrExpireScript.Run(c.Request.Context(), rdb, []string{key}, per.Milliseconds()).Int64Slice()
	if err != nil {
		return window{}, err
	}
	w := window{count: int(res[0])}
	if len(res) > 1 && res[1] > 0 {
		w.reset = time.Duration(res[1]) * time.Millisecond
	}
	return w, nil
}

// RateLimit allows max requests per key within each window and answers 429
// beyond that, with X-RateLimit-* and Retry-After headers (RFC 6585).
// A nil client disables limiting, and redis errors fail open. OPTIONS is never counted.
func RateLimit(rdb *redis.Client, max int, per time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || per <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		w, err := hit(c, rdb, keyFn(c), per)
		if err != nil {
			c.Next()
			return
		}

		resetSec := int((w.reset + time.Second - 1) / time.Second)
		remaining := max - w.count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if w.count > max {
			c.Header("Retry-After", strconv.Itoa(resetSec))
			response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
