package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/jyotir-aditya/fullstackAssignment/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
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

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath limits by client IP and route
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits by authenticated user, falling back to IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetString(ctxUserID)
		if uid == "" {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + uid
	}
}

// atomic INCR + PEXPIRE on first hit
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type AllowFunc func(*gin.Context) bool // return true to bypass the limit

// decision is the outcome of one limiter hit.
type decision struct {
	allowed   bool
	remaining int
	resetSec  int
}

type limiter interface {
	take(c *gin.Context, key string) (decision, error)
}

// RateLimit allows max requests per window per key. With a redis client the
// count is shared across instances (fixed window); without one a per-process
// token bucket from golang.org/x/time/rate is used.
// OPTIONS requests and requests accepted by allow are never limited.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	var l limiter
	if rdb != nil {
		l = &redisLimiter{rdb: rdb, max: max, window: window}
	} else {
		l = newLocalLimiter(max, window)
	}
	return func(c *gin.Context) {
		if allow != nil && allow(c) {
			c.Next()
			return
		}
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		d, err := l.take(c, keyFn(c))
		if err != nil {
			// fail open when redis is unavailable
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(d.resetSec))
		if !d.allowed {
			if d.resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(d.resetSec))
			}
			response.Error(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

type redisLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

func (l *redisLimiter) take(c *gin.Context, key string) (decision, error) {
	ctx := c.Request.Context()
	countI, err := incrExpireScript.Run(ctx, l.rdb, []string{key}, l.window.Milliseconds()).Result()
	if err != nil {
		return decision{}, err
	}
	count := toInt(countI)

	ttl, _ := l.rdb.PTTL(ctx, key).Result()
	resetSec := 0
	if ttl > 0 {
		resetSec = int(math.Ceil(ttl.Seconds()))
	}
	return decision{
		allowed:   count <= l.max,
		remaining: max(l.max-count, 0),
		resetSec:  resetSec,
	}, nil
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}

const localLimiterMaxKeys = 10000

type localEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// localLimiter keeps one token bucket per key, refilled at max per window.
type localLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	every   rate.Limit
	entries map[string]*localEntry
	now     func() time.Time
}

func newLocalLimiter(max int, window time.Duration) *localLimiter {
	return &localLimiter{
		max:     max,
		window:  window,
		every:   rate.Every(window / time.Duration(max)),
		entries: make(map[string]*localEntry),
		now:     time.Now,
	}
}

func (l *localLimiter) take(_ *gin.Context, key string) (decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok {
		if len(l.entries) >= localLimiterMaxKeys {
			l.evictIdle(now)
		}
		e = &localEntry{lim: rate.NewLimiter(l.every, l.max)}
		l.entries[key] = e
	}
	e.lastSeen = now

	allowed := e.lim.AllowN(now, 1)
	tokens := e.lim.TokensAt(now)
	d := decision{allowed: allowed, remaining: max(int(tokens), 0)}
	if !allowed {
		missing := 1 - tokens
		d.resetSec = max(int(math.Ceil(missing/float64(l.every))), 1)
	}
	return d, nil
}

// evictIdle drops buckets unused for a full window; those are full again
// and equivalent to a fresh limiter.
func (l *localLimiter) evictIdle(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) >= l.window {
			delete(l.entries, k)
		}
	}
}
