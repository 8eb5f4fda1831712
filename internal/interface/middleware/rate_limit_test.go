package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedEngine(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	_ = ConfigureClientIP(r, nil, "")
	r.Use(RealIP())
	r.GET("/limited", h, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/limited", h, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func hit(r http.Handler, method, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/limited", nil)
	req.RemoteAddr = ip + ":4321"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := limitedEngine(RateLimit(rdb, 3, time.Minute, KeyByIP(), nil))
	for i := 0; i < 3; i++ {
		w := hit(r, http.MethodGet, "198.51.100.1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}
	w := hit(r, http.MethodGet, "198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other clients and preflight requests are unaffected
	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "198.51.100.2").Code)
	assert.Equal(t, http.StatusNoContent, hit(r, http.MethodOptions, "198.51.100.1").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "198.51.100.1").Code)
}

func TestRateLimitRedisFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	r := limitedEngine(RateLimit(rdb, 1, time.Minute, KeyByIP(), nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "198.51.100.1").Code)
	}
}

func TestRateLimitLocalFallback(t *testing.T) {
	r := limitedEngine(RateLimit(nil, 2, time.Minute, KeyByIP(), nil))

	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "198.51.100.1").Code)
	w := hit(r, http.MethodGet, "198.51.100.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = hit(r, http.MethodGet, "198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "198.51.100.2").Code)
}

func TestLocalLimiterRefills(t *testing.T) {
	l := newLocalLimiter(2, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	d, _ := l.take(nil, "k")
	assert.True(t, d.allowed)
	d, _ = l.take(nil, "k")
	assert.True(t, d.allowed)
	d, _ = l.take(nil, "k")
	assert.False(t, d.allowed)
	assert.Equal(t, 30, d.resetSec)

	now = now.Add(30 * time.Second)
	d, _ = l.take(nil, "k")
	assert.True(t, d.allowed)
}

func TestLocalLimiterEvictsIdleKeys(t *testing.T) {
	l := newLocalLimiter(1, time.Second)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	_, _ = l.take(nil, "old")
	now = now.Add(2 * time.Second)
	l.evictIdle(now)
	assert.NotContains(t, l.entries, "old")
}

func TestRateLimitAllowBypass(t *testing.T) {
	r := limitedEngine(RateLimit(nil, 1, time.Minute, KeyByIP(), AllowPrivateIP()))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "10.0.0.5").Code)
	}
	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "198.51.100.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, http.MethodGet, "198.51.100.1").Code)
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	r := limitedEngine(RateLimit(nil, 2, time.Minute, KeyByIP(), AllowPrivateIP()))
	spoofed := []string{"10.0.0.1", "198.51.100.20", "198.51.100.21", "127.0.0.1"}

	codes := make([]int, 0, len(spoofed))
	for _, xff := range spoofed {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "203.0.113.5:4321"
		req.Header.Set("X-Forwarded-For", xff)
		req.Header.Set("X-Real-IP", xff)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestKeyFuncs(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	c.Set("real_ip", "198.51.100.7")

	assert.Equal(t, "rl:ip:198.51.100.7", KeyByIP()(c))
	assert.Equal(t, "rl:path:/x:ip:198.51.100.7", KeyByIPAndPath()(c))
	assert.Equal(t, "rl:user:anon:ip:198.51.100.7", KeyByUserID()(c))
	c.Set("userID", "u1")
	assert.Equal(t, "rl:user:u1", KeyByUserID()(c))
}
