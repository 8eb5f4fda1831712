package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/jyotir-aditya/fullstackAssignment/internal/interface/http"
	"github.com/jyotir-aditya/fullstackAssignment/internal/interface/middleware"
)

// DebugModule serves GET /health and, when enabled, GET /debug/vars.
type DebugModule struct {
	Health         *handlers.HealthHandler
	Redis          *redis.Client
	MetricsEnabled bool
}

func NewDebugModule(h *handlers.HealthHandler, rdb *redis.Client, metricsEnabled bool) *DebugModule {
	return &DebugModule{Health: h, Redis: rdb, MetricsEnabled: metricsEnabled}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Health.Health)
	if !m.MetricsEnabled {
		return
	}
	// expvar counters, rate-limited per IP except for private callers
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
