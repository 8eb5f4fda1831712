package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/jyotir-aditya/fullstackAssignment/internal/interface/http"
	"github.com/jyotir-aditya/fullstackAssignment/internal/interface/middleware"
)

// UserModule
// Public: POST /users, GET /users/:id
// Protected: GET /profile
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	createLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	readLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/users", createLimiter, m.Handler.Create)
	rg.GET("/users/:id", readLimiter, m.Handler.Get)
	rg.GET("/profile", m.Auth, m.Handler.Profile)
}
