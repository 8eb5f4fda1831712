package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/internal/interface/middleware"
	handlers "github.com/jyotir-aditya/fullstackAssignment/internal/interface/http"
)

// AuthMiddleware builds the bearer-token guard shared by protected modules.
func AuthMiddleware(users middleware.TokenResolver, logger *logrus.Logger) gin.HandlerFunc {
	return middleware.Auth(users, logger)
}

// AuthModule serves POST /auth/signup and POST /auth/login.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
}
